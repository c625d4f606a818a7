package converter

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled is returned when the caller declines to overwrite a target.
	ErrCanceled = errors.New("conversion canceled")

	// ErrDocumentOpen is returned when a document to write or read back is
	// open in an office suite.
	ErrDocumentOpen = errors.New("document is open in an office suite")

	// ErrProjectNotFound is returned when an edited document has no project
	// to be read back into.
	ErrProjectNotFound = errors.New("project not found")
)

// Notification is a failure reported to the user rather than a defect in
// the data. It wraps ErrCanceled or ErrDocumentOpen.
type Notification struct {
	Err     error
	Message string
}

func (n *Notification) Error() string {
	return n.Message
}

func (n *Notification) Unwrap() error {
	return n.Err
}

func notify(err error, format string, args ...any) error {
	return &Notification{Err: err, Message: fmt.Sprintf(format, args...)}
}

// IsNotification reports whether err only needs to be shown to the user.
func IsNotification(err error) bool {
	var n *Notification
	return errors.As(err, &n)
}
