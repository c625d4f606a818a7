package converter

import (
	"github.com/google/uuid"
	"github.com/rpggio/novx/internal/domain/activity"
	"github.com/rpggio/novx/internal/format"
)

// Options are the caller preferences a run honors.
type Options struct {
	// AskBeforeOverwrite consults the Decider when a target exists.
	AskBeforeOverwrite bool
	// LockOnExport leaves a lock marker next to an exported project until
	// the document is read back.
	LockOnExport bool
	// Backup keeps the previous project file when writing it.
	Backup bool
	// StylesPath names a styles.xml used for text documents instead of the
	// built-in styles.
	StylesPath string
}

// Decision answers an existing-target question.
type Decision int

const (
	Overwrite Decision = iota
	OpenExisting
	Cancel
)

func (d Decision) String() string {
	switch d {
	case Overwrite:
		return "overwrite"
	case OpenExisting:
		return "open existing"
	default:
		return "cancel"
	}
}

// Decider is asked what to do about a target file that already exists.
type Decider interface {
	Decide(path string) Decision
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(path string) Decision

func (f DeciderFunc) Decide(path string) Decision { return f(path) }

// Request names the file to convert. Suffix selects the export kind when
// Path is a project. Filter limits which chapters and sections are
// exported; a non-zero Select replaces it once the project is read.
// Decider replaces the converter's decider for this run.
type Request struct {
	Path    string
	Suffix  string
	Filter  format.Filter
	Select  format.Selection
	Decider Decider
}

// Result describes a finished run.
type Result struct {
	RunID   uuid.UUID
	Stage   activity.Stage
	Kind    format.Kind
	Source  string
	Target  string
	Message string
	// Opened is set when the caller chose to open the existing target
	// instead of overwriting it.
	Opened bool
}
