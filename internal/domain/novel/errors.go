package novel

import "errors"

var (
	// ErrNotFound indicates the element doesn't exist.
	ErrNotFound = errors.New("element not found")
	// ErrInvalidID indicates an ID without a known type prefix.
	ErrInvalidID = errors.New("invalid element id")
	// ErrDuplicateID indicates the ID is already taken.
	ErrDuplicateID = errors.New("duplicate element id")
	// ErrWrongParent indicates a node placed below a parent of the wrong kind.
	ErrWrongParent = errors.New("element kind not allowed below parent")
	// ErrMultipleTrash indicates more than one chapter is marked as trash bin.
	ErrMultipleTrash = errors.New("more than one trash chapter")
	// ErrTrashNotLast indicates the trash chapter is not the last chapter.
	ErrTrashNotLast = errors.New("trash chapter must be the last chapter")
	// ErrBrokenReference indicates an asymmetric or dangling cross reference.
	ErrBrokenReference = errors.New("broken element reference")
	// ErrInvalidDate indicates a date or time not in ISO 8601 form.
	ErrInvalidDate = errors.New("invalid ISO date")
)
