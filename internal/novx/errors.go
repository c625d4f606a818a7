package novx

import "errors"

var (
	// ErrMalformed indicates the input is not a novx document.
	ErrMalformed = errors.New("malformed novx document")
	// ErrVersion indicates a schema version this codec can't read.
	ErrVersion = errors.New("unsupported novx version")
	// ErrZipMember indicates a zipped project without exactly one novx member.
	ErrZipMember = errors.New("archive must contain exactly one novx file")
	// ErrLinkNotFound indicates a link whose target exists at neither path.
	ErrLinkNotFound = errors.New("link target not found")
)
