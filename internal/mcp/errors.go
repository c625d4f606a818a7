package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/novx/internal/converter"
	"github.com/rpggio/novx/internal/domain/novel"
	"github.com/rpggio/novx/internal/format"
	"github.com/rpggio/novx/internal/novx"
	"github.com/rpggio/novx/internal/odf"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps conversion errors to MCP error codes. The wrapped error
// text is kept in Details.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	apiErr := mapKnown(err)
	if apiErr == nil {
		return nil
	}
	apiErr.Details = err.Error()
	return apiErr
}

func mapKnown(err error) *APIError {
	switch {
	case errors.Is(err, converter.ErrCanceled):
		return &APIError{Code: "CANCELED", Message: "target exists and was not overwritten", RecoveryHint: "Retry with overwrite=true"}
	case errors.Is(err, converter.ErrDocumentOpen):
		return &APIError{Code: "DOCUMENT_OPEN", Message: "document is open in an office suite", RecoveryHint: "Close the document and retry"}
	case errors.Is(err, converter.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "no project for this document", RecoveryHint: "Keep the document next to its .novx project"}
	case errors.Is(err, format.ErrUnsupportedType):
		return &APIError{Code: "UNSUPPORTED_TYPE", Message: "file type not supported", RecoveryHint: "Call list_formats for valid suffixes"}
	case errors.Is(err, novx.ErrVersion):
		return &APIError{Code: "UNSUPPORTED_VERSION", Message: "project was written by a newer version"}
	case errors.Is(err, novx.ErrMalformed), errors.Is(err, novx.ErrZipMember):
		return &APIError{Code: "MALFORMED_PROJECT", Message: "project file is not valid novx"}
	case errors.Is(err, odf.ErrMissingPart):
		return &APIError{Code: "MALFORMED_DOCUMENT", Message: "document lacks expected content"}
	case errors.Is(err, novel.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "element not found", RecoveryHint: "Check ID spelling"}
	default:
		return nil
	}
}
