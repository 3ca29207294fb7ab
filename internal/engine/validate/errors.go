package validate

import (
	"errors"
	"fmt"
)

const (
	ErrBadPosition = "E_BAD_POSITION"
	ErrBadData     = "E_BAD_DATA"
	ErrBadMetadata = "E_BAD_METADATA"
	ErrBadBounds   = "E_BAD_BOUNDS"
	ErrBadChecksum = "E_BAD_CHECKSUM"
	ErrBadShape    = "E_BAD_SHAPE"
)

// Error is a structural validation failure. It is always recoverable: the
// offending chunk is rejected whole, never partially accepted.
type Error struct {
	Code   string
	Field  string
	Detail string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Detail)
}

func errf(code, field, format string, args ...any) *Error {
	return &Error{Code: code, Field: field, Detail: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the validation code from err, or "" for foreign errors.
func CodeOf(err error) string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
