package rating

import "errors"

var (
	// ErrUnknownMethod is returned by ParseMethod.
	ErrUnknownMethod = errors.New("unknown rating method")
)
