package content

import "github.com/rotisserie/eris"

// ErrNotFound indicates the referenced record does not exist.
var ErrNotFound = eris.New("record not found")

// ErrUnknownType indicates a content type tag outside the allow-list.
var ErrUnknownType = eris.New("unknown content type")

// ErrValidation indicates a missing or malformed required field.
var ErrValidation = eris.New("validation failed")
