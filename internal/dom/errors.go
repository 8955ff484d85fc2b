package dom

import "errors"

// ErrInvalidSelector is returned when a selector fails to compile.
// A selector that compiles but matches nothing is not an error.
var ErrInvalidSelector = errors.New("invalid selector")
