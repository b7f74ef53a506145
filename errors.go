package crop

import (
	"errors"
	"fmt"
)

/*
Describes input that can't be turned into a valid query: a "between" criterion
with the wrong number of bounds, an unknown ordering field, a negative page
size or offset. Returned unwrapped by the builder, so callers may use either
`errors.As` or a type assertion. Errors coming from the database driver are
never converted into this type.
*/
type ValidationError struct{ Msg string }

func (self ValidationError) Error() string { return `[crop] ` + self.Msg }

func errValidation(msg string, args ...any) ValidationError {
	return ValidationError{fmt.Sprintf(msg, args...)}
}

// Returned when a query is executed while a join scope is still open.
var ErrOpenJoin = errors.New(`[crop] query has an unclosed join; every Join must be closed with EndJoin`)

// Returned when `EndJoin` is called on a root builder, or when a join scope is
// used after it was closed.
var ErrNoJoin = errors.New(`[crop] EndJoin called without a matching Join`)
