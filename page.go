package crop

import (
	"strconv"

	"github.com/mitranim/sqlb"
)

/*
Pagination. Without `Size` the query is not paginated and `Offset` is ignored.
With `Size` but without `Offset`, the offset is 0. Negative values fail the
query with `ValidationError`.

Renders literal numbers rather than parameters:

	limit 10 offset 0
*/
type Page struct {
	Size   Opt[int] `json:"size"   mapstructure:"size"`
	Offset Opt[int] `json:"offset" mapstructure:"offset"`
}

var _ = sqlb.Expr(Page{})

func (self Page) IsEmpty() bool { return !self.Size.Ok }

func (self Page) Validate() error {
	if self.Size.Ok && self.Size.Val < 0 {
		return errValidation(`page size must be non-negative, found %v`, self.Size.Val)
	}
	if self.Offset.Ok && self.Offset.Val < 0 {
		return errValidation(`page offset must be non-negative, found %v`, self.Offset.Val)
	}
	return nil
}

// Implement `sqlb.Expr`.
func (self Page) AppendExpr(text []byte, args []any) ([]byte, []any) {
	if self.IsEmpty() {
		return text, args
	}

	appendStr(&text, `limit `)
	text = strconv.AppendInt(text, int64(self.Size.Val), 10)
	appendStr(&text, ` offset `)
	text = strconv.AppendInt(text, int64(self.Offset.Val), 10)
	return text, args
}

func (self Page) String() string { return exprString(self) }
