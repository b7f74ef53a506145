package crop

import (
	"context"
	"database/sql"

	"github.com/mitranim/sqlb"
)

/*
Executes queries. Satisfied by `*sql.DB`, `*sql.Tx`, and `*sql.Conn`.
Cancellation and timeouts are left to the driver via the context.
*/
type Querier interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

/*
Row query over a single `From`:

	select "t0"."id", "t0"."name" from "pets" as "t0" where ... order by ... limit ...

The conjunction is rendered before the FROM clause, so only the joins it
references are materialized. When a to-many join is materialized the select
becomes `select distinct`, to avoid duplicating root rows.
*/
type Select struct {
	From  *From
	Cols  []string
	Where And
	Ords  Ords
	Page  Page
}

var _ = sqlb.Expr(Select{})

// Implement `sqlb.Expr`.
func (self Select) AppendExpr(text []byte, args []any) ([]byte, []any) {
	where, args := self.appendWhere(args)
	ords, args := self.Ords.AppendExpr(nil, args)

	appendStr(&text, `select `)
	if self.From.HasMany() {
		appendStr(&text, `distinct `)
	}

	root := self.From.Root()
	for i, name := range self.Cols {
		if i > 0 {
			appendStr(&text, `, `)
		}
		text, args = root.Col(name).AppendExpr(text, args)
	}

	appendStr(&text, ` from `)
	text, args = self.From.AppendExpr(text, args)
	text = append(text, where...)

	if len(ords) > 0 {
		appendStr(&text, ` `)
		text = append(text, ords...)
	}
	if !self.Page.IsEmpty() {
		appendStr(&text, ` `)
		text, args = self.Page.AppendExpr(text, args)
	}
	return text, args
}

func (self Select) String() string { return exprString(self) }

func (self Select) appendWhere(args []any) ([]byte, []any) {
	return appendWhere(self.Where, args)
}

/*
Count query over a single `From`:

	select count(*) from "pets" as "t0" where ...

With a materialized to-many join, counts distinct root keys instead.
*/
type Count struct {
	From  *From
	Key   string
	Where And
}

var _ = sqlb.Expr(Count{})

// Implement `sqlb.Expr`.
func (self Count) AppendExpr(text []byte, args []any) ([]byte, []any) {
	where, args := appendWhere(self.Where, args)

	if self.From.HasMany() {
		appendStr(&text, `select count(distinct `)
		text, args = self.From.Root().Col(self.Key).AppendExpr(text, args)
		appendStr(&text, `) from `)
	} else {
		appendStr(&text, `select count(*) from `)
	}

	text, args = self.From.AppendExpr(text, args)
	text = append(text, where...)
	return text, args
}

func (self Count) String() string { return exprString(self) }

func appendWhere(where And, args []any) ([]byte, []any) {
	if len(where) == 0 {
		return nil, args
	}
	text := []byte(` where `)
	return where.AppendExpr(text, args)
}
