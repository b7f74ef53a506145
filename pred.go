package crop

import (
	"strings"

	"github.com/mitranim/sqlb"
)

/*
Binary comparison between a field expression and a value. The value is always
passed as an ordinal parameter:

	Eq(Col{node, `price`}, 10) -> "t0"."price" = $1
*/
type Binary struct {
	Field sqlb.Expr
	Op    string
	Val   any
}

var _ = sqlb.Expr(Binary{})

func Eq(field sqlb.Expr, val any) Binary  { return Binary{field, `=`, val} }
func Neq(field sqlb.Expr, val any) Binary { return Binary{field, `<>`, val} }
func Gt(field sqlb.Expr, val any) Binary  { return Binary{field, `>`, val} }
func Gte(field sqlb.Expr, val any) Binary { return Binary{field, `>=`, val} }
func Lt(field sqlb.Expr, val any) Binary  { return Binary{field, `<`, val} }
func Lte(field sqlb.Expr, val any) Binary { return Binary{field, `<=`, val} }

// Implement `sqlb.Expr`.
func (self Binary) AppendExpr(text []byte, args []any) ([]byte, []any) {
	text, args = self.Field.AppendExpr(text, args)
	appendEnclosed(&text, ` `, self.Op, ` `)
	return appendArg(text, args, self.Val)
}

func (self Binary) String() string { return exprString(self) }

// Inclusive range: `"field" between $1 and $2`.
type Between struct {
	Field sqlb.Expr
	Lo    any
	Hi    any
}

var _ = sqlb.Expr(Between{})

// Implement `sqlb.Expr`.
func (self Between) AppendExpr(text []byte, args []any) ([]byte, []any) {
	text, args = self.Field.AppendExpr(text, args)
	appendStr(&text, ` between `)
	text, args = appendArg(text, args, self.Lo)
	appendStr(&text, ` and `)
	return appendArg(text, args, self.Hi)
}

func (self Between) String() string { return exprString(self) }

/*
Membership: `"field" in ($1, $2)`. An empty list matches nothing and renders
as `false`, since `in ()` is not valid SQL.
*/
type In struct {
	Field sqlb.Expr
	Vals  []any
}

var _ = sqlb.Expr(In{})

// Implement `sqlb.Expr`.
func (self In) AppendExpr(text []byte, args []any) ([]byte, []any) {
	if len(self.Vals) == 0 {
		appendStr(&text, `false`)
		return text, args
	}

	text, args = self.Field.AppendExpr(text, args)
	appendStr(&text, ` in (`)
	for i, val := range self.Vals {
		if i > 0 {
			appendStr(&text, `, `)
		}
		text, args = appendArg(text, args, val)
	}
	appendStr(&text, `)`)
	return text, args
}

func (self In) String() string { return exprString(self) }

/*
Pattern match with backslash as the escape character. The pattern is used as
is; see `Contains` for matching literal substrings.
*/
type Like struct {
	Field   sqlb.Expr
	Pattern string
}

var _ = sqlb.Expr(Like{})

// Implement `sqlb.Expr`.
func (self Like) AppendExpr(text []byte, args []any) ([]byte, []any) {
	text, args = self.Field.AppendExpr(text, args)
	appendStr(&text, ` like `)
	text, args = appendArg(text, args, self.Pattern)
	appendStr(&text, ` escape '\'`)
	return text, args
}

func (self Like) String() string { return exprString(self) }

// Unanchored substring match. Wildcards in `sub` are matched literally.
func Contains(field sqlb.Expr, sub string) Like {
	return Like{field, `%` + likeEscaper.Replace(sub) + `%`}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

/*
Conjunction. Every operand is parenthesized:

	And{a, b} -> (a) and (b)

A single operand is rendered bare. An empty conjunction is `true`.
*/
type And []sqlb.Expr

var _ = sqlb.Expr(And(nil))

// Implement `sqlb.Expr`.
func (self And) AppendExpr(text []byte, args []any) ([]byte, []any) {
	switch len(self) {
	case 0:
		appendStr(&text, `true`)
		return text, args
	case 1:
		return self[0].AppendExpr(text, args)
	}

	for i, expr := range self {
		if i > 0 {
			appendStr(&text, ` and `)
		}
		appendStr(&text, `(`)
		text, args = expr.AppendExpr(text, args)
		appendStr(&text, `)`)
	}
	return text, args
}

func (self And) String() string { return exprString(self) }
