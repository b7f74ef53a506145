package crop

import (
	"strings"

	"github.com/mitranim/sqlb"
)

/*
Ordering requested by a caller: a sequence of public field names, where a
leading "-" means descending. Empty means no ordering.

	crop.Order{`-price`, `name`}

Decodes from comma-separated text, which is the usual form in URL queries:

	var order crop.Order
	err := order.UnmarshalText([]byte(`-price,name`))

Names are resolved against the entity when the row query is assembled. Unknown
names fail the query with `ValidationError` before anything is executed.
*/
type Order []string

func (self *Order) UnmarshalText(input []byte) error {
	var out Order
	for _, val := range strings.Split(string(input), `,`) {
		val = strings.TrimSpace(val)
		if val != `` {
			out = append(out, val)
		}
	}
	*self = out
	return nil
}

func (self Order) String() string { return strings.Join(self, `,`) }

// Splits "-name" into "name" and the descending flag.
func ParseOrder(str string) (name string, desc bool) {
	name = strings.TrimPrefix(str, `-`)
	return name, len(name) < len(str)
}

func (self Order) resolve(node *Node, lookup func(string) (string, bool)) (Ords, error) {
	if len(self) == 0 {
		return nil, nil
	}

	out := make(Ords, 0, len(self))
	for _, str := range self {
		name, desc := ParseOrder(str)
		col, ok := lookup(name)
		if !ok {
			return nil, errValidation(`unknown ordering field %q`, name)
		}
		out = append(out, Ord{node.Col(col), desc})
	}
	return out, nil
}

/*
Short for "orderings". Structured representation of an SQL ordering such as:

	order by "t0"."price" desc, "t0"."name" asc

An empty sequence represents no ordering and renders nothing.
*/
type Ords []Ord

var _ = sqlb.Expr(Ords(nil))

// Implement `sqlb.Expr`.
func (self Ords) AppendExpr(text []byte, args []any) ([]byte, []any) {
	for i, ord := range self {
		if i == 0 {
			appendStr(&text, `order by `)
		} else {
			appendStr(&text, `, `)
		}
		text, args = ord.AppendExpr(text, args)
	}
	return text, args
}

func (self Ords) String() string { return exprString(self) }

// True if there are no orderings.
func (self Ords) IsEmpty() bool { return len(self) == 0 }

// Shortcut for ascending ordering.
func OrdAsc(col sqlb.Expr) Ord { return Ord{Col: col, IsDesc: false} }

// Shortcut for descending ordering.
func OrdDesc(col sqlb.Expr) Ord { return Ord{Col: col, IsDesc: true} }

/*
Short for "ordering". Describes an SQL ordering like:

	"t0"."price" desc

Note on `IsDesc`: the default value `false` corresponds to "ascending", which is
the default in SQL.
*/
type Ord struct {
	Col    sqlb.Expr
	IsDesc bool
}

var _ = sqlb.Expr(Ord{})

// Implement `sqlb.Expr`.
func (self Ord) AppendExpr(text []byte, args []any) ([]byte, []any) {
	text, args = self.Col.AppendExpr(text, args)
	if self.IsDesc {
		appendStr(&text, ` desc`)
	} else {
		appendStr(&text, ` asc`)
	}
	return text, args
}

func (self Ord) String() string { return exprString(self) }
