package crop

import "github.com/mitranim/sqlb"

/*
Per-field filter constraint. Given an expression referencing the field, returns
a boolean expression, or nil when the criterion constrains nothing. A nil
criterion (including a nil pointer stored in an interface) is absent and must
also return nil.

Implementations inspect their constraints in a fixed order and the first set
constraint wins; the others are ignored even if set.
*/
type Criterion interface {
	Match(field sqlb.Expr) (sqlb.Expr, error)
}

// Adapts a plain function to `Criterion`.
type CriterionFunc func(sqlb.Expr) (sqlb.Expr, error)

func (self CriterionFunc) Match(field sqlb.Expr) (sqlb.Expr, error) {
	if self == nil {
		return nil, nil
	}
	return self(field)
}

/*
Criterion available for fields of any type. Precedence: `Eq`, `Neq`, then `In`
if non-empty.

	{"eq": 10}        -> "field" = $1
	{"neq": 10}       -> "field" <> $1
	{"in": [10, 20]}  -> "field" in ($1, $2)
*/
type Op[T any] struct {
	Eq  Opt[T] `json:"eq"  mapstructure:"eq"`
	Neq Opt[T] `json:"neq" mapstructure:"neq"`
	In  []T    `json:"in"  mapstructure:"in"`
}

var _ = Criterion((*Op[int])(nil))

func (self *Op[T]) Match(field sqlb.Expr) (sqlb.Expr, error) {
	if self == nil {
		return nil, nil
	}
	if self.Eq.Ok {
		return Eq(field, self.Eq.Val), nil
	}
	if self.Neq.Ok {
		return Neq(field, self.Neq.Val), nil
	}
	if len(self.In) > 0 {
		return In{field, toAnys(self.In)}, nil
	}
	return nil, nil
}

/*
Criterion for ordered types: numbers, dates, strings. Precedence: `Btw`, `Gt`,
`Gte`, `Lt`, `Lte`, then the `Op` constraints.

`Btw` is inclusive on both ends. A nil `Btw` is unset; a non-nil one must hold
exactly two bounds, otherwise matching fails with `ValidationError` regardless
of other constraints.
*/
type Cmp[T any] struct {
	Op[T] `mapstructure:",squash"`
	Btw   []T    `json:"btw" mapstructure:"btw"`
	Gt    Opt[T] `json:"gt"  mapstructure:"gt"`
	Gte   Opt[T] `json:"gte" mapstructure:"gte"`
	Lt    Opt[T] `json:"lt"  mapstructure:"lt"`
	Lte   Opt[T] `json:"lte" mapstructure:"lte"`
}

var _ = Criterion((*Cmp[int])(nil))

func (self *Cmp[T]) Match(field sqlb.Expr) (sqlb.Expr, error) {
	if self == nil {
		return nil, nil
	}
	if self.Btw != nil {
		if len(self.Btw) != 2 {
			return nil, errValidation(`between requires exactly two bounds, found %v`, len(self.Btw))
		}
		return Between{field, self.Btw[0], self.Btw[1]}, nil
	}
	if self.Gt.Ok {
		return Gt(field, self.Gt.Val), nil
	}
	if self.Gte.Ok {
		return Gte(field, self.Gte.Val), nil
	}
	if self.Lt.Ok {
		return Lt(field, self.Lt.Val), nil
	}
	if self.Lte.Ok {
		return Lte(field, self.Lte.Val), nil
	}
	return self.Op.Match(field)
}

/*
Criterion for text fields. `Like` is an unanchored case-sensitive substring
match; wildcard characters in the input are escaped. Precedence: `Like`, then
the `Op` constraints.
*/
type Text struct {
	Op[string] `mapstructure:",squash"`
	Like       Opt[string] `json:"like" mapstructure:"like"`
}

var _ = Criterion((*Text)(nil))

func (self *Text) Match(field sqlb.Expr) (sqlb.Expr, error) {
	if self == nil {
		return nil, nil
	}
	if self.Like.Ok {
		return Contains(field, self.Like.Val), nil
	}
	return self.Op.Match(field)
}
