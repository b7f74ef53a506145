package crop

import (
	"context"
	"fmt"

	"github.com/mitranim/sqlb"
	"go.uber.org/zap"
)

/*
Re-derives a predicate against any `From` of the same entity. Producers are
what allows the count query to reuse the filter of the row query without
sharing its joins: each producer rebuilds its own join path on the new root.
*/
type Producer func(*From) (sqlb.Expr, error)

// State shared by a root builder and all of its join scopes.
type query[E, S any] struct {
	svc    *Service
	entity *Entity[E]
	search S
	order  Order
	page   Page
	from   *From
	root   *Builder[E, S]
	open   int
	err    error
}

func (self *query[E, S]) fail(err error) {
	if self.err == nil {
		self.err = err
	}
}

/*
Fluent query builder, obtained from `Create` or `CreateWith`. A builder is
either the root of a query or a join scope opened by `Join` and closed by
`EndJoin`. Every accepted `Match` appends two things at once: a predicate bound
to the row query's `From`, and a `Producer` that can rebuild the same predicate
on a fresh `From`. The row query uses the former, the count query the latter.

	pets, err := crop.CreateWith(svc, Pets, search, order, page).
		Match(PetName, func(s PetSearch) crop.Criterion { return s.Name }).
		Join(PetType).
		Match(TypeCode, func(s PetSearch) crop.Criterion { return s.Type }).
		EndJoin().
		GetResultList(ctx)

Errors are recorded on first occurrence. After that, chaining methods do
nothing and the terminal methods return the error. A builder is meant for one
request on one goroutine.
*/
type Builder[E, S any] struct {
	q      *query[E, S]
	parent *Builder[E, S]
	node   *Node
	path   func(*From) *Node
	bound  []sqlb.Expr
	rel    []Producer
	closed bool
}

/*
Extracts the criterion for one field from the search value and, if it
constrains anything, adds its predicate. The field is resolved relative to the
current scope: the root entity, or the table reached by the enclosing joins.
Absent criteria add nothing, and don't cause any joins.
*/
func (self *Builder[E, S]) Match(attr Attr, get func(S) Criterion) *Builder[E, S] {
	if self.q.err != nil || get == nil {
		return self
	}
	if self.closed {
		self.q.fail(ErrNoJoin)
		return self
	}

	crit := get(self.q.search)
	if crit == nil {
		return self
	}

	if attr == nil || attr.column() == `` {
		self.q.fail(fmt.Errorf(`[crop] missing field reference`))
		return self
	}
	col := attr.column()

	expr, err := crit.Match(self.node.Col(col))
	if err != nil {
		self.q.fail(err)
		return self
	}
	if expr == nil {
		return self
	}

	path := self.path
	self.bound = append(self.bound, expr)
	self.rel = append(self.rel, func(from *From) (sqlb.Expr, error) {
		return crit.Match(path(from).Col(col))
	})
	return self
}

/*
Opens a scope for the related table. Nothing is joined until a field under the
scope, or under a nested scope, actually matches. Must be closed with
`EndJoin`.
*/
func (self *Builder[E, S]) Join(rel Rel) *Builder[E, S] {
	if self.closed {
		self.q.fail(ErrNoJoin)
		return self
	}

	parentPath := self.path
	path := func(from *From) *Node { return parentPath(from).Join(rel) }

	self.q.open++
	return &Builder[E, S]{
		q:      self.q,
		parent: self,
		node:   path(self.q.from),
		path:   path,
	}
}

/*
Closes the scope opened by `Join` and returns the enclosing builder. Predicates
move into the enclosing scope; producers move straight to the root, so nested
joins of any depth are replayed from the root by the count query. A closed
scope can't be used again: any further call on it records `ErrNoJoin`.
*/
func (self *Builder[E, S]) EndJoin() *Builder[E, S] {
	if self.parent == nil || self.closed {
		self.q.fail(ErrNoJoin)
		return self
	}

	self.closed = true
	self.parent.bound = append(self.parent.bound, self.bound...)
	self.q.root.rel = append(self.q.root.rel, self.rel...)
	self.bound, self.rel = nil, nil
	self.q.open--
	return self.parent
}

// Returns the first error recorded by the chain, if any.
func (self *Builder[E, S]) Err() error { return self.q.err }

func (self *Builder[E, S]) ready() error {
	if self.q.err != nil {
		return self.q.err
	}
	if self.parent != nil || self.q.open > 0 {
		return ErrOpenJoin
	}
	return nil
}

// Assembles the row query without executing it.
func (self *Builder[E, S]) Query() (Select, error) {
	err := self.ready()
	if err != nil {
		return Select{}, err
	}

	q := self.q
	err = q.page.Validate()
	if err != nil {
		return Select{}, err
	}

	ords, err := q.order.resolve(q.from.Root(), q.entity.Col)
	if err != nil {
		return Select{}, err
	}

	return Select{
		From:  q.from,
		Cols:  q.entity.Cols(),
		Where: append(And(nil), self.bound...),
		Ords:  ords,
		Page:  q.page,
	}, nil
}

/*
Assembles the count query without executing it. Builds a new `From` of the
same entity and replays every producer against it. Ordering and paging don't
apply.
*/
func (self *Builder[E, S]) CountQuery() (Count, error) {
	err := self.ready()
	if err != nil {
		return Count{}, err
	}

	q := self.q
	from := NewFrom(q.entity.Table)
	where := make(And, 0, len(self.rel))

	for _, fun := range self.rel {
		expr, err := fun(from)
		if err != nil {
			return Count{}, err
		}
		if expr != nil {
			where = append(where, expr)
		}
	}

	return Count{From: from, Key: q.entity.Key, Where: where}, nil
}

/*
Executes the row query and scans the rows into entities. Returns an empty
non-nil slice when nothing matches. Database errors are returned unchanged.
*/
func (self *Builder[E, S]) GetResultList(ctx context.Context) ([]E, error) {
	sel, err := self.Query()
	if err != nil {
		return nil, err
	}

	text, args := sqlb.Reify(sel)
	svc := self.q.svc
	svc.log.Debug(`executing row query`, zap.String(`sql`, text), zap.Int(`args`, len(args)))

	rows, err := svc.db.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return self.q.entity.scan(rows)
}

/*
Executes the count query. The count is independent of paging, and equals the
length of the unpaginated row list at the time of execution.
*/
func (self *Builder[E, S]) GetCount(ctx context.Context) (int64, error) {
	count, err := self.CountQuery()
	if err != nil {
		return 0, err
	}

	text, args := sqlb.Reify(count)
	svc := self.q.svc
	svc.log.Debug(`executing count query`, zap.String(`sql`, text), zap.Int(`args`, len(args)))

	rows, err := svc.db.QueryContext(ctx, text, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var out int64
	if rows.Next() {
		err = rows.Scan(&out)
		if err != nil {
			return 0, err
		}
	}
	return out, rows.Err()
}
