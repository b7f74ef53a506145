/*
Overview

"Criteria Operator". Turns a structured search value, a struct whose fields are
optional per-field criteria, into SQL filters, and runs the same filter as a
row query and as a count query without writing it twice.

Example search value, as it may be decoded from JSON:

  {
    "price": {"btw": [10, 20]},
    "name":  {"like": "o"},
    "type":  {"eq": "dog"}
  }

Criteria

Each criterion type covers the operators that make sense for a storage type:

  Op[T]   eq, neq, in
  Cmp[T]  btw, gt, gte, lt, lte, then eq, neq, in
  Text    like, then eq, neq, in

A criterion yields at most one predicate: the first set operator in the order
above wins, and the rest are ignored. A criterion with nothing set yields no
predicate at all. "btw" must have exactly two bounds; anything else fails the
query with `ValidationError`.

Building queries

Declare the schema once:

  var (
    Pets     = crop.Table[Pet](`pets`, `id`)
    PetName  = crop.NewField[string](`name`)
    PetType  = crop.One(`pet_types`, `type_id`, `id`)
    TypeCode = crop.NewField[string](`code`)
  )

Then chain matches, opening a scope per relationship:

  builder := crop.CreateWith(svc, Pets, search, order, page).
    Match(PetName, func(s PetSearch) crop.Criterion { return s.Name }).
    Join(PetType).
    Match(TypeCode, func(s PetSearch) crop.Criterion { return s.Type }).
    EndJoin()

  pets, err := builder.GetResultList(ctx)
  count, err := builder.GetCount(ctx)

Joins are lazy. A relationship is joined only if some field under it actually
matched, so optional search fields that were left empty never cost a join.

Row and count queries

Every accepted match is recorded twice: as a predicate over the row query's
tables, and as a function that rebuilds the predicate over any fresh query
root. The count query builds its own root and replays the functions, which
re-derive every join they need, however deeply nested. Both queries are
ordinary reads; nothing guarantees they observe the same snapshot.

Ordering and paging

`Order` is a list of public field names, "-" meaning descending, usually decoded
from text such as "-price,name". `Page` applies "limit/offset" only when a size
is given. Neither affects the count.

SQL

All expressions implement `sqlb.Expr` from "github.com/mitranim/sqlb" and can be
embedded into other sqlb queries. Values are always passed as ordinal
parameters ($1, $2, ...); identifiers come only from schema declarations.
*/
package crop
