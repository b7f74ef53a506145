package crop

import (
	"testing"

	"github.com/mitranim/sqlb"
	"github.com/stretchr/testify/require"
)

type Pet struct {
	ID     int64   `json:"id"     db:"id"`
	Name   string  `json:"name"   db:"name"`
	Price  float64 `json:"price"  db:"price"`
	Active bool    `json:"active" db:"active"`
	TypeID int64   `json:"typeId" db:"type_id"`
}

type PetSearch struct {
	ID       *Cmp[int64]   `json:"id"`
	Name     *Text         `json:"name"`
	Price    *Cmp[float64] `json:"price"`
	Active   *Op[bool]     `json:"active"`
	Feature  *Text         `json:"feature"`
	Type     *Text         `json:"type"`
	Category *Text         `json:"category"`
}

var (
	testPets = Table[Pet](`pets`, `id`)

	petID      = NewField[int64](`id`)
	petName    = NewField[string](`name`)
	petPrice   = NewField[float64](`price`)
	petActive  = NewField[bool](`active`)
	featureVal = NewField[string](`feature`)
	code       = NewField[string](`code`)

	petType      = One(`pet_types`, `type_id`, `id`)
	petFeatures  = Many(`pet_features`, `id`, `pet_id`)
	typeCategory = One(`pet_categories`, `category_id`, `id`)
)

/*
The chain used by the pet shop: every search field, including fields under
nested joins.
*/
func searchPets(svc *Service, search PetSearch, order Order, page Page) *Builder[Pet, PetSearch] {
	return CreateWith(svc, testPets, search, order, page).
		Match(petID, func(s PetSearch) Criterion { return s.ID }).
		Match(petName, func(s PetSearch) Criterion { return s.Name }).
		Match(petPrice, func(s PetSearch) Criterion { return s.Price }).
		Join(petFeatures).
		Match(featureVal, func(s PetSearch) Criterion { return s.Feature }).
		EndJoin().
		Match(petActive, func(s PetSearch) Criterion { return s.Active }).
		Join(petType).
		Match(code, func(s PetSearch) Criterion { return s.Type }).
		Join(typeCategory).
		Match(code, func(s PetSearch) Criterion { return s.Category }).
		EndJoin().
		EndJoin()
}

func render(expr sqlb.Expr) (string, []any) {
	text, args := expr.AppendExpr(nil, nil)
	return string(text), args
}

func testExpr(t testing.TB, expText string, expArgs []any, expr sqlb.Expr) {
	t.Helper()
	text, args := render(expr)
	require.Equal(t, expText, text)
	require.Equal(t, expArgs, args)
}
