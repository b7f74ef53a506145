package petshop

import (
	"time"

	"github.com/apulbere/crop"
)

// PetSearch holds the optional criteria accepted by the pet endpoints. A nil
// field doesn't filter.
type PetSearch struct {
	ID        *crop.Cmp[int64]     `json:"id"        mapstructure:"id"`
	Nickname  *crop.Text           `json:"nickname"  mapstructure:"nickname"`
	Type      *crop.Text           `json:"type"      mapstructure:"type"`
	Category  *crop.Text           `json:"category"  mapstructure:"category"`
	Birthdate *crop.Cmp[time.Time] `json:"birthdate" mapstructure:"birthdate"`
	Price     *crop.Cmp[float64]   `json:"price"     mapstructure:"price"`
	Active    *crop.Op[bool]       `json:"active"    mapstructure:"active"`
	Features  *crop.Text           `json:"features"  mapstructure:"features"`
}

// SearchPets composes every criterion of the search, including the ones
// under the type, category and feature relationships. The same builder
// serves both the list and the count.
func SearchPets(svc *crop.Service, search PetSearch, order crop.Order, page crop.Page) *crop.Builder[Pet, PetSearch] {
	return crop.CreateWith(svc, Pets, search, order, page).
		Match(PetID, func(s PetSearch) crop.Criterion { return s.ID }).
		Match(PetNickname, func(s PetSearch) crop.Criterion { return s.Nickname }).
		Match(PetBirthdate, func(s PetSearch) crop.Criterion { return s.Birthdate }).
		Match(PetPrice, func(s PetSearch) crop.Criterion { return s.Price }).
		Match(PetActive, func(s PetSearch) crop.Criterion { return s.Active }).
		Join(PetFeaturesRel).
		Match(FeatureName, func(s PetSearch) crop.Criterion { return s.Features }).
		EndJoin().
		Join(PetTypeRel).
		Match(TypeCode, func(s PetSearch) crop.Criterion { return s.Type }).
		Join(TypeCategory).
		Match(CategoryCode, func(s PetSearch) crop.Criterion { return s.Category }).
		EndJoin().
		EndJoin()
}
