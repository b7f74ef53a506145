// Package petshop is a small pet store API built on crop: pets searchable by
// their own fields, their type, the category of the type, and their features.
package petshop

import (
	"time"

	"github.com/apulbere/crop"
)

// Pet is a row of the "pets" table.
type Pet struct {
	ID        int64     `json:"id"        db:"id"`
	Nickname  string    `json:"nickname"  db:"name"`
	Birthdate time.Time `json:"birthdate" db:"birthdate"`
	Price     float64   `json:"price"     db:"price"`
	Active    bool      `json:"active"    db:"active"`
	TypeID    int64     `json:"typeId"    db:"type_id"`
}

// PetType is a row of the "pet_types" table, such as "dog".
type PetType struct {
	ID         int64  `json:"id"         db:"id"`
	Code       string `json:"code"       db:"code"`
	CategoryID int64  `json:"categoryId" db:"category_id"`
}

// PetCategory is a row of the "pet_categories" table, such as "mammal".
type PetCategory struct {
	ID   int64  `json:"id"   db:"id"`
	Code string `json:"code" db:"code"`
}

// PetFeature is a row of the "pet_features" table.
type PetFeature struct {
	ID      int64  `json:"id"      db:"id"`
	PetID   int64  `json:"petId"   db:"pet_id"`
	Feature string `json:"feature" db:"feature"`
}

// Tables.
var (
	Pets          = crop.Table[Pet](`pets`, `id`)
	PetTypes      = crop.Table[PetType](`pet_types`, `id`)
	PetCategories = crop.Table[PetCategory](`pet_categories`, `id`)
	PetFeatures   = crop.Table[PetFeature](`pet_features`, `id`)
)

// Fields.
var (
	PetID        = crop.NewField[int64](`id`)
	PetNickname  = crop.NewField[string](`name`)
	PetBirthdate = crop.NewField[time.Time](`birthdate`)
	PetPrice     = crop.NewField[float64](`price`)
	PetActive    = crop.NewField[bool](`active`)

	TypeID   = crop.NewField[int64](`id`)
	TypeCode = crop.NewField[string](`code`)

	CategoryID   = crop.NewField[int64](`id`)
	CategoryCode = crop.NewField[string](`code`)

	FeaturePetID = crop.NewField[int64](`pet_id`)
	FeatureName  = crop.NewField[string](`feature`)
)

// Relationships.
var (
	PetTypeRel     = crop.One(`pet_types`, `type_id`, `id`)
	TypeCategory   = crop.One(`pet_categories`, `category_id`, `id`)
	PetFeaturesRel = crop.Many(`pet_features`, `id`, `pet_id`)
)
