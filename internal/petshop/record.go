package petshop

import (
	"context"
	"fmt"
	"time"

	"github.com/apulbere/crop"
)

// PetRecord is the API representation of a pet.
type PetRecord struct {
	ID        int64    `json:"id"`
	Nickname  string   `json:"nickname"`
	Birthdate string   `json:"birthdate"`
	Price     float64  `json:"price"`
	Active    bool     `json:"active"`
	Type      string   `json:"type"`
	Category  string   `json:"category"`
	Features  []string `json:"features"`
}

// MapRecords loads the types, categories and features referenced by the pets
// and assembles records in the order of the input.
func MapRecords(ctx context.Context, svc *crop.Service, pets []Pet) ([]PetRecord, error) {
	out := make([]PetRecord, 0, len(pets))
	if len(pets) == 0 {
		return out, nil
	}

	petIDs := make([]int64, 0, len(pets))
	typeIDs := make([]int64, 0, len(pets))
	for _, pet := range pets {
		petIDs = append(petIDs, pet.ID)
		typeIDs = append(typeIDs, pet.TypeID)
	}

	types, err := fetchIn(ctx, svc, PetTypes, TypeID, typeIDs)
	if err != nil {
		return nil, fmt.Errorf(`failed to load pet types: %w`, err)
	}

	catIDs := make([]int64, 0, len(types))
	typeByID := make(map[int64]PetType, len(types))
	for _, typ := range types {
		typeByID[typ.ID] = typ
		catIDs = append(catIDs, typ.CategoryID)
	}

	cats, err := fetchIn(ctx, svc, PetCategories, CategoryID, catIDs)
	if err != nil {
		return nil, fmt.Errorf(`failed to load pet categories: %w`, err)
	}

	catByID := make(map[int64]string, len(cats))
	for _, cat := range cats {
		catByID[cat.ID] = cat.Code
	}

	features, err := fetchIn(ctx, svc, PetFeatures, FeaturePetID, petIDs)
	if err != nil {
		return nil, fmt.Errorf(`failed to load pet features: %w`, err)
	}

	featuresByPet := make(map[int64][]string, len(pets))
	for _, feature := range features {
		featuresByPet[feature.PetID] = append(featuresByPet[feature.PetID], feature.Feature)
	}

	for _, pet := range pets {
		typ := typeByID[pet.TypeID]
		feats := featuresByPet[pet.ID]
		if feats == nil {
			feats = []string{}
		}

		out = append(out, PetRecord{
			ID:        pet.ID,
			Nickname:  pet.Nickname,
			Birthdate: pet.Birthdate.Format(time.DateOnly),
			Price:     pet.Price,
			Active:    pet.Active,
			Type:      typ.Code,
			Category:  catByID[typ.CategoryID],
			Features:  feats,
		})
	}
	return out, nil
}

// Upper bound on ids per "in" list, below SQLite's default host parameter limit.
var fetchChunk = 500

// fetchIn loads the rows whose field is one of the ids, in chunks of at most
// fetchChunk ids. Rows are ordered by key within each chunk.
func fetchIn[E any](ctx context.Context, svc *crop.Service, entity *crop.Entity[E], field crop.Field[int64], ids []int64) ([]E, error) {
	ids = uniqueIDs(ids)
	order := crop.Order{entity.Key}
	out := make([]E, 0, len(ids))

	for len(ids) > 0 {
		size := min(len(ids), fetchChunk)
		chunk := ids[:size]
		ids = ids[size:]

		rows, err := crop.CreateWith(svc, entity, &crop.Op[int64]{In: chunk}, order, crop.Page{}).
			Match(field, func(s *crop.Op[int64]) crop.Criterion { return s }).
			GetResultList(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
