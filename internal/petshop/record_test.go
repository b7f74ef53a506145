package petshop

import (
	"context"
	"testing"

	"github.com/apulbere/crop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededService(t *testing.T) *crop.Service {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, `:memory:`)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Seed(ctx, db))
	return crop.NewService(db)
}

func withFetchChunk(t *testing.T, size int) {
	prev := fetchChunk
	fetchChunk = size
	t.Cleanup(func() { fetchChunk = prev })
}

func TestFetchInChunks(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()
	ids := []int64{1, 2, 3, 4, 5, 1, 3}

	whole, err := fetchIn(ctx, svc, PetFeatures, FeaturePetID, ids)
	require.NoError(t, err)
	require.Len(t, whole, 6)

	withFetchChunk(t, 2)

	chunked, err := fetchIn(ctx, svc, PetFeatures, FeaturePetID, ids)
	require.NoError(t, err)
	assert.ElementsMatch(t, whole, chunked)
}

func TestMapRecordsChunked(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	pets, err := SearchPets(svc, PetSearch{}, crop.Order{`id`}, crop.Page{}).GetResultList(ctx)
	require.NoError(t, err)
	require.Len(t, pets, len(seedPets))

	whole, err := MapRecords(ctx, svc, pets)
	require.NoError(t, err)

	withFetchChunk(t, 1)

	chunked, err := MapRecords(ctx, svc, pets)
	require.NoError(t, err)
	assert.Equal(t, whole, chunked)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, uniqueIDs([]int64{3, 1, 3, 2, 1}))
	assert.Equal(t, []int64{}, uniqueIDs(nil))
}
