package petshop

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigratesOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), `petshop.db`)

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, db))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `select count(*) from pets`).Scan(&count))
	assert.Equal(t, len(seedPets), count)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, `:memory:`)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Seed(ctx, db))

	tables := map[string]int{
		`pet_categories`: len(seedCategories),
		`pet_types`:      len(seedTypes),
		`pets`:           len(seedPets),
		`pet_features`:   6,
	}
	for table, want := range tables {
		var count int
		require.NoError(t, db.QueryRowContext(ctx, `select count(*) from `+table).Scan(&count))
		assert.Equal(t, want, count, table)
	}
}

func TestForeignKeys(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, `:memory:`)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `insert into pet_types (code, category_id) values ('dog', 42)`)
	assert.Error(t, err)
}

func TestWithParams(t *testing.T) {
	assert.Equal(t, `a.db?x=1&y=2`, withParams(`a.db`, `x=1`, `y=2`))
	assert.Equal(t, `file:a.db?mode=ro&x=1`, withParams(`file:a.db?mode=ro`, `x=1`))
}
