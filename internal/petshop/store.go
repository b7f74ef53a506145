package petshop

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens the SQLite database at dsn and applies pending migrations.
//
// Foreign keys are enforced and LIKE is case-sensitive. SQLite allows a
// single writer, so the pool holds one connection; this also keeps a
// ":memory:" database alive across queries.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(`sqlite3`, withParams(dsn, `_fk=1`, `_cslike=1`))
	if err != nil {
		return nil, fmt.Errorf(`failed to open database: %w`, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf(`failed to connect to database: %w`, err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded migrations. The database stays open.
func Migrate(db *sql.DB) error {
	src, err := iofs.New(migrations, `migrations`)
	if err != nil {
		return fmt.Errorf(`failed to read migrations: %w`, err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf(`failed to create migration driver: %w`, err)
	}

	m, err := migrate.NewWithInstance(`iofs`, src, `sqlite3`, driver)
	if err != nil {
		return fmt.Errorf(`failed to create migration instance: %w`, err)
	}

	// m.Close would also close db.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf(`failed to run migrations: %w`, err)
	}
	return nil
}

func withParams(dsn string, params ...string) string {
	sep := `?`
	if strings.Contains(dsn, `?`) {
		sep = `&`
	}
	return dsn + sep + strings.Join(params, `&`)
}

type seedPet struct {
	name      string
	birthdate string
	price     float64
	active    bool
	typ       string
	features  []string
}

var (
	seedCategories = []string{`mammal`, `bird`, `fish`}

	seedTypes = []struct{ code, category string }{
		{`dog`, `mammal`},
		{`cat`, `mammal`},
		{`parrot`, `bird`},
		{`goldfish`, `fish`},
	}

	seedPets = []seedPet{
		{`Bo`, `2019-03-14`, 120, true, `dog`, []string{`fluffy`, `loud`}},
		{`Rex`, `2017-11-02`, 80, false, `dog`, []string{`loud`}},
		{`Tom`, `2020-06-21`, 60, true, `cat`, []string{`fluffy`}},
		{`Polly`, `2015-01-30`, 250, true, `parrot`, []string{`talks`, `loud`}},
		{`Nemo`, `2022-08-09`, 5.5, true, `goldfish`, nil},
	}
)

// Seed inserts a small catalog of categories, types, pets and features in a
// single transaction.
func Seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf(`failed to begin seed transaction: %w`, err)
	}
	defer tx.Rollback() //nolint:errcheck

	catIDs := make(map[string]int64, len(seedCategories))
	for _, code := range seedCategories {
		id, err := insert(ctx, tx, `insert into pet_categories (code) values ($1)`, code)
		if err != nil {
			return err
		}
		catIDs[code] = id
	}

	typeIDs := make(map[string]int64, len(seedTypes))
	for _, typ := range seedTypes {
		id, err := insert(ctx, tx, `insert into pet_types (code, category_id) values ($1, $2)`, typ.code, catIDs[typ.category])
		if err != nil {
			return err
		}
		typeIDs[typ.code] = id
	}

	for _, pet := range seedPets {
		birthdate, err := time.Parse(time.DateOnly, pet.birthdate)
		if err != nil {
			return err
		}

		id, err := insert(ctx, tx,
			`insert into pets (name, birthdate, price, active, type_id) values ($1, $2, $3, $4, $5)`,
			pet.name, birthdate, pet.price, pet.active, typeIDs[pet.typ],
		)
		if err != nil {
			return err
		}

		for _, feature := range pet.features {
			_, err := insert(ctx, tx, `insert into pet_features (pet_id, feature) values ($1, $2)`, id, feature)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf(`failed to commit seed transaction: %w`, err)
	}
	return nil
}

func insert(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf(`failed to seed: %w`, err)
	}
	return res.LastInsertId()
}
