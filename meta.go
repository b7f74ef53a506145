package crop

import (
	"database/sql"
	"fmt"
	"reflect"

	"github.com/mitranim/refut"
)

/*
Typed reference to an entity attribute, consumed by `Builder.Match`. The only
implementation is `Field`, created by schema declarations:

	var PetPrice = crop.NewField[float64](`price`)
*/
type Attr interface{ column() string }

/*
Field of type `V` stored in the named column. The type parameter documents the
storage type at the declaration site and keeps fields of different types
distinct.
*/
type Field[V any] struct{ name string }

func NewField[V any](column string) Field[V] { return Field[V]{column} }

func (self Field[V]) Name() string   { return self.name }
func (self Field[V]) column() string { return self.name }

/*
Relationship from one table to another, joined as:

	inner join "<Table>" as "tN" on "tN"."<Remote>" = "<parent>"."<Local>"

`IsMany` marks relationships that may match several rows per parent row. Row
queries that materialize such a join use `select distinct`, and count queries
count distinct keys.
*/
type Rel struct {
	Table  string
	Local  string
	Remote string
	IsMany bool
}

// To-one relationship: the local column references the remote key.
func One(table, local, remote string) Rel { return Rel{table, local, remote, false} }

// To-many relationship: remote rows reference the local key.
func Many(table, local, remote string) Rel { return Rel{table, local, remote, true} }

/*
Describes how rows of one table map onto the struct type `E`. Every field with
a `db` tag becomes a selected column; `json` tags provide the public names used
by orderings. Embedded structs are traversed.

	type Pet struct {
		ID    int64   `json:"id"    db:"id"`
		Price float64 `json:"price" db:"price"`
	}

	var Pets = crop.Table[Pet](`pets`, `id`)
*/
type Entity[E any] struct {
	Table string
	Key   string
	cols  []column
}

type column struct {
	Name  string
	Json  string
	Index []int
}

// Panics if `E` is not a struct type or has no `db`-tagged fields.
func Table[E any](table, key string) *Entity[E] {
	self := &Entity[E]{Table: table, Key: key}
	try(self.init())
	return self
}

func (self *Entity[E]) init() error {
	rtype := reflect.TypeOf((*E)(nil)).Elem()
	if rtype.Kind() != reflect.Struct {
		return fmt.Errorf(`[crop] expected entity type to be a struct, found %v`, rtype)
	}

	err := refut.TraverseStructRtype(rtype, func(sfield reflect.StructField, path []int) error {
		name := refut.TagIdent(sfield.Tag.Get(`db`))
		if name == `` || name == `-` {
			return nil
		}

		index := path
		if len(index) == 0 {
			index = sfield.Index
		}

		self.cols = append(self.cols, column{
			Name:  name,
			Json:  refut.TagIdent(sfield.Tag.Get(`json`)),
			Index: copyInts(index),
		})
		return nil
	})
	if err != nil {
		return err
	}

	if len(self.cols) == 0 {
		return fmt.Errorf(`[crop] entity type %v has no fields with "db" tags`, rtype)
	}
	return nil
}

// Column names in declaration order.
func (self *Entity[E]) Cols() []string {
	out := make([]string, len(self.cols))
	for i, col := range self.cols {
		out[i] = col.Name
	}
	return out
}

/*
Finds the column for a public field name: the JSON name takes priority, then
the column name itself.
*/
func (self *Entity[E]) Col(name string) (string, bool) {
	for _, col := range self.cols {
		if col.Json == name {
			return col.Name, true
		}
	}
	for _, col := range self.cols {
		if col.Name == name {
			return col.Name, true
		}
	}
	return ``, false
}

// Always returns a non-nil slice on success.
func (self *Entity[E]) scan(rows *sql.Rows) ([]E, error) {
	out := []E{}
	dest := make([]any, len(self.cols))

	for rows.Next() {
		var val E
		rval := reflect.ValueOf(&val).Elem()
		for i, col := range self.cols {
			dest[i] = rval.FieldByIndex(col.Index).Addr().Interface()
		}

		err := rows.Scan(dest...)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, rows.Err()
}
