package crop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrdAsc(t *testing.T) {
	col := NewFrom(`pets`).Root().Col(`name`)
	require.Equal(t, Ord{Col: col, IsDesc: false}, OrdAsc(col))
	require.Equal(t, `"t0"."name" asc`, OrdAsc(col).String())
}

func TestOrdDesc(t *testing.T) {
	col := NewFrom(`pets`).Root().Col(`name`)
	require.Equal(t, Ord{Col: col, IsDesc: true}, OrdDesc(col))
	require.Equal(t, `"t0"."name" desc`, OrdDesc(col).String())
}

func TestOrdsString(t *testing.T) {
	root := NewFrom(`pets`).Root()

	t.Run(`empty`, func(t *testing.T) {
		require.Equal(t, ``, Ords{}.String())
		require.True(t, Ords{}.IsEmpty())
	})

	t.Run(`singular`, func(t *testing.T) {
		require.Equal(t, `order by "t0"."price" desc`, Ords{OrdDesc(root.Col(`price`))}.String())
	})

	t.Run(`plural`, func(t *testing.T) {
		require.Equal(t,
			`order by "t0"."price" desc, "t0"."name" asc`,
			Ords{OrdDesc(root.Col(`price`)), OrdAsc(root.Col(`name`))}.String(),
		)
	})
}

func TestParseOrder(t *testing.T) {
	name, desc := ParseOrder(`-price`)
	require.Equal(t, `price`, name)
	require.True(t, desc)

	name, desc = ParseOrder(`price`)
	require.Equal(t, `price`, name)
	require.False(t, desc)
}

func TestOrderDec(t *testing.T) {
	t.Run(`decode_from_text`, func(t *testing.T) {
		var order Order
		require.NoError(t, order.UnmarshalText([]byte(` -price, name ,,`)))
		require.Equal(t, Order{`-price`, `name`}, order)
		require.Equal(t, `-price,name`, order.String())
	})

	t.Run(`decode_empty`, func(t *testing.T) {
		order := Order{`stale`}
		require.NoError(t, order.UnmarshalText(nil))
		require.Empty(t, order)
	})
}

func TestOrderResolve(t *testing.T) {
	t.Run(`json_and_column_names`, func(t *testing.T) {
		root := NewFrom(`pets`).Root()
		ords, err := Order{`-price`, `typeId`, `type_id`}.resolve(root, testPets.Col)
		require.NoError(t, err)
		require.Equal(t, `order by "t0"."price" desc, "t0"."type_id" asc, "t0"."type_id" asc`, ords.String())
	})

	t.Run(`empty`, func(t *testing.T) {
		ords, err := Order(nil).resolve(NewFrom(`pets`).Root(), testPets.Col)
		require.NoError(t, err)
		require.True(t, ords.IsEmpty())
	})

	t.Run(`reject_unknown_fields`, func(t *testing.T) {
		_, err := Order{`-weight`}.resolve(NewFrom(`pets`).Root(), testPets.Col)
		require.ErrorAs(t, err, new(ValidationError))
		require.EqualError(t, err, `[crop] unknown ordering field "weight"`)
	})
}

func TestPage(t *testing.T) {
	t.Run(`no_size_ignores_offset`, func(t *testing.T) {
		page := Page{Offset: Some(5)}
		require.True(t, page.IsEmpty())
		require.Equal(t, ``, page.String())
	})

	t.Run(`size_without_offset`, func(t *testing.T) {
		require.Equal(t, `limit 10 offset 0`, Page{Size: Some(10)}.String())
		require.Equal(t, Page{Size: Some(10), Offset: Some(0)}.String(), Page{Size: Some(10)}.String())
	})

	t.Run(`size_and_offset`, func(t *testing.T) {
		require.Equal(t, `limit 10 offset 20`, Page{Size: Some(10), Offset: Some(20)}.String())
	})

	t.Run(`reject_negative`, func(t *testing.T) {
		require.ErrorAs(t, Page{Size: Some(-1)}.Validate(), new(ValidationError))
		require.ErrorAs(t, Page{Size: Some(1), Offset: Some(-1)}.Validate(), new(ValidationError))
		require.NoError(t, Page{Offset: Some(0)}.Validate())
	})
}
