package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcat/internal/scanner"
	"lcat/internal/typeexpr"
)

func TestClassFields(t *testing.T) {
	name := func(s string) *scanner.FieldName {
		return &scanner.FieldName{Text: s}
	}

	t.Run("declared field absorbs the structural value", func(t *testing.T) {
		class := Class{
			Name: "Point",
			LspFields: []LspField{
				{IdentType: typeexpr.StringLiteral("x"), Type: typeexpr.Primitive(typeexpr.KindInteger), Description: "The x coordinate."},
			},
			TsFields: []TsField{
				{Name: name("x"), Value: "5"},
			},
		}

		fields := class.Fields()
		require.Len(t, fields, 1)
		assert.True(t, fields[0].IdentType.IsStringLit("x"))
		assert.Equal(t, "integer", fields[0].Type.String())
		assert.Equal(t, "The x coordinate.", fields[0].Description)
		assert.Equal(t, "5", fields[0].Value)
		assert.True(t, fields[0].HasValue)
	})

	t.Run("structural description fills a blank declared one", func(t *testing.T) {
		class := Class{
			LspFields: []LspField{
				{IdentType: typeexpr.StringLiteral("x"), Type: typeexpr.Primitive(typeexpr.KindInteger)},
			},
			TsFields: []TsField{
				{Name: name("x"), Value: "5", Description: "From the table."},
			},
		}

		fields := class.Fields()
		require.Len(t, fields, 1)
		assert.Equal(t, "From the table.", fields[0].Description)
	})

	t.Run("unmatched structural field is appended", func(t *testing.T) {
		ty := typeexpr.Primitive(typeexpr.KindString)
		class := Class{
			LspFields: []LspField{
				{IdentType: typeexpr.StringLiteral("x"), Type: typeexpr.Primitive(typeexpr.KindInteger)},
			},
			TsFields: []TsField{
				{Name: name("label"), Type: &ty, Value: `"origin"`},
			},
		}

		fields := class.Fields()
		require.Len(t, fields, 2)
		assert.True(t, fields[1].IdentType.IsStringLit("label"))
		assert.Equal(t, `"origin"`, fields[1].Value)
		require.NotNil(t, fields[1].Type)
		assert.Equal(t, "string", fields[1].Type.String())
	})

	t.Run("computed structural keys only merge into declared fields", func(t *testing.T) {
		class := Class{
			TsFields: []TsField{
				{Name: &scanner.FieldName{Text: `"quoted"`, Computed: true}, Value: "1"},
				{Name: nil, Value: "2"},
			},
		}
		assert.Empty(t, class.Fields())
	})

	t.Run("a nullable declared key does not match", func(t *testing.T) {
		key := typeexpr.StringLiteral("x")
		key.MakeNullable()
		class := Class{
			LspFields: []LspField{{IdentType: key, Type: typeexpr.Primitive(typeexpr.KindInteger)}},
			TsFields:  []TsField{{Name: name("x"), Value: "5"}},
		}

		fields := class.Fields()
		require.Len(t, fields, 2)
		assert.False(t, fields[0].HasValue)
		assert.True(t, fields[1].HasValue)
	})
}
