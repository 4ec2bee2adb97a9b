package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcat/internal/typeexpr"
)

func TestParseTag(t *testing.T) {
	t.Run("recognized tags", func(t *testing.T) {
		cases := map[string]Tag{
			"@class Point":               TagClass,
			"@field x: integer":          TagField,
			"@alias Shape":               TagAlias,
			"@param x integer":           TagParam,
			"@return integer":            TagReturn,
			"@enum Color":                TagEnum,
			"@type string":               TagType,
			"@see math.floor":            TagSee,
			"@lcat nodoc":                TagLcat,
			"  @class   LeadingSpace   ": TagClass,
		}
		for line, want := range cases {
			tag, _, ok := ParseTag(line)
			require.True(t, ok, "line %q", line)
			assert.Equal(t, want, tag, "line %q", line)
		}
	})

	t.Run("payload is trimmed", func(t *testing.T) {
		tag, payload, ok := ParseTag("@field   x: integer  ")
		require.True(t, ok)
		assert.Equal(t, TagField, tag)
		assert.Equal(t, "x: integer  ", payload)
	})

	t.Run("unknown tag is still a tag line", func(t *testing.T) {
		tag, payload, ok := ParseTag("@deprecated use Other instead")
		require.True(t, ok)
		assert.Equal(t, TagUnknown, tag)
		assert.Equal(t, "use Other instead", payload)
	})

	t.Run("plain text is not a tag line", func(t *testing.T) {
		for _, line := range []string{"just a description", "", "  @ not-a-tag", "email@example.com"} {
			_, _, ok := ParseTag(line)
			assert.False(t, ok, "line %q", line)
		}
	})
}

func TestParseClass(t *testing.T) {
	t.Run("bare name", func(t *testing.T) {
		class, err := ParseClass("Point", "A 2D point.")
		require.NoError(t, err)
		assert.Equal(t, "Point", class.Name)
		assert.Equal(t, "A 2D point.", class.Description)
		assert.False(t, class.Exact)
		assert.Nil(t, class.Parent)
	})

	t.Run("exact with parent", func(t *testing.T) {
		class, err := ParseClass("(exact) geo.Point3D: geo.Point", "")
		require.NoError(t, err)
		assert.True(t, class.Exact)
		assert.Equal(t, "geo.Point3D", class.Name)
		require.NotNil(t, class.Parent)
		assert.Equal(t, "geo.Point", class.Parent.String())
	})

	t.Run("parent must be a user-defined name", func(t *testing.T) {
		_, err := ParseClass("Point3D: integer", "")
		assert.Error(t, err)

		_, err = ParseClass("Point3D: Point | Other", "")
		assert.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseClass("", "")
		assert.Error(t, err)
	})
}

func TestParseField(t *testing.T) {
	t.Run("name colon type description", func(t *testing.T) {
		field, err := ParseField("x: integer  The x coordinate.", "")
		require.NoError(t, err)
		assert.True(t, field.IdentType.IsStringLit("x"))
		assert.Equal(t, "integer", field.Type.String())
		assert.Equal(t, "The x coordinate.", field.Description)
		assert.Empty(t, field.Scope)
	})

	t.Run("colon is optional", func(t *testing.T) {
		field, err := ParseField("x integer", "")
		require.NoError(t, err)
		assert.True(t, field.IdentType.IsStringLit("x"))
		assert.Equal(t, "integer", field.Type.String())
	})

	t.Run("block description wins over trailing text", func(t *testing.T) {
		field, err := ParseField("x: integer trailing", "From the block.")
		require.NoError(t, err)
		assert.Equal(t, "From the block.", field.Description)
	})

	t.Run("scope", func(t *testing.T) {
		field, err := ParseField("private secret: string", "")
		require.NoError(t, err)
		assert.Equal(t, ScopePrivate, field.Scope)
		assert.True(t, field.IdentType.IsStringLit("secret"))
	})

	t.Run("scope word alone is a field name", func(t *testing.T) {
		field, err := ParseField("private: string", "")
		require.NoError(t, err)
		assert.Empty(t, field.Scope)
		assert.True(t, field.IdentType.IsStringLit("private"))

		field, err = ParseField("public? string", "")
		require.NoError(t, err)
		assert.Empty(t, field.Scope)
		assert.True(t, field.IdentType.IsStringLit("public"))
		assert.True(t, field.Type.Nullable)
	})

	t.Run("nullability marker applies to the value type", func(t *testing.T) {
		field, err := ParseField("label? string", "")
		require.NoError(t, err)
		assert.True(t, field.IdentType.IsStringLit("label"))
		assert.True(t, field.Type.Nullable)
		assert.Equal(t, "string?", field.Type.String())
	})

	t.Run("computed key", func(t *testing.T) {
		field, err := ParseField("[string]: boolean  Presence map.", "")
		require.NoError(t, err)
		assert.Equal(t, typeexpr.KindString, field.IdentType.Kind)
		assert.Equal(t, "boolean", field.Type.String())
		assert.Equal(t, "Presence map.", field.Description)
	})

	t.Run("unterminated computed key", func(t *testing.T) {
		_, err := ParseField("[string: boolean", "")
		assert.Error(t, err)
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := ParseField("x:", "")
		assert.Error(t, err)
	})
}

func TestParseAlias(t *testing.T) {
	t.Run("name only", func(t *testing.T) {
		alias, err := ParseAlias("Shape", "Shapes we can draw.")
		require.NoError(t, err)
		assert.Equal(t, "Shape", alias.Name)
		assert.Equal(t, "Shapes we can draw.", alias.Description)
		assert.Empty(t, alias.Types)
	})

	t.Run("inline type with trailing description", func(t *testing.T) {
		alias, err := ParseAlias(`Shape "square" A four sided one.`, "")
		require.NoError(t, err)
		require.Len(t, alias.Types, 1)
		assert.Equal(t, `"square"`, alias.Types[0].Type.String())
		assert.Equal(t, "A four sided one.", alias.Types[0].Description)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseAlias(": integer", "")
		assert.Error(t, err)
	})
}

func TestAliasLines(t *testing.T) {
	t.Run("piped continuation detection", func(t *testing.T) {
		rest, ok := TryParseAliasLine(`| "mongus" The other one.`)
		require.True(t, ok)
		assert.Equal(t, `"mongus" The other one.`, rest)

		_, ok = TryParseAliasLine("just text")
		assert.False(t, ok)
	})

	t.Run("alternative with trailing description", func(t *testing.T) {
		ty, desc, err := ParseAliasLine(`"square" A four sided one.`, "")
		require.NoError(t, err)
		assert.Equal(t, `"square"`, ty.String())
		assert.Equal(t, "A four sided one.", desc)
	})

	t.Run("preceding comments win", func(t *testing.T) {
		_, desc, err := ParseAliasLine(`"square" trailing`, "From comments above.")
		require.NoError(t, err)
		assert.Equal(t, "From comments above.", desc)
	})

	t.Run("bad alternative", func(t *testing.T) {
		_, _, err := ParseAliasLine("| nested", "")
		assert.Error(t, err)
	})
}

func TestParseParam(t *testing.T) {
	t.Run("name type description", func(t *testing.T) {
		param, err := ParseParam("x integer  The x coordinate.")
		require.NoError(t, err)
		assert.Equal(t, "x", param.Name)
		assert.Equal(t, "integer", param.Type.String())
		assert.Equal(t, "The x coordinate.", param.Description)
	})

	t.Run("optional colon", func(t *testing.T) {
		param, err := ParseParam("x: integer")
		require.NoError(t, err)
		assert.Equal(t, "x", param.Name)
		assert.Equal(t, "integer", param.Type.String())
	})

	t.Run("nullability marker", func(t *testing.T) {
		param, err := ParseParam("opts? table<string, any> Extra options.")
		require.NoError(t, err)
		assert.Equal(t, "opts", param.Name)
		assert.True(t, param.Type.Nullable)
		assert.Equal(t, "Extra options.", param.Description)
	})

	t.Run("vararg", func(t *testing.T) {
		param, err := ParseParam("... string Values to join.")
		require.NoError(t, err)
		assert.Equal(t, "...", param.Name)
		assert.Equal(t, "string", param.Type.String())
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseParam(": integer")
		assert.Error(t, err)
	})
}

func TestParseReturn(t *testing.T) {
	t.Run("bare type", func(t *testing.T) {
		ret, err := ParseReturn("integer The sum.")
		require.NoError(t, err)
		assert.Empty(t, ret.Name)
		assert.Equal(t, "integer", ret.Type.String())
		assert.Equal(t, "The sum.", ret.Description)
	})

	t.Run("named return", func(t *testing.T) {
		ret, err := ParseReturn("count: integer How many matched.")
		require.NoError(t, err)
		assert.Equal(t, "count", ret.Name)
		assert.Equal(t, "integer", ret.Type.String())
		assert.Equal(t, "How many matched.", ret.Description)
	})

	t.Run("complex type is not mistaken for a name", func(t *testing.T) {
		ret, err := ParseReturn("table<string, Point> Index by label.")
		require.NoError(t, err)
		assert.Empty(t, ret.Name)
		assert.Equal(t, "table<string, Point>", ret.Type.String())
	})

	t.Run("bad type", func(t *testing.T) {
		_, err := ParseReturn("")
		assert.Error(t, err)
	})
}

func TestParseEnum(t *testing.T) {
	t.Run("value enum", func(t *testing.T) {
		enum, err := ParseEnum("Color", "Palette colors.")
		require.NoError(t, err)
		assert.Equal(t, "Color", enum.Name)
		assert.False(t, enum.IsKey)
		assert.Equal(t, "Palette colors.", enum.Description)
	})

	t.Run("key enum", func(t *testing.T) {
		enum, err := ParseEnum("key Direction", "")
		require.NoError(t, err)
		assert.Equal(t, "Direction", enum.Name)
		assert.True(t, enum.IsKey)
	})

	t.Run("enum literally named key", func(t *testing.T) {
		enum, err := ParseEnum("key", "")
		require.NoError(t, err)
		assert.Equal(t, "key", enum.Name)
		assert.False(t, enum.IsKey)
	})

	t.Run("trailing text ignored", func(t *testing.T) {
		enum, err := ParseEnum("Color and some prose", "")
		require.NoError(t, err)
		assert.Equal(t, "Color", enum.Name)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseEnum("", "")
		assert.Error(t, err)
	})
}

func TestParseTypeAnnotation(t *testing.T) {
	ty, err := ParseTypeAnnotation("fun(x: integer): integer trailing prose")
	require.NoError(t, err)
	assert.Equal(t, "fun(x: integer): integer", ty.String())

	_, err = ParseTypeAnnotation("|")
	assert.Error(t, err)
}

func TestParseSee(t *testing.T) {
	see, err := ParseSee("geo.Point.move For relative movement.")
	require.NoError(t, err)
	assert.Equal(t, "geo.Point.move", see.Ident)
	assert.Equal(t, "For relative movement.", see.Description)

	_, err = ParseSee("")
	assert.Error(t, err)
}

func TestParseLcat(t *testing.T) {
	assert.True(t, ParseLcat("nodoc").Has(LcatNodoc))
	assert.True(t, ParseLcat("  NoDoc  ").Has(LcatNodoc))
	assert.False(t, ParseLcat("").Has(LcatNodoc))
	assert.False(t, ParseLcat("something-else").Has(LcatNodoc))
}
