package render

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcat/internal/annotation"
	"lcat/internal/processor"
	"lcat/internal/scanner"
	"lcat/internal/typeexpr"
)

func renderToMem(t *testing.T, proc *processor.Processor) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	r := NewVitePress(fsys, "docs", "/")
	require.NoError(t, r.Render(proc))
	return fsys
}

func readPage(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	contents, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(contents)
}

func TestRenderClassPage(t *testing.T) {
	parent := typeexpr.UserDefined("Base")
	intTy := typeexpr.Primitive(typeexpr.KindInteger)

	proc := processor.New()
	proc.Classes = []annotation.Class{
		{Name: "Base"},
		{
			Name:        "Point",
			Description: "A point in 2D space.",
			Exact:       true,
			Parent:      &parent,
			LspFields: []annotation.LspField{
				{IdentType: typeexpr.StringLiteral("x"), Type: intTy, Description: "The x coordinate."},
			},
			TsFields: []annotation.TsField{
				{Name: &scanner.FieldName{Text: "x"}, Value: "5"},
			},
		},
	}
	proc.Functions = []annotation.Function{
		{
			Name:     "move",
			Table:    "Point",
			IsMethod: true,
			Params:   []annotation.Param{{Name: "dx", Type: intTy, Description: "The offset."}},
			Returns:  []annotation.Return{{Name: "self", Type: typeexpr.UserDefined("Point")}},
			Sees:     []annotation.See{{Ident: "Base"}},
		},
		{Name: "helper", Table: ""},
	}

	fsys := renderToMem(t, proc)
	page := readPage(t, fsys, "docs/classes/Point.md")

	assert.Contains(t, page, "# Class `Point` : <code>")
	assert.Contains(t, page, `<a href="/classes/Base">Base</a>`)
	assert.Contains(t, page, `<Badge type="tip" text="exact" />`)
	assert.Contains(t, page, "A point in 2D space.")

	assert.Contains(t, page, "## Fields")
	assert.Contains(t, page, "### x")
	assert.Contains(t, page, "`x`: <code>integer</code> = `5`")
	assert.Contains(t, page, "The x coordinate.")

	assert.Contains(t, page, "## Functions")
	assert.Contains(t, page, `<Badge type="method" text="method" />`)
	assert.Contains(t, page, "function Point:move(dx: integer)")
	assert.Contains(t, page, "-> self: ")
	assert.Contains(t, page, "#### See also")

	// The unowned function lands on the shared page instead.
	functions := readPage(t, fsys, "docs/functions.md")
	assert.Contains(t, functions, "function helper()")
	assert.NotContains(t, page, "function helper()")
}

func TestRenderAliasPage(t *testing.T) {
	proc := processor.New()
	alias := annotation.Alias{Name: "Shape", Description: "Drawable shapes."}
	alias.AddType(typeexpr.StringLiteral("square"), "A four sided one.")
	alias.AddType(typeexpr.StringLiteral("circle"), "")
	proc.Aliases = []annotation.Alias{alias}

	fsys := renderToMem(t, proc)
	page := readPage(t, fsys, "docs/aliases/Shape.md")

	assert.Contains(t, page, "# Alias `Shape`")
	assert.Contains(t, page, `<code>"square"</code> | <code>"circle"</code>`)
	assert.Contains(t, page, "## Aliased types")
	assert.Contains(t, page, "A four sided one.")
}

func TestRenderEnumPages(t *testing.T) {
	name := func(s string) *scanner.FieldName { return &scanner.FieldName{Text: s} }

	proc := processor.New()
	proc.Enums = []annotation.Enum{
		{
			Name:  "Direction",
			IsKey: true,
			Fields: []annotation.TsField{
				{Name: name("north"), Value: "1", Description: "Up on the map."},
				{Name: &scanner.FieldName{Text: "[1]", Computed: true}, Value: "2"},
			},
		},
		{
			Name: "Color",
			Fields: []annotation.TsField{
				{Name: name("red"), Value: "0xff0000"},
			},
		},
	}

	fsys := renderToMem(t, proc)

	keyed := readPage(t, fsys, "docs/enums/Direction.md")
	assert.Contains(t, keyed, `<Badge type="tip" text="key" />`)
	assert.Contains(t, keyed, "`\"north\"`")
	assert.Contains(t, keyed, "## Values")
	assert.NotContains(t, keyed, "[1]")

	valued := readPage(t, fsys, "docs/enums/Color.md")
	assert.Contains(t, valued, "## Fields")
	assert.Contains(t, valued, "`Color.red` = `0xff0000`")
	assert.NotContains(t, valued, `<Badge type="tip" text="key" />`)
}

func TestRenderProseEscapesAngleBrackets(t *testing.T) {
	proc := processor.New()
	proc.Classes = []annotation.Class{
		{Name: "P", Description: "Uses table<string> in prose."},
	}

	fsys := renderToMem(t, proc)
	page := readPage(t, fsys, "docs/classes/P.md")

	assert.Contains(t, page, "table&lt;string> in prose.")
}

func TestRenderClearsStaleOutput(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "docs/classes/Old.md", []byte("stale"), 0644))

	r := NewVitePress(fsys, "docs", "/")
	require.NoError(t, r.Render(processor.New()))

	exists, err := afero.Exists(fsys, "docs/classes/Old.md")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSeeLinkAnchors(t *testing.T) {
	r := NewVitePress(afero.NewMemMapFs(), "docs", "/api/")
	lookup := map[string]typeexpr.Metatype{"geo.Point": typeexpr.MetatypeClass}

	line, ok := r.seeLink(annotation.See{Ident: "geo.Point.move", Description: "Moves it."}, lookup)
	require.True(t, ok)
	assert.Equal(t,
		`- <code><a href="/api/classes/geo.Point#move">geo.Point.move</a></code>: Moves it.`,
		line)

	_, ok = r.seeLink(annotation.See{Ident: "unknown.thing"}, lookup)
	assert.False(t, ok)
}
