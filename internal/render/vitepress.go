package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"lcat/internal/annotation"
	"lcat/internal/processor"
	"lcat/internal/typeexpr"
)

const frontMatter = "---\noutline: [2, 3]\n---\n\n"

// VitePress renders one page per class, alias and enum, plus a page for
// functions that do not belong to any class. Pages use VitePress Badge
// components and site-absolute links between entities.
type VitePress struct {
	fs      afero.Fs
	outDir  string
	baseURL string
}

func NewVitePress(fsys afero.Fs, outDir, baseURL string) *VitePress {
	if baseURL == "" {
		baseURL = "/"
	}
	return &VitePress{fs: fsys, outDir: outDir, baseURL: baseURL}
}

func (r *VitePress) Render(proc *processor.Processor) error {
	lookup := make(map[string]typeexpr.Metatype)
	for _, class := range proc.Classes {
		lookup[class.Name] = typeexpr.MetatypeClass
	}
	for _, alias := range proc.Aliases {
		lookup[alias.Name] = typeexpr.MetatypeAlias
	}
	for _, enum := range proc.Enums {
		lookup[enum.Name] = typeexpr.MetatypeEnum
	}

	for _, section := range []string{"classes", "aliases", "enums"} {
		dir := filepath.Join(r.outDir, section)
		if err := r.fs.RemoveAll(dir); err != nil {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
		if err := r.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	// Functions claimed by a class render on that class's page.
	free := make([]annotation.Function, len(proc.Functions))
	copy(free, proc.Functions)

	for _, class := range proc.Classes {
		var owned []annotation.Function
		kept := free[:0]
		for _, fn := range free {
			if fn.Table == class.Name {
				owned = append(owned, fn)
			} else {
				kept = append(kept, fn)
			}
		}
		free = kept

		path := filepath.Join(r.outDir, "classes", class.Name+".md")
		if err := r.write(path, r.classPage(class, owned, lookup)); err != nil {
			return err
		}
	}

	for _, alias := range proc.Aliases {
		path := filepath.Join(r.outDir, "aliases", alias.Name+".md")
		if err := r.write(path, r.aliasPage(alias, lookup)); err != nil {
			return err
		}
	}

	for _, enum := range proc.Enums {
		path := filepath.Join(r.outDir, "enums", enum.Name+".md")
		if err := r.write(path, r.enumPage(enum)); err != nil {
			return err
		}
	}

	if len(free) > 0 {
		path := filepath.Join(r.outDir, "functions.md")
		if err := r.write(path, r.functionsPage(free, lookup)); err != nil {
			return err
		}
	}

	return nil
}

func (r *VitePress) write(path, contents string) error {
	if err := afero.WriteFile(r.fs, path, []byte(contents), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (r *VitePress) classPage(class annotation.Class, functions []annotation.Function, lookup map[string]typeexpr.Metatype) string {
	parent := ""
	if class.Parent != nil {
		parent = fmt.Sprintf(" : <code>%s</code>", class.Parent.FormatWithLinks(lookup, r.baseURL))
	}

	exactBadge := ""
	if class.Exact {
		exactBadge = `<Badge type="tip" text="exact" />`
	}

	var fieldSections []string
	for _, field := range class.Fields() {
		badge := ""
		nullable := ""
		if field.Type != nil && field.Type.Nullable {
			badge = ` <Badge type="danger" text="nullable" />`
			nullable = "?"
		}

		name := field.IdentType.FormatAsTableFieldName()

		ty := ""
		if field.Type != nil {
			ty = fmt.Sprintf(": <code>%s</code>", field.Type.FormatWithLinks(lookup, r.baseURL))
		}

		value := ""
		if field.HasValue {
			value = fmt.Sprintf(" = `%s`", field.Value)
		}

		fieldSections = append(fieldSections, fmt.Sprintf(
			"### %s%s\n\n`%s%s`%s%s\n\n%s\n",
			name, badge, name, nullable, ty, value, escapeAngles(field.Description),
		))
	}

	fields := strings.Join(fieldSections, "\n")
	if fields != "" {
		fields = "## Fields\n\n" + fields
	}

	var fnSections []string
	for _, fn := range functions {
		fnSections = append(fnSections, r.functionBlock(fn, lookup))
	}

	fnBody := strings.Join(fnSections, "\n")
	if fnBody != "" {
		fnBody = "## Functions\n\n" + fnBody
	}

	return fmt.Sprintf(
		"%s# Class `%s`%s\n%s\n\n%s\n\n%s\n\n%s",
		frontMatter, class.Name, parent, exactBadge, escapeAngles(class.Description), fields, fnBody,
	)
}

func (r *VitePress) aliasPage(alias annotation.Alias, lookup map[string]typeexpr.Metatype) string {
	var short []string
	var sections []string
	for _, at := range alias.Types {
		formatted := at.Type.FormatWithLinks(lookup, r.baseURL)
		short = append(short, fmt.Sprintf("<code>%s</code>", formatted))
		sections = append(sections, fmt.Sprintf(
			"### <code>%s</code>\n\n%s\n", formatted, escapeAngles(at.Description),
		))
	}

	types := strings.Join(sections, "\n")
	if types != "" {
		types = "## Aliased types\n\n" + types
	}

	return fmt.Sprintf(
		"%s# Alias `%s`\n\n%s\n\n%s\n\n%s",
		frontMatter, alias.Name, strings.Join(short, " | "), escapeAngles(alias.Description), types,
	)
}

func (r *VitePress) enumPage(enum annotation.Enum) string {
	keyBadge := ""
	if enum.IsKey {
		keyBadge = `<Badge type="tip" text="key" />`
	}

	valuesShort := ""
	var sections []string

	if enum.IsKey {
		var short []string
		for _, field := range enum.Fields {
			if field.Name == nil || field.Name.Computed {
				continue
			}
			short = append(short, fmt.Sprintf("`%q`", field.Name.Text))
			sections = append(sections, fmt.Sprintf(
				"### `%q`\n\n%s\n", field.Name.Text, escapeAngles(field.Description),
			))
		}
		valuesShort = strings.Join(short, " | ")
	} else {
		for _, field := range enum.Fields {
			if field.Name == nil || field.Name.Computed {
				continue
			}
			sections = append(sections, fmt.Sprintf(
				"### `%s`\n\n`%s.%s` = `%s`\n\n%s\n",
				field.Name.Text, enum.Name, field.Name.Text, field.Value, escapeAngles(field.Description),
			))
		}
	}

	body := strings.Join(sections, "\n")
	if body != "" {
		heading := "## Fields\n\n"
		if enum.IsKey {
			heading = "## Values\n\n"
		}
		body = heading + body
	}

	return fmt.Sprintf(
		"%s# Enum `%s`\n%s\n\n%s\n\n%s\n\n%s\n",
		frontMatter, enum.Name, keyBadge, valuesShort, escapeAngles(enum.Description), body,
	)
}

func (r *VitePress) functionsPage(functions []annotation.Function, lookup map[string]typeexpr.Metatype) string {
	var sections []string
	for _, fn := range functions {
		sections = append(sections, r.functionBlock(fn, lookup))
	}
	return fmt.Sprintf("%s# Functions\n\n%s", frontMatter, strings.Join(sections, "\n"))
}

func (r *VitePress) functionBlock(fn annotation.Function, lookup map[string]typeexpr.Metatype) string {
	badge := `<Badge type="function" text="function" />`
	if fn.IsMethod {
		badge = `<Badge type="method" text="method" />`
	}

	var paramsShort []string
	var paramLines []string
	for _, param := range fn.Params {
		nullable := ""
		if param.Type.Nullable {
			nullable = "?"
		}
		formatted := param.Type.FormatWithLinks(lookup, r.baseURL)
		paramsShort = append(paramsShort, fmt.Sprintf("%s%s: %s", param.Name, nullable, formatted))

		desc := ""
		if param.Description != "" {
			desc = " - " + escapeAngles(param.Description)
		}
		paramLines = append(paramLines, fmt.Sprintf(
			"`%s%s`: <code>%s</code>%s", param.Name, nullable, formatted, desc,
		))
	}

	var returnsShort []string
	var returnLines []string
	for i, ret := range fn.Returns {
		nullable := ""
		if ret.Type.Nullable {
			nullable = "?"
		}
		formatted := ret.Type.FormatWithLinks(lookup, r.baseURL)

		name := ""
		if ret.Name != "" {
			name = ret.Name + ": "
		}
		returnsShort = append(returnsShort, fmt.Sprintf("%s%s%s", name, formatted, nullable))

		namedPrefix := ""
		if ret.Name != "" {
			namedPrefix = fmt.Sprintf("`%s`: ", ret.Name)
		}
		desc := ""
		if ret.Description != "" {
			desc = " - " + escapeAngles(ret.Description)
		}
		returnLines = append(returnLines, fmt.Sprintf(
			"%d. %s<code>%s</code>%s", i+1, namedPrefix, formatted, desc,
		))
	}

	signatureReturns := ""
	if len(returnsShort) > 0 {
		signatureReturns = "\n    -> " + strings.Join(returnsShort, ", ")
	}

	params := strings.Join(paramLines, "<br>\n")
	if params != "" {
		params = "#### Parameters\n\n" + params + "\n\n"
	}

	returns := strings.Join(returnLines, "\n")
	if returns != "" {
		returns = "#### Returns\n\n" + returns + "\n\n"
	}

	var seeLines []string
	for _, see := range fn.Sees {
		if line, ok := r.seeLink(see, lookup); ok {
			seeLines = append(seeLines, line)
		}
	}

	sees := strings.Join(seeLines, "\n")
	if sees != "" {
		sees = "#### See also\n\n" + sees
	}

	table := ""
	if fn.Table != "" {
		connector := "."
		if fn.IsMethod {
			connector = ":"
		}
		table = fn.Table + connector
	}

	return fmt.Sprintf(
		"### %s %s\n\n<div class=\"language-lua\"><pre><code>function %s%s(%s)%s</code></pre></div>\n\n%s\n\n%s\n%s\n%s",
		badge, fn.Name, table, fn.Name, strings.Join(paramsShort, ", "), signatureReturns,
		escapeAngles(fn.Description), params, returns, sees,
	)
}

// seeLink resolves a cross-reference against the documented entities: the
// longest dotted prefix naming a known entity becomes the page, the rest
// becomes an anchor into it. Unresolved references are dropped.
func (r *VitePress) seeLink(see annotation.See, lookup map[string]typeexpr.Metatype) (string, bool) {
	segments := strings.Split(see.Ident, ".")

	// Longest registered dotted prefix owns the reference; shorter prefixes
	// need not be registered themselves.
	owner := 0
	for i := 1; i <= len(segments); i++ {
		if _, ok := lookup[strings.Join(segments[:i], ".")]; ok {
			owner = i
		}
	}

	ownerName := strings.Join(segments[:owner], ".")
	metatype, ok := lookup[ownerName]
	if !ok {
		return "", false
	}

	rest := strings.Join(segments[owner:], ".")
	anchor := ""
	restWithDot := ""
	if rest != "" {
		anchor = "#" + rest
		restWithDot = "." + rest
	}

	desc := ""
	if see.Description != "" {
		desc = ": " + escapeAngles(see.Description)
	}

	return fmt.Sprintf(
		`- <code><a href="%s%s/%s%s">%s%s</a></code>%s`,
		r.baseURL, metatype.SectionPath(), ownerName, anchor, ownerName, restWithDot, desc,
	), true
}

// escapeAngles keeps prose from being parsed as HTML by VitePress. Type
// expressions never pass through here: their angle brackets are escaped
// during link formatting.
func escapeAngles(s string) string {
	return strings.ReplaceAll(s, "<", "&lt;")
}
