package annotation

import (
	"lcat/internal/scanner"
	"lcat/internal/typeexpr"
)

// Scope is the declared visibility of a class field. The zero value means no
// scope was given.
type Scope string

const (
	ScopePublic    Scope = "public"
	ScopePrivate   Scope = "private"
	ScopeProtected Scope = "protected"
	ScopePackage   Scope = "package"
)

// Class is a documented class declaration. LspFields come from @field tags,
// TsFields from the table literal's structural entries; Fields merges both.
type Class struct {
	Name        string
	Description string
	Exact       bool
	Parent      *typeexpr.Type
	LspFields   []LspField
	TsFields    []TsField
}

// LspField is a field declared through an @field tag. IdentType is the
// field's name as a string-literal or computed-key type.
type LspField struct {
	IdentType   typeexpr.Type
	Type        typeexpr.Type
	Description string
	Scope       Scope
}

// TsField is a field discovered structurally inside a table literal body.
// Type comes from a preceding @type tag when present; Value is the literal
// source text of the entry value.
type TsField struct {
	Name        *scanner.FieldName
	Type        *typeexpr.Type
	Description string
	Value       string
}

// ClassField is one merged entry of Class.Fields.
type ClassField struct {
	IdentType   typeexpr.Type
	Type        *typeexpr.Type
	Description string
	Scope       Scope
	Value       string
	HasValue    bool
}

// Fields merges the declared and structural field lists. A tag-declared field
// and a structural entry naming the same identifier coalesce: the structural
// entry supplies the value, the tag supplies type, scope and description.
// Structural entries with a computed key and no matching tag are dropped.
func (c *Class) Fields() []ClassField {
	var fields []ClassField

	for _, lsp := range c.LspFields {
		ty := lsp.Type
		fields = append(fields, ClassField{
			IdentType:   lsp.IdentType,
			Type:        &ty,
			Description: lsp.Description,
			Scope:       lsp.Scope,
		})
	}

	for _, ts := range c.TsFields {
		var match *ClassField
		if ts.Name != nil && !ts.Name.Computed {
			for i := range fields {
				if fields[i].IdentType.IsStringLit(ts.Name.Text) {
					match = &fields[i]
					break
				}
			}
		}

		if match != nil {
			if match.Description == "" {
				match.Description = ts.Description
			}
			match.Value = ts.Value
			match.HasValue = true
			continue
		}

		if ts.Name == nil || ts.Name.Computed {
			continue
		}

		fields = append(fields, ClassField{
			IdentType:   typeexpr.StringLiteral(ts.Name.Text),
			Type:        ts.Type,
			Description: ts.Description,
			Value:       ts.Value,
			HasValue:    true,
		})
	}

	return fields
}

// Alias is a documented alias declaration: an ordered, non-deduplicated list
// of type alternatives, each individually documentable.
type Alias struct {
	Name        string
	Description string
	Types       []AliasType
}

// AliasType is one alternative of an alias.
type AliasType struct {
	Type        typeexpr.Type
	Description string
}

func (a *Alias) AddType(ty typeexpr.Type, description string) {
	a.Types = append(a.Types, AliasType{Type: ty, Description: description})
}

// Enum is a documented enum declaration. IsKey distinguishes a
// string-literal-keyed enum from a value-keyed one.
type Enum struct {
	Name        string
	Description string
	IsKey       bool
	Fields      []TsField
}

// Function is a documented function. Table is the dotted owner path, already
// rewritten through the table-to-class map; empty for free functions.
type Function struct {
	Name        string
	Table       string
	Params      []Param
	Returns     []Return
	Sees        []See
	IsMethod    bool
	Description string
}

type Param struct {
	Name        string
	Type        typeexpr.Type
	Description string
}

// Return is one documented return value; Name is empty for unnamed returns.
type Return struct {
	Name        string
	Type        typeexpr.Type
	Description string
}

// See is a cross-reference to another documented identifier.
type See struct {
	Ident       string
	Description string
}

// LcatOption is one option of an @lcat tool directive.
type LcatOption string

const LcatNodoc LcatOption = "nodoc"

// Lcat carries the parsed options of an @lcat directive.
type Lcat struct {
	Options []LcatOption
}

func (l Lcat) Has(option LcatOption) bool {
	for _, opt := range l.Options {
		if opt == option {
			return true
		}
	}
	return false
}
