package typeexpr

import (
	"strconv"
	"strings"
)

// Kind discriminates the variants of a Type value.
type Kind int

const (
	KindNil Kind = iota
	KindAny
	KindBoolean
	KindString
	KindNumber
	KindInteger
	KindTable
	KindThread
	KindUserdata
	KindLightUserdata
	KindLiteral
	KindFunction
	KindUnion
	KindArray
	KindTuple
	KindTableShape
	KindUserDefined
)

// primitiveNames maps the primitive atoms of the annotation grammar to their kinds.
var primitiveNames = map[string]Kind{
	"nil":           KindNil,
	"any":           KindAny,
	"boolean":       KindBoolean,
	"string":        KindString,
	"number":        KindNumber,
	"integer":       KindInteger,
	"table":         KindTable,
	"thread":        KindThread,
	"userdata":      KindUserdata,
	"lightuserdata": KindLightUserdata,
}

var kindNames = map[Kind]string{
	KindNil:           "nil",
	KindAny:           "any",
	KindBoolean:       "boolean",
	KindString:        "string",
	KindNumber:        "number",
	KindInteger:       "integer",
	KindTable:         "table",
	KindThread:        "thread",
	KindUserdata:      "userdata",
	KindLightUserdata: "lightuserdata",
}

// Type is the recursive value produced by the annotation type grammar.
// Nullable and Generics are orthogonal overlays attachable to any variant.
type Type struct {
	Kind     Kind
	Nullable bool
	Generics []Type

	// Variant payloads; only the fields matching Kind are set.
	Lit     *Literal     // KindLiteral
	Name    string       // KindUserDefined
	Elem    *Type        // KindArray
	Members []Type       // KindUnion, KindTuple
	Args    []Arg        // KindFunction
	Returns []Return     // KindFunction
	Fields  []ShapeField // KindTableShape
}

// LitKind discriminates literal (singleton) types.
type LitKind int

const (
	LitBoolean LitKind = iota
	LitString
	LitNumber
	LitInteger
)

// Literal is a singleton type such as "north", 42 or true.
type Literal struct {
	Kind  LitKind
	Bool  bool
	Str   string
	Int   int64
	Float float64
}

// Arg is a named function argument.
type Arg struct {
	Name string
	Type Type
}

// Return is a function return value; Name is empty for unnamed returns.
type Return struct {
	Name string
	Type Type
}

// ShapeField is one entry of a table shape. Key is either a string-literal
// type (bare identifier sugar) or an arbitrary bracketed key type.
type ShapeField struct {
	Key   Type
	Value Type
}

// Metatype classifies a resolved user-defined name for link rendering.
type Metatype int

const (
	MetatypeClass Metatype = iota
	MetatypeAlias
	MetatypeEnum
)

func Primitive(kind Kind) Type {
	return Type{Kind: kind}
}

func StringLiteral(s string) Type {
	return Type{Kind: KindLiteral, Lit: &Literal{Kind: LitString, Str: s}}
}

func IntegerLiteral(i int64) Type {
	return Type{Kind: KindLiteral, Lit: &Literal{Kind: LitInteger, Int: i}}
}

func NumberLiteral(f float64) Type {
	return Type{Kind: KindLiteral, Lit: &Literal{Kind: LitNumber, Float: f}}
}

func BooleanLiteral(b bool) Type {
	return Type{Kind: KindLiteral, Lit: &Literal{Kind: LitBoolean, Bool: b}}
}

// UserDefined builds a forward reference to a class, alias or enum; the name
// is resolved later by the renderer, never eagerly.
func UserDefined(name string) Type {
	return Type{Kind: KindUserDefined, Name: name}
}

// NewUnion builds a union type. Callers must pass at least two members; a
// single-alternative parse is stored unwrapped.
func NewUnion(members []Type) Type {
	return Type{Kind: KindUnion, Members: members}
}

func NewTuple(members []Type) Type {
	return Type{Kind: KindTuple, Members: members}
}

func NewFunction(args []Arg, returns []Return) Type {
	return Type{Kind: KindFunction, Args: args, Returns: returns}
}

func NewTableShape(fields []ShapeField) Type {
	return Type{Kind: KindTableShape, Fields: fields}
}

// MakeArray replaces the receiver with an array of its former self. Modifiers
// already applied stay on the element.
func (t *Type) MakeArray() {
	elem := *t
	*t = Type{Kind: KindArray, Elem: &elem}
}

func (t *Type) MakeNullable() {
	t.Nullable = true
}

func (t *Type) AddGeneric(generic Type) {
	t.Generics = append(t.Generics, generic)
}

// IsUserDefined reports whether the type is a bare forward reference.
func (t Type) IsUserDefined() bool {
	return t.Kind == KindUserDefined
}

// IsStringLit reports whether the type is exactly the unmodified string
// literal s. Used to match @field tags against structural table entries.
func (t Type) IsStringLit(s string) bool {
	return t.Kind == KindLiteral && !t.Nullable && len(t.Generics) == 0 &&
		t.Lit != nil && t.Lit.Kind == LitString && t.Lit.Str == s
}

func (l Literal) String() string {
	switch l.Kind {
	case LitBoolean:
		return strconv.FormatBool(l.Bool)
	case LitString:
		return strconv.Quote(l.Str)
	case LitNumber:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	default:
		return strconv.FormatInt(l.Int, 10)
	}
}

// String re-serializes the type in the annotation grammar. Re-parsing the
// result yields a structurally equal value.
func (t Type) String() string {
	var sb strings.Builder
	t.writeTo(&sb)
	return sb.String()
}

func (t Type) writeTo(sb *strings.Builder) {
	switch t.Kind {
	case KindLiteral:
		sb.WriteString(t.Lit.String())
	case KindUserDefined:
		sb.WriteString(t.Name)
	case KindFunction:
		// A return list followed by a suffix marker would re-attach the
		// marker to the last return; parenthesize the function first.
		wrap := len(t.Returns) > 0 && (t.Nullable || len(t.Generics) > 0)
		if wrap {
			sb.WriteString("(")
		}
		sb.WriteString("fun(")
		for i, arg := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.Name)
			sb.WriteString(": ")
			arg.Type.writeMember(sb)
		}
		sb.WriteString(")")
		for i, ret := range t.Returns {
			if i == 0 {
				sb.WriteString(": ")
			} else {
				sb.WriteString(", ")
			}
			if ret.Name != "" {
				sb.WriteString(ret.Name)
				sb.WriteString(": ")
			}
			ret.Type.writeMember(sb)
		}
		if wrap {
			sb.WriteString(")")
		}
	case KindUnion:
		wrap := t.Nullable || len(t.Generics) > 0
		if wrap {
			sb.WriteString("(")
		}
		for i, member := range t.Members {
			if i > 0 {
				sb.WriteString(" | ")
			}
			member.writeMember(sb)
		}
		if wrap {
			sb.WriteString(")")
		}
	case KindArray:
		t.Elem.writeMember(sb)
		sb.WriteString("[]")
	case KindTuple:
		sb.WriteString("[")
		for i, member := range t.Members {
			if i > 0 {
				sb.WriteString(", ")
			}
			member.writeMember(sb)
		}
		sb.WriteString("]")
	case KindTableShape:
		if len(t.Fields) == 0 {
			sb.WriteString("{ }")
		} else {
			sb.WriteString("{ ")
			for i, field := range t.Fields {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(field.Key.FormatAsTableFieldName())
				if field.Key.Nullable {
					sb.WriteString("?")
				}
				sb.WriteString(": ")
				field.Value.writeMember(sb)
			}
			sb.WriteString(" }")
		}
	default:
		sb.WriteString(kindNames[t.Kind])
	}

	if len(t.Generics) > 0 {
		sb.WriteString("<")
		for i, g := range t.Generics {
			if i > 0 {
				sb.WriteString(", ")
			}
			g.writeMember(sb)
		}
		sb.WriteString(">")
	}

	if t.Nullable {
		sb.WriteString("?")
	}
}

// writeMember serializes the type in member position, inside a union or a
// comma-separated list. Nested unions and function types carrying a return
// list would not survive re-parsing there unparenthesized: a pipe or comma
// after them reads as more returns or more members.
func (t Type) writeMember(sb *strings.Builder) {
	// Suffixed unions and functions already parenthesize themselves.
	wrap := !t.Nullable && len(t.Generics) == 0 &&
		(t.Kind == KindUnion || (t.Kind == KindFunction && len(t.Returns) > 0))
	if wrap {
		sb.WriteString("(")
	}
	t.writeTo(sb)
	if wrap {
		sb.WriteString(")")
	}
}

// FormatAsTableFieldName renders the type in the key position of a table
// shape: bare identifier-like keys stay bare, everything else is bracketed.
// The key's own nullable marker is left to the caller.
func (t Type) FormatAsTableFieldName() string {
	if len(t.Generics) == 0 {
		switch {
		case t.Kind == KindUserDefined:
			return t.Name
		case t.Kind == KindLiteral && t.Lit.Kind == LitString && isBareIdent(t.Lit.Str):
			return t.Lit.Str
		}
	}
	key := t
	key.Nullable = false
	return "[" + key.String() + "]"
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
