package annotation

import (
	"fmt"
	"strings"

	"lcat/internal/typeexpr"
)

// Tag identifies a recognized annotation tag.
type Tag int

const (
	TagUnknown Tag = iota
	TagClass
	TagField
	TagAlias
	TagParam
	TagReturn
	TagEnum
	TagType
	TagSee
	TagLcat
)

var tagsByName = map[string]Tag{
	"class":  TagClass,
	"field":  TagField,
	"alias":  TagAlias,
	"param":  TagParam,
	"return": TagReturn,
	"enum":   TagEnum,
	"type":   TagType,
	"see":    TagSee,
	"lcat":   TagLcat,
}

func (t Tag) String() string {
	for name, tag := range tagsByName {
		if tag == t {
			return "@" + name
		}
	}
	return "@?"
}

// ParseTag splits an annotation line into its tag and payload. A line is a
// tag line iff it starts with @ followed by an identifier; anything else is
// plain description text.
func ParseTag(line string) (Tag, string, bool) {
	s := skipSpace(line)
	if !strings.HasPrefix(s, "@") {
		return TagUnknown, "", false
	}
	ident, rest := takeWord(s[1:])
	if ident == "" {
		return TagUnknown, "", false
	}

	tag, ok := tagsByName[ident]
	if !ok {
		tag = TagUnknown
	}
	return tag, skipSpace(rest), true
}

// TryParseAliasLine recognizes the piped continuation shape of an alias
// alternative and returns the text after the pipe.
func TryParseAliasLine(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "|") {
		return "", false
	}
	return strings.TrimSpace(s[1:]), true
}

// ParseClass parses an @class payload: an optional (exact) marker, the class
// name, and an optional parent after a colon.
func ParseClass(payload, description string) (Class, error) {
	s := strings.TrimSpace(payload)

	exact := false
	if strings.HasPrefix(s, "(exact)") {
		exact = true
		s = skipSpace(s[len("(exact)"):])
	}

	name, rest := takeName(s)
	if name == "" {
		return Class{}, fmt.Errorf("expected class name in %q", payload)
	}

	var parent *typeexpr.Type
	if s = skipSpace(rest); strings.HasPrefix(s, ":") {
		ty, _, err := typeexpr.ParsePrefix(skipSpace(s[1:]))
		if err != nil {
			return Class{}, fmt.Errorf("class parent: %w", err)
		}
		if !ty.IsUserDefined() {
			return Class{}, fmt.Errorf("class parent must be a user-defined name, got %s", ty)
		}
		parent = &ty
	}

	return Class{Name: name, Description: description, Exact: exact, Parent: parent}, nil
}

// ParseField parses an @field payload: an optional scope, the field name
// (identifier or bracketed key type), an optional nullability marker applied
// to the value type, the value type, and a trailing description.
func ParseField(payload, description string) (LspField, error) {
	s := skipSpace(payload)

	var scope Scope
	if word, rest := takeWord(s); isScopeWord(word) {
		// Only a scope if a field name still follows; otherwise the word is
		// the name itself.
		after := skipSpace(rest)
		if after != "" && (after[0] == '[' || isNameStart(after[0])) {
			scope = Scope(word)
			s = after
		}
	}

	var identType typeexpr.Type
	if strings.HasPrefix(s, "[") {
		keyTy, rem, err := typeexpr.ParsePrefix(s[1:])
		if err != nil {
			return LspField{}, fmt.Errorf("field key: %w", err)
		}
		rem = skipSpace(rem)
		if !strings.HasPrefix(rem, "]") {
			return LspField{}, fmt.Errorf("unterminated computed field key in %q", payload)
		}
		identType = keyTy
		s = skipSpace(rem[1:])
	} else {
		name, rest := takeName(s)
		if name == "" {
			return LspField{}, fmt.Errorf("expected field name in %q", payload)
		}
		identType = typeexpr.StringLiteral(name)
		s = skipSpace(rest)
	}

	nullable := false
	if strings.HasPrefix(s, "?") {
		nullable = true
		s = skipSpace(s[1:])
	}
	if strings.HasPrefix(s, ":") {
		s = skipSpace(s[1:])
	}

	ty, rem, err := typeexpr.ParsePrefix(s)
	if err != nil {
		return LspField{}, fmt.Errorf("field type: %w", err)
	}
	if nullable {
		ty.MakeNullable()
	}

	if description == "" {
		description = strings.TrimSpace(rem)
	}

	return LspField{IdentType: identType, Type: ty, Description: description, Scope: scope}, nil
}

// ParseAlias parses an @alias payload: the alias name and an optional inline
// first alternative with a trailing description.
func ParseAlias(payload, description string) (Alias, error) {
	s := skipSpace(payload)

	name, rest := takeName(s)
	if name == "" {
		return Alias{}, fmt.Errorf("expected alias name in %q", payload)
	}

	alias := Alias{Name: name, Description: description}
	if s = skipSpace(rest); s != "" {
		ty, rem, err := typeexpr.ParsePrefix(s)
		if err != nil {
			return Alias{}, fmt.Errorf("alias type: %w", err)
		}
		alias.AddType(ty, strings.TrimSpace(rem))
	}

	return alias, nil
}

// ParseAliasLine parses one piped continuation alternative. Accumulated
// description lines win over the trailing description.
func ParseAliasLine(payload, description string) (typeexpr.Type, string, error) {
	ty, rem, err := typeexpr.ParsePrefix(skipSpace(payload))
	if err != nil {
		return typeexpr.Type{}, "", fmt.Errorf("alias alternative: %w", err)
	}
	if description == "" {
		description = strings.TrimSpace(rem)
	}
	return ty, description, nil
}

// ParseParam parses a @param payload: the parameter name (or the vararg
// marker), an optional nullability marker, the type, and a description.
func ParseParam(payload string) (Param, error) {
	s := skipSpace(payload)

	name, rest := takeParamName(s)
	if name == "" {
		return Param{}, fmt.Errorf("expected parameter name in %q", payload)
	}
	s = skipSpace(rest)

	nullable := false
	if strings.HasPrefix(s, "?") {
		nullable = true
		s = skipSpace(s[1:])
	}
	if strings.HasPrefix(s, ":") {
		s = skipSpace(s[1:])
	}

	ty, rem, err := typeexpr.ParsePrefix(s)
	if err != nil {
		return Param{}, fmt.Errorf("parameter type: %w", err)
	}
	if nullable {
		ty.MakeNullable()
	}

	return Param{Name: name, Type: ty, Description: strings.TrimSpace(rem)}, nil
}

// ParseReturn parses a @return payload: an optional "name:" prefix, the type,
// and a description.
func ParseReturn(payload string) (Return, error) {
	s := skipSpace(payload)

	if name, rest := takeWord(s); name != "" {
		if after := skipSpace(rest); strings.HasPrefix(after, ":") {
			if ty, rem, err := typeexpr.ParsePrefix(skipSpace(after[1:])); err == nil {
				return Return{Name: name, Type: ty, Description: strings.TrimSpace(rem)}, nil
			}
		}
	}

	ty, rem, err := typeexpr.ParsePrefix(s)
	if err != nil {
		return Return{}, fmt.Errorf("return type: %w", err)
	}

	return Return{Type: ty, Description: strings.TrimSpace(rem)}, nil
}

// ParseEnum parses an @enum payload: an optional key marker and the enum
// name. Trailing text is ignored.
func ParseEnum(payload, description string) (Enum, error) {
	s := skipSpace(payload)

	isKey := false
	if word, rest := takeWord(s); word == "key" {
		// "key" alone is a name, not a marker.
		if after := skipSpace(rest); after != "" {
			if n, _ := takeName(after); n != "" {
				isKey = true
				s = after
			}
		}
	}

	name, _ := takeName(s)
	if name == "" {
		return Enum{}, fmt.Errorf("expected enum name in %q", payload)
	}

	return Enum{Name: name, Description: description, IsKey: isKey}, nil
}

// ParseTypeAnnotation parses a bare @type payload.
func ParseTypeAnnotation(payload string) (typeexpr.Type, error) {
	ty, _, err := typeexpr.ParsePrefix(skipSpace(payload))
	if err != nil {
		return typeexpr.Type{}, fmt.Errorf("type annotation: %w", err)
	}
	return ty, nil
}

// ParseSee parses a @see payload: a dotted identifier plus a description.
func ParseSee(payload string) (See, error) {
	s := skipSpace(payload)

	ident, rest := takeName(s)
	if ident == "" {
		return See{}, fmt.Errorf("expected identifier in %q", payload)
	}

	return See{Ident: ident, Description: strings.TrimSpace(rest)}, nil
}

// ParseLcat parses an @lcat directive. Unknown options are kept out of the
// result but do not fail the line.
func ParseLcat(payload string) Lcat {
	var lcat Lcat
	for _, opt := range strings.Fields(payload) {
		if strings.EqualFold(opt, string(LcatNodoc)) {
			lcat.Options = append(lcat.Options, LcatNodoc)
		}
	}
	return lcat
}

func skipSpace(s string) string {
	return strings.TrimLeft(s, " \t")
}

func isNameStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9'
}

// takeWord splits a plain identifier off the front of s.
func takeWord(s string) (string, string) {
	if s == "" || !isNameStart(s[0]) {
		return "", s
	}
	i := 1
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// takeName splits a dotted identifier off the front of s.
func takeName(s string) (string, string) {
	if s == "" || !isNameStart(s[0]) {
		return "", s
	}
	i := 1
	for i < len(s) && (isNameChar(s[i]) || s[i] == '.') {
		i++
	}
	return s[:i], s[i:]
}

func takeParamName(s string) (string, string) {
	if strings.HasPrefix(s, "...") {
		return "...", s[len("..."):]
	}
	return takeWord(s)
}

func isScopeWord(word string) bool {
	switch Scope(word) {
	case ScopePublic, ScopePrivate, ScopeProtected, ScopePackage:
		return true
	}
	return false
}
