package typeexpr

import (
	"fmt"
	"strings"
)

// FormatWithLinks renders the type as inline HTML-flavoured markdown, turning
// every user-defined name found in lookup into a link below baseURL. The
// top-level nullable marker is left to the caller; nested argument and field
// markers are rendered inline.
func (t Type) FormatWithLinks(lookup map[string]Metatype, baseURL string) string {
	var repr string

	switch t.Kind {
	case KindLiteral:
		repr = t.Lit.String()
	case KindFunction:
		var args []string
		for _, arg := range t.Args {
			nullable := ""
			if arg.Type.Nullable {
				nullable = "?"
			}
			args = append(args, fmt.Sprintf("%s%s: %s", arg.Name, nullable, arg.Type.FormatWithLinks(lookup, baseURL)))
		}

		var returns []string
		for _, ret := range t.Returns {
			nullable := ""
			if ret.Type.Nullable {
				nullable = "?"
			}
			name := ""
			if ret.Name != "" {
				name = ret.Name + ": "
			}
			returns = append(returns, fmt.Sprintf("%s%s%s", name, ret.Type.FormatWithLinks(lookup, baseURL), nullable))
		}

		repr = fmt.Sprintf("fun(%s)", strings.Join(args, ", "))
		if len(returns) > 0 {
			repr += ": " + strings.Join(returns, ", ")
		}
	case KindUnion:
		var members []string
		for _, member := range t.Members {
			members = append(members, member.formatLinkedMember(lookup, baseURL))
		}
		repr = strings.Join(members, " | ")
	case KindArray:
		repr = t.Elem.formatLinkedMember(lookup, baseURL) + "[]"
	case KindTuple:
		var members []string
		for _, member := range t.Members {
			members = append(members, member.formatLinkedMember(lookup, baseURL))
		}
		repr = "[" + strings.Join(members, ", ") + "]"
	case KindTableShape:
		var fields []string
		for _, field := range t.Fields {
			// The marker sits on the key, whichever side declared it.
			nullable := ""
			if field.Key.Nullable || field.Value.Nullable {
				nullable = "?"
			}
			fields = append(fields, fmt.Sprintf("%s%s: %s",
				field.Key.FormatAsTableFieldName(), nullable, field.Value.FormatWithLinks(lookup, baseURL)))
		}
		repr = "{ " + strings.Join(fields, ", ") + " }"
	case KindUserDefined:
		repr = linkName(t.Name, lookup, baseURL)
	default:
		repr = kindNames[t.Kind]
	}

	if len(t.Generics) > 0 {
		var generics []string
		for _, g := range t.Generics {
			generics = append(generics, g.formatLinkedMember(lookup, baseURL))
		}
		repr += "&lt;" + strings.Join(generics, ", ") + ">"
	}

	return repr
}

// formatLinkedMember renders a nested member, where the nullable marker has
// to appear inline rather than being left to the caller.
func (t Type) formatLinkedMember(lookup map[string]Metatype, baseURL string) string {
	repr := t.FormatWithLinks(lookup, baseURL)
	if t.Nullable {
		repr += "?"
	}
	return repr
}

// SectionPath returns the documentation section a metatype's pages live under.
func (m Metatype) SectionPath() string {
	switch m {
	case MetatypeAlias:
		return "aliases"
	case MetatypeEnum:
		return "enums"
	default:
		return "classes"
	}
}

func linkName(name string, lookup map[string]Metatype, baseURL string) string {
	metatype, ok := lookup[name]
	if !ok {
		return name
	}

	// VitePress rejects a tag directly followed by an underscore.
	display := name
	if strings.HasPrefix(display, "_") {
		display = "&#95;" + display[1:]
	}

	return fmt.Sprintf(`<a href="%s%s/%s">%s</a>`, baseURL, metatype.SectionPath(), name, display)
}
