package typeexpr

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokInt
	tokNumber
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokLAngle
	tokRAngle
	tokComma
	tokColon
	tokPipe
	tokQuestion
	tokIllegal
)

var tokenKindNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokIdent:    "identifier",
	tokString:   "string literal",
	tokInt:      "integer literal",
	tokNumber:   "number literal",
	tokLParen:   `"("`,
	tokRParen:   `")"`,
	tokLBrace:   `"{"`,
	tokRBrace:   `"}"`,
	tokLBracket: `"["`,
	tokRBracket: `"]"`,
	tokLAngle:   `"<"`,
	tokRAngle:   `">"`,
	tokComma:    `","`,
	tokColon:    `":"`,
	tokPipe:     `"|"`,
	tokQuestion: `"?"`,
	tokIllegal:  "illegal character",
}

// token carries the matched text (for idents and literals the useful payload)
// and the byte span within the lexer input.
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

func (t token) describe() string {
	switch t.kind {
	case tokIdent, tokString, tokInt, tokNumber, tokIllegal:
		return tokenKindNames[t.kind] + " " + strconv.Quote(t.text)
	default:
		return tokenKindNames[t.kind]
	}
}

type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

var symbolKinds = map[byte]tokenKind{
	'(': tokLParen,
	')': tokRParen,
	'{': tokLBrace,
	'}': tokRBrace,
	'[': tokLBracket,
	']': tokRBracket,
	'<': tokLAngle,
	'>': tokRAngle,
	',': tokComma,
	':': tokColon,
	'|': tokPipe,
	'?': tokQuestion,
}

func (l *lexer) next() token {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}

	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, start: start, end: start}
	}

	c := l.src[l.pos]
	switch {
	case isIdentStart(c):
		return l.lexIdent(start)
	case c == '.' && strings.HasPrefix(l.src[l.pos:], "..."):
		l.pos += 3
		return token{kind: tokIdent, text: "...", start: start, end: l.pos}
	case isDigit(c), c == '-' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		return l.lexNumber(start)
	case c == '"' || c == '\'':
		return l.lexString(start, c)
	}

	if kind, ok := symbolKinds[c]; ok {
		l.pos++
		return token{kind: kind, text: string(c), start: start, end: l.pos}
	}

	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	return token{kind: tokIllegal, text: l.src[start:l.pos], start: start, end: l.pos}
}

// lexIdent scans a possibly dotted identifier such as namespace.Class. The
// language server accepts odd shapes like consecutive dots, so dots are taken
// permissively.
func (l *lexer) lexIdent(start int) token {
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isIdentStart(c) || isDigit(c) || c == '.' {
			l.pos++
			continue
		}
		break
	}
	return token{kind: tokIdent, text: l.src[start:l.pos], start: start, end: l.pos}
}

func (l *lexer) lexNumber(start int) token {
	if l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}

	kind := tokInt
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		kind = tokNumber
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}

	return token{kind: kind, text: l.src[start:l.pos], start: start, end: l.pos}
}

func (l *lexer) lexString(start int, quote byte) token {
	l.pos++
	var text []byte
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			return token{kind: tokString, text: string(text), start: start, end: l.pos}
		case '\\':
			if l.pos+1 < len(l.src) {
				text = append(text, l.src[l.pos+1])
				l.pos += 2
				continue
			}
			l.pos++
		default:
			text = append(text, c)
			l.pos++
		}
	}
	return token{kind: tokIllegal, text: l.src[start:l.pos], start: start, end: l.pos}
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
