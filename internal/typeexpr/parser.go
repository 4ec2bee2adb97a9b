package typeexpr

import (
	"fmt"
	"strconv"
)

// Parse parses a complete type expression; trailing input is an error.
func Parse(input string) (Type, error) {
	p := newParser(input)
	ty, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	if p.tok.kind != tokEOF {
		return Type{}, fmt.Errorf("unexpected %s after type expression", p.tok.describe())
	}
	return ty, nil
}

// ParsePrefix parses one type expression off the front of input and returns
// the unconsumed remainder. Payload parsers use this to split a type from its
// trailing description.
func ParsePrefix(input string) (Type, string, error) {
	p := newParser(input)
	ty, err := p.parseType()
	if err != nil {
		return Type{}, "", err
	}
	return ty, input[p.tok.start:], nil
}

type parser struct {
	lex   *lexer
	tok   token
	ahead token

	// listDepth counts enclosing comma-separated member lists (tuples,
	// generic lists, table-shape fields). Inside one, a comma ends a
	// function's return list instead of extending it; parentheses restore
	// the greedy reading.
	listDepth int
}

func newParser(input string) *parser {
	p := &parser{lex: newLexer(input)}
	p.tok = p.lex.next()
	p.ahead = p.lex.next()
	return p
}

func (p *parser) next() {
	p.tok = p.ahead
	p.ahead = p.lex.next()
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return fmt.Errorf("expected %s, found %s", tokenKindNames[kind], p.tok.describe())
	}
	p.next()
	return nil
}

// parseType parses a full expression: pipe-separated alternatives. A single
// alternative is returned unwrapped, never as a one-member union.
func (p *parser) parseType() (Type, error) {
	first, err := p.parseSingle()
	if err != nil {
		return Type{}, err
	}
	if p.tok.kind != tokPipe {
		return first, nil
	}

	members := []Type{first}
	for p.tok.kind == tokPipe {
		p.next()
		member, err := p.parseSingle()
		if err != nil {
			return Type{}, err
		}
		members = append(members, member)
	}
	return NewUnion(members), nil
}

// parseSingle parses one alternative: a base expression followed by any run
// of generic lists, array suffixes and nullability markers.
func (p *parser) parseSingle() (Type, error) {
	ty, err := p.parseBase()
	if err != nil {
		return Type{}, err
	}

	for {
		switch {
		case p.tok.kind == tokLAngle:
			p.next()
			p.listDepth++
			for {
				generic, err := p.parseType()
				if err != nil {
					return Type{}, err
				}
				ty.AddGeneric(generic)
				if p.tok.kind != tokComma {
					break
				}
				p.next()
			}
			p.listDepth--
			if err := p.expect(tokRAngle); err != nil {
				return Type{}, err
			}
		case p.tok.kind == tokLBracket && p.ahead.kind == tokRBracket:
			p.next()
			p.next()
			ty.MakeArray()
		case p.tok.kind == tokQuestion:
			p.next()
			ty.MakeNullable()
		default:
			return ty, nil
		}
	}
}

func (p *parser) parseBase() (Type, error) {
	switch {
	case p.tok.kind == tokLParen:
		p.next()
		saved := p.listDepth
		p.listDepth = 0
		inner, err := p.parseType()
		p.listDepth = saved
		if err != nil {
			return Type{}, err
		}
		if err := p.expect(tokRParen); err != nil {
			return Type{}, err
		}
		return inner, nil

	case p.tok.kind == tokIdent && p.tok.text == "fun" && p.ahead.kind == tokLParen:
		return p.parseFunction()

	case p.tok.kind == tokIdent:
		name := p.tok.text
		p.next()
		if kind, ok := primitiveNames[name]; ok {
			return Primitive(kind), nil
		}
		switch name {
		case "true":
			return BooleanLiteral(true), nil
		case "false":
			return BooleanLiteral(false), nil
		}
		return UserDefined(name), nil

	case p.tok.kind == tokString:
		lit := StringLiteral(p.tok.text)
		p.next()
		return lit, nil

	case p.tok.kind == tokInt:
		i, err := strconv.ParseInt(p.tok.text, 10, 64)
		if err != nil {
			return Type{}, fmt.Errorf("invalid integer literal %q", p.tok.text)
		}
		p.next()
		return IntegerLiteral(i), nil

	case p.tok.kind == tokNumber:
		f, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return Type{}, fmt.Errorf("invalid number literal %q", p.tok.text)
		}
		p.next()
		return NumberLiteral(f), nil

	case p.tok.kind == tokLBrace:
		return p.parseTableShape()

	case p.tok.kind == tokLBracket:
		return p.parseTuple()
	}

	return Type{}, fmt.Errorf("expected a type expression, found %s", p.tok.describe())
}

func (p *parser) parseFunction() (Type, error) {
	p.next() // fun
	p.next() // (

	var args []Arg
	for p.tok.kind != tokRParen {
		if p.tok.kind != tokIdent {
			return Type{}, fmt.Errorf("expected argument name, found %s", p.tok.describe())
		}
		name := p.tok.text
		p.next()

		nullable := false
		if p.tok.kind == tokQuestion {
			nullable = true
			p.next()
		}

		argTy := Primitive(KindAny)
		if p.tok.kind == tokColon {
			p.next()
			ty, err := p.parseType()
			if err != nil {
				return Type{}, err
			}
			argTy = ty
		}
		if nullable {
			argTy.MakeNullable()
		}

		args = append(args, Arg{Name: name, Type: argTy})
		if p.tok.kind != tokComma {
			break
		}
		p.next()
	}
	if err := p.expect(tokRParen); err != nil {
		return Type{}, err
	}

	// Each return is a single alternative: a pipe after one ends the
	// function and belongs to the surrounding union, and inside a member
	// list a comma does the same. Parenthesize the return to get a union
	// or the whole function to claim a comma list.
	var returns []Return
	if p.tok.kind == tokColon {
		p.next()
		for {
			var name string
			if p.tok.kind == tokIdent && p.ahead.kind == tokColon {
				name = p.tok.text
				p.next()
				p.next()
			}
			ty, err := p.parseSingle()
			if err != nil {
				return Type{}, err
			}
			returns = append(returns, Return{Name: name, Type: ty})
			if p.tok.kind != tokComma || p.listDepth > 0 {
				break
			}
			p.next()
		}
	}

	return NewFunction(args, returns), nil
}

func (p *parser) parseTableShape() (Type, error) {
	p.next() // {

	var fields []ShapeField
	p.listDepth++
	defer func() { p.listDepth-- }()
	for p.tok.kind != tokRBrace {
		var key Type
		switch p.tok.kind {
		case tokLBracket:
			p.next()
			keyTy, err := p.parseType()
			if err != nil {
				return Type{}, err
			}
			if err := p.expect(tokRBracket); err != nil {
				return Type{}, err
			}
			key = keyTy
		case tokIdent:
			key = StringLiteral(p.tok.text)
			p.next()
		default:
			return Type{}, fmt.Errorf("expected table field key, found %s", p.tok.describe())
		}

		// A marker right after the key marks the key itself nullable; the
		// value carries its own marker inside its expression.
		if p.tok.kind == tokQuestion {
			key.MakeNullable()
			p.next()
		}

		if err := p.expect(tokColon); err != nil {
			return Type{}, err
		}
		value, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		fields = append(fields, ShapeField{Key: key, Value: value})

		if p.tok.kind != tokComma {
			break
		}
		p.next()
	}
	if err := p.expect(tokRBrace); err != nil {
		return Type{}, err
	}

	return NewTableShape(fields), nil
}

func (p *parser) parseTuple() (Type, error) {
	p.next() // [

	var members []Type
	p.listDepth++
	for {
		member, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		members = append(members, member)
		if p.tok.kind != tokComma {
			break
		}
		p.next()
	}
	p.listDepth--
	if err := p.expect(tokRBracket); err != nil {
		return Type{}, err
	}

	return NewTuple(members), nil
}
