package typedesc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrSyntax is returned by Parse for malformed type text.
var ErrSyntax = errors.New("invalid type syntax")

var builtinRaws = map[string]Raw{
	List.name:     List,
	Map.name:      Map,
	Optional.name: Optional,
}

func init() {
	for name := range primitiveByName {
		builtinRaws[name] = Raw{name: name}
	}
}

// Parse reads the textual form of a built-in type, for example
// "Map<String, List<Int>>" or "Array[3]<Bool>". Only built-in raw tags are
// understood.
func Parse(text string) (Type, error) {
	p := parser{text: text}
	p.skipSpace()

	t, err := p.parseType()
	if err != nil {
		return Type{}, err
	}

	p.skipSpace()

	if p.pos != len(p.text) {
		return Type{}, p.fail("unexpected %q", p.text[p.pos:])
	}

	return t, nil
}

type parser struct {
	text string
	pos  int
}

func (p *parser) fail(format string, args ...any) error {
	return fmt.Errorf("%w: %q at offset %d: %s", ErrSyntax, p.text, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.text) && p.text[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.text) {
		return p.text[p.pos]
	}

	return 0
}

func (p *parser) parseType() (Type, error) {
	raw, err := p.parseRaw()
	if err != nil {
		return Type{}, err
	}

	p.skipSpace()

	if p.peek() != '<' {
		return New(raw)
	}

	p.pos++

	var args []Type

	for {
		p.skipSpace()

		arg, err := p.parseType()
		if err != nil {
			return Type{}, err
		}

		args = append(args, arg)

		p.skipSpace()

		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++

			t, err := New(raw, args...)
			if err != nil {
				return Type{}, fmt.Errorf("%w: %w", ErrSyntax, err)
			}

			return t, nil
		default:
			return Type{}, p.fail("expected ',' or '>'")
		}
	}
}

func (p *parser) parseRaw() (Raw, error) {
	start := p.pos
	for p.pos < len(p.text) && (unicode.IsLetter(rune(p.text[p.pos])) || unicode.IsDigit(rune(p.text[p.pos]))) {
		p.pos++
	}

	name := p.text[start:p.pos]
	if name == "" {
		return Raw{}, p.fail("expected a type name")
	}

	if name == "Array" {
		if p.peek() != '[' {
			return Raw{}, p.fail("expected array length")
		}

		end := strings.IndexByte(p.text[p.pos:], ']')
		if end < 0 {
			return Raw{}, p.fail("unclosed array length")
		}

		n, err := strconv.Atoi(p.text[p.pos+1 : p.pos+end])
		if err != nil || n < 0 {
			return Raw{}, p.fail("invalid array length")
		}

		p.pos += end + 1

		return Array(n), nil
	}

	raw, ok := builtinRaws[name]
	if !ok {
		return Raw{}, fmt.Errorf("%w: unknown type %q", ErrSyntax, name)
	}

	return raw, nil
}
