package message

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Sparky983/warp-config-sub000/diagnostic"
)

type branch struct {
	limit int64
	text  string
}

type segment struct {
	literal string
	// param is negative for literal segments.
	param    int
	branches []branch
}

// Template is a parsed message template.
type Template struct {
	segments []segment
	params   []Param
}

// Parse reads text against the declared parameters. Every problem found is
// returned.
func Parse(text string, params ...Param) (*Template, []diagnostic.Error) {
	var (
		t       = &Template{params: slices.Clone(params)}
		errs    []diagnostic.Error
		literal strings.Builder
	)

	byName := make(map[string]int, len(params))
	for i, p := range params {
		byName[p.name] = i
	}

	flush := func() {
		if literal.Len() > 0 {
			t.segments = append(t.segments, segment{literal: literal.String(), param: -1})
			literal.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '{' && strings.HasPrefix(text[i:], "{{"):
			literal.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(text[i:], "}}"):
			literal.WriteByte('}')
			i++
		case c == '}':
			errs = append(errs, diagnostic.Errorf("Unmatched } at offset %d", i))
		case c == '{':
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				errs = append(errs, diagnostic.Errorf("Unclosed placeholder at offset %d", i))
				i = len(text)

				continue
			}

			flush()

			seg, err := parsePlaceholder(text[i+1:i+end], params, byName)
			if err != nil {
				errs = append(errs, err)
			} else {
				t.segments = append(t.segments, seg)
			}

			i += end
		default:
			literal.WriteByte(c)
		}
	}

	flush()

	if len(errs) != 0 {
		return nil, errs
	}

	return t, nil
}

func parsePlaceholder(body string, params []Param, byName map[string]int) (segment, diagnostic.Error) {
	parts := strings.Split(body, "|")
	name := strings.TrimSpace(parts[0])

	index, ok := byName[name]
	if !ok {
		return segment{}, diagnostic.Errorf("Unknown placeholder {%s}", name)
	}

	seg := segment{param: index}
	param := params[index]

	if len(parts) == 1 {
		if param.kind == KindChoice {
			return segment{}, diagnostic.Errorf("Placeholder {%s} needs choices", name)
		}

		return seg, nil
	}

	if param.kind != KindChoice {
		return segment{}, diagnostic.Errorf("Placeholder {%s} does not take choices", name)
	}

	malformed := diagnostic.Errorf("Malformed choice {%s}", body)

	if !strings.Contains(body, "#") {
		if len(parts) != 3 {
			return segment{}, malformed
		}

		// true selects the first text, false the second.
		seg.branches = []branch{{limit: 0, text: parts[2]}, {limit: 1, text: parts[1]}}

		return seg, nil
	}

	for _, part := range parts[1:] {
		limit, text, found := strings.Cut(part, "#")
		if !found {
			return segment{}, malformed
		}

		n, err := strconv.ParseInt(strings.TrimSpace(limit), 10, 64)
		if err != nil {
			return segment{}, malformed
		}

		seg.branches = append(seg.branches, branch{limit: n, text: text})
	}

	slices.SortStableFunc(seg.branches, func(a, b branch) int { return cmp.Compare(a.limit, b.limit) })

	return seg, nil
}

// Render fills the template. args are positional, one per parameter.
func (t *Template) Render(args ...any) string {
	var b strings.Builder

	for _, seg := range t.segments {
		if seg.param < 0 {
			b.WriteString(seg.literal)
			continue
		}

		var arg any
		if seg.param < len(args) {
			arg = args[seg.param]
		}

		b.WriteString(t.params[seg.param].format(arg, seg.branches))
	}

	return b.String()
}

func (p Param) format(arg any, branches []branch) string {
	switch p.kind {
	case KindNumber:
		return fmt.Sprintf(p.layout, arg)
	case KindDate:
		if ts, ok := arg.(time.Time); ok {
			return ts.Format(p.layout)
		}
	case KindChoice:
		return choose(arg, branches)
	}

	return fmt.Sprint(arg)
}

// choose picks, from branches sorted by limit, the one with the greatest
// limit not above the argument. Arguments below every limit get the first.
func choose(arg any, branches []branch) string {
	var v int64

	switch rv := reflect.ValueOf(arg); rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			v = 1
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v = int64(min(rv.Uint(), 1<<63-1))
	}

	picked := branches[0]
	for _, br := range branches {
		if br.limit <= v {
			picked = br
		}
	}

	return picked.text
}
