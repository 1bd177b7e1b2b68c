package diagnostic

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Error is a single configuration error. It is either a Message or a Group.
type Error interface {
	// String returns a canonical single-line form, usable as a map key.
	String() string

	isError()
}

// Message is a leaf error description.
type Message struct {
	Text string
}

// Group labels a set of errors, typically with a property path, a list
// index or a map key.
type Group struct {
	Name   string
	Errors []Error
}

func (Message) isError() {}

func (Group) isError() {}

// String returns the message text.
func (m Message) String() string {
	return m.Text
}

// String returns the group in the form "name: [child; child]".
func (g Group) String() string {
	parts := make([]string, 0, len(g.Errors))
	for _, e := range g.Errors {
		parts = append(parts, e.String())
	}

	return g.Name + ": [" + strings.Join(parts, "; ") + "]"
}

// New returns a leaf error with the given text.
func New(text string) Error {
	return Message{Text: text}
}

// Errorf returns a leaf error with formatted text.
func Errorf(format string, args ...any) Error {
	return Message{Text: fmt.Sprintf(format, args...)}
}

// NewGroup returns a group labeled name. Children are copied; messages are
// ordered before nested groups, otherwise insertion order is kept.
func NewGroup(name string, errs ...Error) Error {
	return Group{Name: name, Errors: sorted(errs)}
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Error) bool {
	switch a := a.(type) {
	case Message:
		b, ok := b.(Message)
		return ok && a == b
	case Group:
		b, ok := b.(Group)
		if !ok || a.Name != b.Name || len(a.Errors) != len(b.Errors) {
			return false
		}

		for i := range a.Errors {
			if !Equal(a.Errors[i], b.Errors[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func sorted(errs []Error) []Error {
	out := slices.Clone(errs)
	if out == nil {
		out = []Error{}
	}

	slices.SortStableFunc(out, func(a, b Error) int {
		return cmp.Compare(rank(a), rank(b))
	})

	return out
}

func rank(e Error) int {
	if _, ok := e.(Group); ok {
		return 1
	}

	return 0
}

// Errors is returned when configuration data is invalid. It carries the
// complete set of violations found, never just the first.
type Errors struct {
	list []Error
}

// Fail returns an Errors holding errs.
func Fail(errs ...Error) *Errors {
	return &Errors{list: slices.Clone(errs)}
}

// Failf returns an Errors holding a single formatted message.
func Failf(format string, args ...any) *Errors {
	return Fail(Errorf(format, args...))
}

// List returns the collected errors in the order they were reported.
func (e *Errors) List() []Error {
	return slices.Clone(e.list)
}

// Len returns the number of top-level errors.
func (e *Errors) Len() int {
	return len(e.list)
}

// Error renders the errors as an indented tree. Messages come before groups
// and groups are ordered by name:
//
//	errs.Error():
//	 - Something went wrong
//	 - animals.horse:
//	   - Invalid horse
func (e *Errors) Error() string {
	var b strings.Builder
	writeTree(&b, 1, e.list)

	return b.String()
}

// Strings flattens the errors into path-qualified lines.
func (e *Errors) Strings() []string {
	var out []string
	for _, err := range e.list {
		flatten(&out, "", err)
	}

	return out
}

// As extracts the Errors wrapped by err, if any.
func As(err error) (*Errors, bool) {
	var de *Errors
	if errors.As(err, &de) {
		return de, true
	}

	return nil, false
}

func writeTree(b *strings.Builder, indent int, errs []Error) {
	for i, err := range ordered(errs) {
		if i != 0 || indent != 1 {
			b.WriteString("\n")
		}

		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString("- ")

		switch err := err.(type) {
		case Group:
			b.WriteString(err.Name)
			b.WriteString(":")
			writeTree(b, indent+2, err.Errors)
		case Message:
			b.WriteString(err.Text)
		}
	}
}

func ordered(errs []Error) []Error {
	out := slices.Clone(errs)
	slices.SortStableFunc(out, func(a, b Error) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}

		ga, aok := a.(Group)
		gb, bok := b.(Group)
		if aok && bok {
			return cmp.Compare(ga.Name, gb.Name)
		}

		return 0
	})

	return out
}

func flatten(out *[]string, prefix string, err Error) {
	switch err := err.(type) {
	case Message:
		if prefix == "" {
			*out = append(*out, err.Text)
		} else {
			*out = append(*out, prefix+": "+err.Text)
		}
	case Group:
		name := err.Name
		if prefix != "" {
			name = prefix + "." + name
		}

		for _, child := range err.Errors {
			flatten(out, name, child)
		}
	}
}
