package message

import (
	"fmt"
	"reflect"
	"time"

	"github.com/Sparky983/warp-config-sub000/primitive"
)

// Kind selects how a parameter is rendered.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindChoice
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindChoice:
		return "choice"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Param describes one argument of a templated property.
type Param struct {
	name   string
	kind   Kind
	layout string
}

// Text declares a parameter rendered with fmt.Sprint.
func Text(name string) Param {
	return Param{name: name, kind: KindText}
}

// Number declares a numeric parameter rendered with the fmt verb, e.g. "%.2f".
// An empty verb means "%v".
func Number(name, verb string) Param {
	if verb == "" {
		verb = "%v"
	}

	return Param{name: name, kind: KindNumber, layout: verb}
}

// Choice declares a bool or integer parameter selecting between texts.
func Choice(name string) Param {
	return Param{name: name, kind: KindChoice}
}

// Date declares a time.Time parameter rendered with the time layout.
// An empty layout means time.RFC3339.
func Date(name, layout string) Param {
	if layout == "" {
		layout = time.RFC3339
	}

	return Param{name: name, kind: KindDate, layout: layout}
}

// Name returns the placeholder name.
func (p Param) Name() string { return p.name }

// Kind returns the parameter kind.
func (p Param) Kind() Kind { return p.kind }

// Layout returns the fmt verb of number parameters or the time layout of
// date parameters.
func (p Param) Layout() string { return p.layout }

var timeType = reflect.TypeFor[time.Time]()

// Check reports whether an accessor argument of type rtype can feed p.
func (p Param) Check(rtype reflect.Type) error {
	kind := primitive.Underlying(rtype)

	switch p.kind {
	case KindNumber:
		if !kind.IsNumber() {
			return fmt.Errorf("number parameter needs a numeric argument, got %s", rtype)
		}
	case KindChoice:
		if kind != primitive.KindBool && !kind.IsInteger() {
			return fmt.Errorf("choice parameter needs a bool or integer argument, got %s", rtype)
		}
	case KindDate:
		if rtype != timeType {
			return fmt.Errorf("date parameter needs a time.Time argument, got %s", rtype)
		}
	}

	return nil
}
