// Package evaluator implements the AVLisp runtime evaluator.
package evaluator

import (
	"strconv"
	"strings"

	"github.com/robert-porter/avlisp/pkg/ast"
)

// Value is the interface for all AVLisp runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	value() // sealed marker
}

// Procedure is a Value that can be applied to arguments.
type Procedure interface {
	Value
	Arity() int
}

// Int represents a 64-bit integer value.
type Int struct {
	Value int64
}

func (Int) value() {}

// Bool represents a boolean value.
type Bool struct {
	Value bool
}

func (Bool) value() {}

// Quoted is the opaque text produced by a quote form.
type Quoted struct {
	Text string
}

func (Quoted) value() {}

// Closure is a lambda paired with the frame that was current when the lambda
// was evaluated. Every evaluation of a lambda yields a fresh Closure.
type Closure struct {
	Lambda *ast.Lambda
	Frame  FrameID
}

func (Closure) value() {}

// Arity returns the number of declared parameters.
func (c Closure) Arity() int { return len(c.Lambda.Params) }

// Builtin is a primitive procedure. Execute receives its arguments in
// parameter order after they have been bound in the call frame.
type Builtin struct {
	Name    string
	Params  []string
	Execute func(args []Value) (Value, error)
}

func (*Builtin) value() {}

// Arity returns the number of declared parameters.
func (b *Builtin) Arity() int { return len(b.Params) }

// Definition is the result of evaluating a define form.
type Definition struct {
	Name string
}

func (Definition) value() {}

// NewInt creates an integer value.
func NewInt(n int64) Value {
	return Int{Value: n}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Bool{Value: b}
}

// NewQuoted creates a quoted text value.
func NewQuoted(s string) Value {
	return Quoted{Text: s}
}

// TypeName returns the user-facing name of a value's variant.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Quoted:
		return "quoted"
	case Closure, *Builtin:
		return "procedure"
	case Definition:
		return "definition"
	default:
		return "unknown"
	}
}

// Display renders a value the way the driver prints it.
func Display(v Value) string {
	switch val := v.(type) {
	case Int:
		return strconv.FormatInt(val.Value, 10)
	case Bool:
		if val.Value {
			return "#t"
		}
		return "#f"
	case Quoted:
		return val.Text
	case Closure:
		return "#<lambda (" + strings.Join(val.Lambda.Params, " ") + ")>"
	case *Builtin:
		return "#<builtin " + val.Name + ">"
	case Definition:
		return "#<define " + val.Name + ">"
	}
	return ""
}
