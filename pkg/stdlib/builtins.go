package stdlib

import (
	"github.com/robert-porter/avlisp/pkg/evaluator"
)

var (
	binaryParams = []string{"a", "b"}
	unaryParams  = []string{"a"}
)

// RegisterDefaults adds the arithmetic, comparison and boolean built-ins.
func RegisterDefaults(r *Registry) {
	// Arithmetic
	r.Register(arith("+", func(a, b int64) int64 { return a + b }))
	r.Register(arith("-", func(a, b int64) int64 { return a - b }))
	r.Register(arith("*", func(a, b int64) int64 { return a * b }))
	// Division by zero is a run-time panic.
	r.Register(arith("/", func(a, b int64) int64 { return a / b }))

	// Comparison
	r.Register(compare("<", func(a, b int64) bool { return a < b }))
	r.Register(compare("<=", func(a, b int64) bool { return a <= b }))
	r.Register(compare(">", func(a, b int64) bool { return a > b }))
	r.Register(compare(">=", func(a, b int64) bool { return a >= b }))
	r.Register(compare("=", func(a, b int64) bool { return a == b }))

	// Boolean
	r.Register(logic("and", func(a, b bool) bool { return a && b }))
	r.Register(logic("or", func(a, b bool) bool { return a || b }))
	r.Register(Fn{Name: "not", Params: unaryParams, Execute: stdlibNot})
}

func arith(name string, op func(a, b int64) int64) Fn {
	return Fn{
		Name:   name,
		Params: binaryParams,
		Execute: func(args []evaluator.Value) (evaluator.Value, error) {
			a, b, err := intArgs(name, args)
			if err != nil {
				return nil, err
			}
			return evaluator.NewInt(op(a, b)), nil
		},
	}
}

func compare(name string, op func(a, b int64) bool) Fn {
	return Fn{
		Name:   name,
		Params: binaryParams,
		Execute: func(args []evaluator.Value) (evaluator.Value, error) {
			a, b, err := intArgs(name, args)
			if err != nil {
				return nil, err
			}
			return evaluator.NewBool(op(a, b)), nil
		},
	}
}

func logic(name string, op func(a, b bool) bool) Fn {
	return Fn{
		Name:   name,
		Params: binaryParams,
		Execute: func(args []evaluator.Value) (evaluator.Value, error) {
			a, err := boolArg(name, args[0])
			if err != nil {
				return nil, err
			}
			b, err := boolArg(name, args[1])
			if err != nil {
				return nil, err
			}
			return evaluator.NewBool(op(a, b)), nil
		},
	}
}

// not { a } → bool
func stdlibNot(args []evaluator.Value) (evaluator.Value, error) {
	a, err := boolArg("not", args[0])
	if err != nil {
		return nil, err
	}
	return evaluator.NewBool(!a), nil
}

func intArgs(op string, args []evaluator.Value) (int64, int64, error) {
	a, ok := args[0].(evaluator.Int)
	if !ok {
		return 0, 0, &evaluator.TypeMismatchError{Op: op, Expected: "int", Got: evaluator.TypeName(args[0])}
	}
	b, ok := args[1].(evaluator.Int)
	if !ok {
		return 0, 0, &evaluator.TypeMismatchError{Op: op, Expected: "int", Got: evaluator.TypeName(args[1])}
	}
	return a.Value, b.Value, nil
}

func boolArg(op string, v evaluator.Value) (bool, error) {
	b, ok := v.(evaluator.Bool)
	if !ok {
		return false, &evaluator.TypeMismatchError{Op: op, Expected: "bool", Got: evaluator.TypeName(v)}
	}
	return b.Value, nil
}
