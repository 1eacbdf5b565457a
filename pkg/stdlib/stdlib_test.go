package stdlib_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/robert-porter/avlisp/pkg/evaluator"
	"github.com/robert-porter/avlisp/pkg/stdlib"
)

func call(t *testing.T, name string, args ...evaluator.Value) (evaluator.Value, error) {
	t.Helper()
	fn := stdlib.Default().Get(name)
	if fn == nil {
		t.Fatalf("builtin %q not registered", name)
	}
	if len(args) != len(fn.Params) {
		t.Fatalf("%s takes %d args, test passed %d", name, len(fn.Params), len(args))
	}
	return fn.Execute(args)
}

func i(n int64) evaluator.Value { return evaluator.NewInt(n) }
func b(v bool) evaluator.Value  { return evaluator.NewBool(v) }

func TestRegisterDefaults_Names(t *testing.T) {
	want := []string{"*", "+", "-", "/", "<", "<=", "=", ">", ">=", "and", "not", "or"}
	if got := stdlib.Default().Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegisterDefaults_Arity(t *testing.T) {
	r := stdlib.Default()
	for _, name := range r.Names() {
		want := 2
		if name == "not" {
			want = 1
		}
		if got := len(r.Get(name).Params); got != want {
			t.Errorf("%s arity = %d, want %d", name, got, want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		op   string
		a, b int64
		want int64
	}{
		{"+", 2, 3, 5},
		{"-", 2, 3, -1},
		{"*", -4, 3, -12},
		{"/", 7, 2, 3},
		{"/", -7, 2, -3},
		{"/", 7, -2, -3},
	}
	for _, tt := range tests {
		got, err := call(t, tt.op, i(tt.a), i(tt.b))
		if err != nil {
			t.Fatalf("%s: %v", tt.op, err)
		}
		if got != i(tt.want) {
			t.Errorf("(%s %d %d) = %v, want %d", tt.op, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestComparison(t *testing.T) {
	tests := []struct {
		op   string
		a, b int64
		want bool
	}{
		{"<", 1, 2, true},
		{"<", 2, 2, false},
		{"<=", 2, 2, true},
		{">", 3, 2, true},
		{">=", 1, 2, false},
		{"=", 5, 5, true},
		{"=", 5, 6, false},
	}
	for _, tt := range tests {
		got, err := call(t, tt.op, i(tt.a), i(tt.b))
		if err != nil {
			t.Fatalf("%s: %v", tt.op, err)
		}
		if got != b(tt.want) {
			t.Errorf("(%s %d %d) = %v, want %v", tt.op, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBoolean(t *testing.T) {
	for _, x := range []bool{true, false} {
		for _, y := range []bool{true, false} {
			got, _ := call(t, "and", b(x), b(y))
			if got != b(x && y) {
				t.Errorf("(and %v %v) = %v", x, y, got)
			}
			got, _ = call(t, "or", b(x), b(y))
			if got != b(x || y) {
				t.Errorf("(or %v %v) = %v", x, y, got)
			}
		}
		got, _ := call(t, "not", b(x))
		if got != b(!x) {
			t.Errorf("(not %v) = %v", x, got)
		}
	}
}

func TestTypeMismatch(t *testing.T) {
	tests := []struct {
		op   string
		args []evaluator.Value
		got  string
	}{
		{"+", []evaluator.Value{b(true), i(1)}, "bool"},
		{"+", []evaluator.Value{i(1), b(true)}, "bool"},
		{"=", []evaluator.Value{i(1), evaluator.NewQuoted("a")}, "quoted"},
		{"and", []evaluator.Value{b(true), i(1)}, "int"},
		{"or", []evaluator.Value{i(0), b(true)}, "int"},
		{"not", []evaluator.Value{evaluator.Definition{Name: "x"}}, "definition"},
	}
	for _, tt := range tests {
		_, err := call(t, tt.op, tt.args...)
		var tm *evaluator.TypeMismatchError
		if !errors.As(err, &tm) {
			t.Fatalf("%s: expected TypeMismatchError, got %v", tt.op, err)
		}
		if tm.Op != tt.op || tm.Got != tt.got {
			t.Errorf("%s: got %+v", tt.op, tm)
		}
	}
}

func TestDivisionByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected (/ 1 0) to panic")
		}
	}()
	_, _ = call(t, "/", i(1), i(0))
}

func TestRegistry_Without(t *testing.T) {
	r := stdlib.Default()
	trimmed := r.Without("/", "not", "no-such-builtin")
	if trimmed.Get("/") != nil || trimmed.Get("not") != nil {
		t.Error("denied builtins still present")
	}
	if trimmed.Get("+") == nil {
		t.Error("+ should remain")
	}
	if r.Get("/") == nil {
		t.Error("Without must not modify the receiver")
	}
	if len(trimmed.All()) != len(r.All())-2 {
		t.Errorf("got %d builtins, want %d", len(trimmed.All()), len(r.All())-2)
	}
}

func TestRegistry_Builtins(t *testing.T) {
	r := stdlib.NewRegistry()
	r.Register(stdlib.Fn{
		Name:   "inc",
		Params: []string{"n"},
		Execute: func(args []evaluator.Value) (evaluator.Value, error) {
			return evaluator.NewInt(args[0].(evaluator.Int).Value + 1), nil
		},
	})
	bs := r.Builtins()
	inc, ok := bs["inc"]
	if !ok {
		t.Fatal("inc missing from Builtins()")
	}
	if inc.Name != "inc" || inc.Arity() != 1 {
		t.Errorf("got %s/%d", inc.Name, inc.Arity())
	}
	got, err := inc.Execute([]evaluator.Value{i(4)})
	if err != nil || got != i(5) {
		t.Errorf("inc 4 = %v, %v", got, err)
	}
}
