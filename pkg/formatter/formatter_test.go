package formatter_test

import (
	"strings"
	"testing"

	"github.com/robert-porter/avlisp/pkg/formatter"
	"github.com/robert-porter/avlisp/pkg/parser"
)

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`  42 `, `42`},
		{`#f`, `#f`},
		{`(quote a   b c)`, `(quote abc)`},
		{`(quote)`, `(quote)`},
		{`(define   x 5)`, `(define x 5)`},
		{`(set! x(+ x 1))`, `(set! x (+ x 1))`},
		{`(if(> 3 2)1 0)`, `(if (> 3 2) 1 0)`},
		{`(lambda ( ) 1)`, `(lambda () 1)`},
		{`(lambda (a b) (+ a b))`, `(lambda (a b) (+ a b))`},
		{"(begin\n (define x 5)\n x)", `(begin (define x 5) x)`},
		{`((lambda (n) n) 3)`, `((lambda (n) n) 3)`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n, err := parser.Parse(tt.src)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := formatter.Format(n); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSource_BreaksLongForms(t *testing.T) {
	src := `(begin (define fact (lambda (n) (if (<= n 1) 1 (* n (fact (- n 1)))))) (define result (fact 10)) result)`
	got, err := formatter.Source(src)
	if err != nil {
		t.Fatal(err)
	}
	want := `(begin
  (define fact (lambda (n) (if (<= n 1) 1 (* n (fact (- n 1))))))
  (define result (fact 10))
  result)
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSource_MultipleForms(t *testing.T) {
	got, err := formatter.Source(`(define x 1) (+ x 2)`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "(define x 1)\n(+ x 2)\n" {
		t.Errorf("got %q", got)
	}
}

func TestSource_IsStable(t *testing.T) {
	src := `(begin (define make-adder (lambda (x) (lambda (y) (+ x y)))) (define add5 (make-adder 5)) (add5 10))`
	once, err := formatter.Source(src)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := formatter.Source(once)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Errorf("formatting is not idempotent:\n%s\n---\n%s", once, twice)
	}
	if !strings.HasPrefix(once, "(begin\n") {
		t.Errorf("expected begin to be broken across lines:\n%s", once)
	}
}

func TestSource_ParseError(t *testing.T) {
	if _, err := formatter.Source(`(+ 1`); err == nil {
		t.Error("expected a parse error")
	}
}
