// Package interpreter provides the top-level AVLisp entry point.
package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-porter/avlisp/pkg/config"
	"github.com/robert-porter/avlisp/pkg/diagnostics"
	"github.com/robert-porter/avlisp/pkg/evaluator"
	"github.com/robert-porter/avlisp/pkg/formatter"
	"github.com/robert-porter/avlisp/pkg/parser"
	"github.com/robert-porter/avlisp/pkg/stdlib"
	"github.com/robert-porter/avlisp/pkg/validator"
)

// ResultKind tags the variant held by a Result.
type ResultKind int

const (
	// KindNone is "no result": any failure, or a value with no printable form.
	KindNone ResultKind = iota
	KindInt
	KindBool
	KindQuoted
)

func (k ResultKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindQuoted:
		return "quoted"
	default:
		return "none"
	}
}

// Result is the terminal outcome of Execute.
type Result struct {
	Kind ResultKind
	Int  int64
	Bool bool
	Text string
	// Err holds the cause when a failure collapsed to KindNone.
	Err error
}

// String renders the result the way the driver prints it.
func (r Result) String() string {
	switch r.Kind {
	case KindInt:
		return strconv.FormatInt(r.Int, 10)
	case KindBool:
		if r.Bool {
			return "#t"
		}
		return "#f"
	case KindQuoted:
		return r.Text
	default:
		return ""
	}
}

// Value returns the result as int64, bool, string, or nil for KindNone.
func (r Result) Value() any {
	switch r.Kind {
	case KindInt:
		return r.Int
	case KindBool:
		return r.Bool
	case KindQuoted:
		return r.Text
	default:
		return nil
	}
}

// Interpreter wires the parser, evaluator and built-ins together.
type Interpreter struct {
	registry     *stdlib.Registry
	deny         []string
	runID        string
	trace        func(event evaluator.TraceEvent)
	maxDepth     int
	defineValues bool
	strict       bool
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithRegistry replaces the built-in registry. A nil registry is ignored.
func WithRegistry(r *stdlib.Registry) Option {
	return func(in *Interpreter) {
		if r != nil {
			in.registry = r
		}
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(in *Interpreter) {
		in.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(in *Interpreter) {
		in.trace = fn
	}
}

// WithMaxDepth limits call depth. Zero means unbounded.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		in.maxDepth = n
	}
}

// WithDefineYieldsValue makes define forms evaluate to the bound value.
func WithDefineYieldsValue() Option {
	return func(in *Interpreter) {
		in.defineValues = true
	}
}

// WithStrict runs the static validator before every Run or Execute.
func WithStrict() Option {
	return func(in *Interpreter) {
		in.strict = true
	}
}

// WithConfig applies settings loaded from a configuration file.
// Options given after WithConfig override it.
func WithConfig(cfg *config.Config) Option {
	return func(in *Interpreter) {
		if cfg == nil {
			return
		}
		in.maxDepth = cfg.MaxDepth
		in.defineValues = cfg.DefineYieldsValue()
		if cfg.RunID != "" {
			in.runID = cfg.RunID
		}
		in.deny = append(in.deny, cfg.Builtins.Deny...)
	}
}

// New creates a new Interpreter with the given options.
// By default every built-in from stdlib.RegisterDefaults is bound.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		registry: stdlib.Default(),
		runID:    "cli",
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Execute runs source and reports the outcome as a Result. It never returns
// an error: failures become KindNone with the cause in Result.Err.
// Division by zero and host stack exhaustion are not recovered.
func (in *Interpreter) Execute(source string) Result {
	val, err := in.Run(source)
	if err != nil {
		return Result{Kind: KindNone, Err: err}
	}
	return NewResult(val)
}

// NewResult converts an evaluated value into a Result.
func NewResult(val evaluator.Value) Result {
	switch v := val.(type) {
	case evaluator.Int:
		return Result{Kind: KindInt, Int: v.Value}
	case evaluator.Bool:
		return Result{Kind: KindBool, Bool: v.Value}
	case evaluator.Quoted:
		return Result{Kind: KindQuoted, Text: v.Text}
	default:
		// Procedures and definitions have no printable result.
		return Result{Kind: KindNone}
	}
}

// Run parses and evaluates source, returning the raw value or a typed error.
func (in *Interpreter) Run(source string) (evaluator.Value, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	if in.strict {
		if diags := validator.Validate(program); len(diags) > 0 {
			return nil, &DiagnosticError{Diagnostics: diags}
		}
	}

	result, err := evaluator.Execute(program, in.buildExecOptions())
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// Check parses and validates source without executing it.
func (in *Interpreter) Check(source string) []diagnostics.Diagnostic {
	program, err := parser.Parse(source)
	if err != nil {
		return []diagnostics.Diagnostic{diagnostics.FromError(err)}
	}
	return validator.Validate(program)
}

// Format parses source and prints it in canonical form.
func (in *Interpreter) Format(source string) (string, error) {
	return formatter.Source(source)
}

// buildExecOptions constructs evaluator options from the interpreter's configuration.
func (in *Interpreter) buildExecOptions() evaluator.ExecOptions {
	reg := in.registry
	if len(in.deny) > 0 {
		reg = reg.Without(in.deny...)
	}
	return evaluator.ExecOptions{
		Builtins:          reg.Builtins(),
		Budget:            evaluator.Budget{MaxDepth: in.maxDepth},
		Trace:             in.trace,
		RunID:             in.runID,
		DefineYieldsValue: in.defineValues,
	}
}

// DiagnosticError wraps validation diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// Diagnostic returns the first diagnostic.
func (e *DiagnosticError) Diagnostic() diagnostics.Diagnostic {
	if len(e.Diagnostics) == 0 {
		return diagnostics.MakeDiag(diagnostics.ERuntime, "validation failed", "", "")
	}
	return e.Diagnostics[0]
}
