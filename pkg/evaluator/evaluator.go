package evaluator

import (
	"fmt"
	"sort"
	"time"

	"github.com/robert-porter/avlisp/pkg/ast"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart  TraceEventType = "run_start"
	TraceRunEnd    TraceEventType = "run_end"
	TraceCallStart TraceEventType = "call_start"
	TraceCallEnd   TraceEventType = "call_end"
	TraceDefine    TraceEventType = "define"
	TraceSet       TraceEventType = "set"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string         `json:"ts"`
	RunID     string         `json:"runId"`
	Event     TraceEventType `json:"event"`
	Data      map[string]any `json:"data,omitempty"`
}

// ExecOptions configures program execution.
type ExecOptions struct {
	// Builtins are bound in the global frame before evaluation starts.
	Builtins map[string]*Builtin
	Budget   Budget
	Trace    func(event TraceEvent)
	RunID    string
	// DefineYieldsValue makes a define form evaluate to the bound value
	// instead of a Definition.
	DefineYieldsValue bool
}

// ExecResult holds the result of a program execution.
type ExecResult struct {
	Value   Value
	Frames  int
	Tracker BudgetTracker
}

type evaluator struct {
	opts    ExecOptions
	arena   *Arena
	global  FrameID
	budget  Budget
	tracker BudgetTracker
}

func (ev *evaluator) emit(event TraceEventType, data map[string]any) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     ev.opts.RunID,
			Event:     event,
			Data:      data,
		})
	}
}

// Execute evaluates program in a fresh global frame holding opts.Builtins.
// The returned ExecResult is non-nil even when err is set.
func Execute(program ast.Node, opts ExecOptions) (*ExecResult, error) {
	ev := &evaluator{
		opts:   opts,
		arena:  NewArena(),
		budget: opts.Budget,
	}
	ev.global = ev.arena.NewFrame(NoFrame)

	names := make([]string, 0, len(opts.Builtins))
	for name := range opts.Builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ev.arena.Define(ev.global, name, opts.Builtins[name]); err != nil {
			return &ExecResult{}, err
		}
	}

	ev.emit(TraceRunStart, nil)
	val, err := ev.eval(program, ev.global)
	ev.emit(TraceRunEnd, map[string]any{
		"ok":     err == nil,
		"calls":  ev.tracker.Calls,
		"frames": ev.arena.Len(),
	})

	return &ExecResult{
		Value:   val,
		Frames:  ev.arena.Len(),
		Tracker: ev.tracker,
	}, err
}

func (ev *evaluator) eval(node ast.Node, f FrameID) (Value, error) {
	switch n := node.(type) {
	case *ast.IntLiteral:
		return NewInt(n.Value), nil

	case *ast.BoolLiteral:
		return NewBool(n.Value), nil

	case *ast.Quoted:
		return NewQuoted(n.Text), nil

	case *ast.Variable:
		val, ok := ev.arena.Lookup(f, n.Name)
		if !ok {
			return nil, &UnboundVariableError{Name: n.Name}
		}
		return val, nil

	case *ast.Define:
		return ev.evalDefine(n, f)

	case *ast.Set:
		return ev.evalSet(n, f)

	case *ast.If:
		return ev.evalIf(n, f)

	case *ast.Begin:
		return ev.evalBegin(n, f)

	case *ast.Lambda:
		return Closure{Lambda: n, Frame: f}, nil

	case *ast.Call:
		return ev.evalCall(n, f)

	default:
		return nil, fmt.Errorf("unsupported node type: %T", node)
	}
}

func (ev *evaluator) evalDefine(n *ast.Define, f FrameID) (Value, error) {
	val, err := ev.eval(n.Expr, f)
	if err != nil {
		return nil, err
	}
	if err := ev.arena.Define(f, n.Name, val); err != nil {
		return nil, err
	}
	ev.emit(TraceDefine, map[string]any{"name": n.Name, "frame": int(f)})
	if ev.opts.DefineYieldsValue {
		return val, nil
	}
	return Definition{Name: n.Name}, nil
}

func (ev *evaluator) evalSet(n *ast.Set, f FrameID) (Value, error) {
	if !ev.arena.Has(f, n.Name) {
		return nil, &UnboundVariableError{Name: n.Name}
	}
	val, err := ev.eval(n.Expr, f)
	if err != nil {
		return nil, err
	}
	if err := ev.arena.Set(f, n.Name, val); err != nil {
		return nil, err
	}
	ev.emit(TraceSet, map[string]any{"name": n.Name, "frame": int(f)})
	return val, nil
}

func (ev *evaluator) evalIf(n *ast.If, f FrameID) (Value, error) {
	cond, err := ev.eval(n.Cond, f)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(Bool)
	if !ok {
		return nil, &TypeMismatchError{Op: "if", Expected: "bool", Got: TypeName(cond)}
	}
	if b.Value {
		return ev.eval(n.Then, f)
	}
	return ev.eval(n.Else, f)
}

func (ev *evaluator) evalBegin(n *ast.Begin, f FrameID) (Value, error) {
	var last Value
	for _, e := range n.Body {
		val, err := ev.eval(e, f)
		if err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

func (ev *evaluator) evalCall(n *ast.Call, f FrameID) (Value, error) {
	callee, err := ev.eval(n.Callee, f)
	if err != nil {
		return nil, err
	}
	proc, ok := callee.(Procedure)
	if !ok {
		return nil, &NotCallableError{Got: TypeName(callee)}
	}
	name := procName(proc, n.Callee)
	if proc.Arity() != len(n.Args) {
		return nil, &ArityMismatchError{Callee: name, Expected: proc.Arity(), Got: len(n.Args)}
	}

	// Arguments are evaluated left to right in the caller's frame.
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		val, err := ev.eval(a, f)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	if err := ev.enterCall(); err != nil {
		return nil, err
	}
	ev.emit(TraceCallStart, map[string]any{"callee": name, "args": len(args), "depth": ev.tracker.Depth})
	result, err := ev.apply(proc, args)
	ev.emit(TraceCallEnd, map[string]any{"callee": name, "depth": ev.tracker.Depth, "ok": err == nil})
	ev.leaveCall()
	return result, err
}

// apply binds args in a new frame whose parent is the procedure's captured
// frame and runs the procedure body there.
func (ev *evaluator) apply(proc Procedure, args []Value) (Value, error) {
	switch p := proc.(type) {
	case Closure:
		frame := ev.arena.NewFrame(p.Frame)
		if err := ev.bindParams(frame, p.Lambda.Params, args); err != nil {
			return nil, err
		}
		return ev.eval(p.Lambda.Body, frame)

	case *Builtin:
		frame := ev.arena.NewFrame(NoFrame)
		if err := ev.bindParams(frame, p.Params, args); err != nil {
			return nil, err
		}
		bound := make([]Value, len(p.Params))
		for i, param := range p.Params {
			val, ok := ev.arena.Lookup(frame, param)
			if !ok {
				return nil, &UnboundVariableError{Name: param}
			}
			bound[i] = val
		}
		return p.Execute(bound)

	default:
		return nil, &NotCallableError{Got: TypeName(proc)}
	}
}

func (ev *evaluator) bindParams(frame FrameID, params []string, args []Value) error {
	for i, param := range params {
		if err := ev.arena.Define(frame, param, args[i]); err != nil {
			return err
		}
	}
	return nil
}

func procName(proc Procedure, callee ast.Node) string {
	if b, ok := proc.(*Builtin); ok {
		return b.Name
	}
	if v, ok := callee.(*ast.Variable); ok {
		return v.Name
	}
	return "lambda"
}
