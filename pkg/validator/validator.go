// Package validator reports faults in an AVLisp AST that are certain before
// the program runs.
package validator

import (
	"fmt"

	"github.com/robert-porter/avlisp/pkg/ast"
	"github.com/robert-porter/avlisp/pkg/diagnostics"
	"github.com/robert-porter/avlisp/pkg/formatter"
)

// scope records the names a frame is certain to bind.
type scope struct {
	bindings map[string]bool
	parent   *scope
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[string]bool), parent: parent}
}

func (s *scope) add(name string) {
	s.bindings[name] = true
}

func (s *scope) hasLocal(name string) bool {
	return s.bindings[name]
}

type validator struct {
	diags []diagnostics.Diagnostic
}

// Validate walks program and returns diagnostics for:
//   - duplicate lambda parameters (E_DUP_BINDING)
//   - a name defined twice in one frame on a path that always runs (E_DUP_BINDING)
//   - calling a literal (E_NOT_CALLABLE)
//   - applying a lambda literal to the wrong number of arguments (E_ARITY)
//   - an if condition that is a literal of a non-boolean type (E_TYPE)
//
// Binding faults are reported first, then per-form faults in tree order.
// The result is nil when nothing is found.
func Validate(program ast.Node) []diagnostics.Diagnostic {
	v := &validator{}
	v.checkBindings(program, newScope(nil), true)
	ast.Walk(program, v.checkForm)
	return v.diags
}

func (v *validator) addDiag(code, msg string, near ast.Node, hint string) {
	nearText := ""
	if near != nil {
		nearText = formatter.Format(near)
	}
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, nearText, hint))
}

// checkForm reports faults visible within a single form.
func (v *validator) checkForm(n ast.Node) bool {
	switch e := n.(type) {
	case *ast.If:
		v.validateCondition(e.Cond)
	case *ast.Call:
		v.validateCallee(e)
	}
	return true
}

// checkBindings tracks the names each frame binds. certain is false inside
// if branches, where a define may not run and so cannot collide.
func (v *validator) checkBindings(n ast.Node, sc *scope, certain bool) {
	switch e := n.(type) {
	case *ast.Define:
		v.checkBindings(e.Expr, sc, certain)
		if !certain {
			return
		}
		if sc.hasLocal(e.Name) {
			v.addDiag(diagnostics.EDupBinding, fmt.Sprintf("'%s' is already defined in this scope", e.Name), e, "use set! to change an existing binding")
		}
		sc.add(e.Name)

	case *ast.Set:
		v.checkBindings(e.Expr, sc, certain)

	case *ast.If:
		v.checkBindings(e.Cond, sc, certain)
		v.checkBindings(e.Then, sc, false)
		v.checkBindings(e.Else, sc, false)

	case *ast.Begin:
		for _, b := range e.Body {
			v.checkBindings(b, sc, certain)
		}

	case *ast.Lambda:
		body := newScope(sc)
		for _, p := range e.Params {
			if body.hasLocal(p) {
				v.addDiag(diagnostics.EDupBinding, fmt.Sprintf("duplicate parameter '%s'", p), e, "")
			}
			body.add(p)
		}
		v.checkBindings(e.Body, body, true)

	case *ast.Call:
		v.checkBindings(e.Callee, sc, certain)
		for _, a := range e.Args {
			v.checkBindings(a, sc, certain)
		}
	}
}

func (v *validator) validateCallee(call *ast.Call) {
	switch c := call.Callee.(type) {
	case *ast.IntLiteral, *ast.BoolLiteral, *ast.Quoted:
		v.addDiag(diagnostics.ENotCallable, fmt.Sprintf("cannot call a value of type %s", literalType(c)), call, "")
	case *ast.Lambda:
		if len(c.Params) != len(call.Args) {
			v.addDiag(diagnostics.EArity, fmt.Sprintf("lambda: expected %d argument(s), got %d", len(c.Params), len(call.Args)), call, "")
		}
	}
}

func (v *validator) validateCondition(cond ast.Node) {
	switch cond.(type) {
	case *ast.IntLiteral, *ast.Quoted, *ast.Lambda:
		v.addDiag(diagnostics.EType, fmt.Sprintf("if: expected bool, got %s", literalType(cond)), cond, "")
	}
}

func literalType(n ast.Node) string {
	switch n.(type) {
	case *ast.IntLiteral:
		return "int"
	case *ast.BoolLiteral:
		return "bool"
	case *ast.Quoted:
		return "quoted"
	case *ast.Lambda:
		return "procedure"
	}
	return n.Kind()
}
