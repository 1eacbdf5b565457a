package evaluator

import (
	"fmt"
	"strconv"

	"github.com/robert-porter/avlisp/pkg/diagnostics"
)

// UnboundVariableError is returned when a name is not bound in any frame.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable '%s'", e.Name)
}

func (e *UnboundVariableError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EUnbound, e.Error(), e.Name, "")
}

// TypeMismatchError is returned when an operation receives the wrong variant.
type TypeMismatchError struct {
	Op       string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Op, e.Expected, e.Got)
}

func (e *TypeMismatchError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EType, e.Error(), e.Op, "")
}

// ArityMismatchError is returned when a procedure is called with the wrong
// number of arguments.
type ArityMismatchError struct {
	Callee   string
	Expected int
	Got      int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d argument(s), got %d", e.Callee, e.Expected, e.Got)
}

func (e *ArityMismatchError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EArity, e.Error(), e.Callee, "")
}

// NotCallableError is returned when the callee of a call is not a procedure.
type NotCallableError struct {
	Got string
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("cannot call a value of type %s", e.Got)
}

func (e *NotCallableError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.ENotCallable, e.Error(), "", "")
}

// DuplicateDefinitionError is returned when a name is defined twice in the
// same frame.
type DuplicateDefinitionError struct {
	Name string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("'%s' is already defined in this scope", e.Name)
}

func (e *DuplicateDefinitionError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EDupBinding, e.Error(), e.Name, "use set! to change an existing binding")
}

// DepthExceededError is returned when the call depth budget is exhausted.
type DepthExceededError struct {
	Max int
}

func (e *DepthExceededError) Error() string {
	return "call depth budget exceeded (max " + strconv.Itoa(e.Max) + ")"
}

func (e *DepthExceededError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EBudget, e.Error(), "", "")
}
