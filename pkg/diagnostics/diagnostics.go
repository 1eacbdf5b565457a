// Package diagnostics defines AVLisp diagnostic types for parse, validation and runtime errors.
package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Codes reported by the parser, validator, evaluator and driver.
const (
	EParse       = "E_PARSE"
	EUnbound     = "E_UNBOUND"
	EType        = "E_TYPE"
	EArity       = "E_ARITY"
	ENotCallable = "E_NOT_CALLABLE"
	EDupBinding  = "E_DUP_BINDING"
	EBudget      = "E_BUDGET"
	EConfig      = "E_CONFIG"
	EIO          = "E_IO"
	ERuntime     = "E_RUNTIME"
)

// Diagnostic is the machine-readable form of any AVLisp failure. Near holds
// the canonical text of the offending form when one is known.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Near    string `json:"near,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Diagnoser is implemented by errors that know their own diagnostic.
type Diagnoser interface {
	Diagnostic() Diagnostic
}

// MakeDiag builds a Diagnostic; near and hint may be empty.
func MakeDiag(code, message, near, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Near:    near,
		Hint:    hint,
	}
}

// FromError converts an error into a Diagnostic. Errors that do not carry a
// diagnostic of their own are reported as E_RUNTIME.
func FromError(err error) Diagnostic {
	var d Diagnoser
	if errors.As(err, &d) {
		return d.Diagnostic()
	}
	return MakeDiag(ERuntime, err.Error(), "", "")
}

// FormatDiagnostic renders d as compact JSON, or as a human-readable
// error[CODE] block when pretty is set.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "error[%s]: %s", d.Code, d.Message)
	if d.Near != "" {
		fmt.Fprintf(&sb, "\n  --> near %q", d.Near)
	}
	if d.Hint != "" {
		fmt.Fprintf(&sb, "\n  hint: %s", d.Hint)
	}
	return sb.String()
}

// FormatDiagnostics renders diags as a JSON array, or as pretty blocks
// separated by blank lines.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		if diags == nil {
			diags = []Diagnostic{}
		}
		b, _ := json.Marshal(diags)
		return string(b)
	}
	blocks := make([]string, 0, len(diags))
	for _, d := range diags {
		blocks = append(blocks, FormatDiagnostic(d, true))
	}
	return strings.Join(blocks, "\n\n")
}
