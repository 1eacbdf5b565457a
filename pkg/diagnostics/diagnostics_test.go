package diagnostics_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/robert-porter/avlisp/pkg/diagnostics"
)

type codedErr struct{ name string }

func (e *codedErr) Error() string { return "unbound " + e.name }

func (e *codedErr) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EUnbound, e.Error(), e.name, "")
}

func TestMakeDiag(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.EParse, "unexpected token", ")", "check parentheses")

	if d.Code != diagnostics.EParse {
		t.Errorf("got Code = %q, want %q", d.Code, diagnostics.EParse)
	}
	if d.Message != "unexpected token" {
		t.Errorf("got Message = %q, want %q", d.Message, "unexpected token")
	}
	if d.Near != ")" {
		t.Errorf("got Near = %q, want %q", d.Near, ")")
	}
}

func TestFormatDiagnosticPretty(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.EUnbound, "unbound variable 'x'", "x", "define it first")

	out := diagnostics.FormatDiagnostic(d, true)
	if !strings.Contains(out, "error[E_UNBOUND]") {
		t.Errorf("expected error code in output, got: %s", out)
	}
	if !strings.Contains(out, `near "x"`) {
		t.Errorf("expected location in output, got: %s", out)
	}
	if !strings.Contains(out, "hint:") {
		t.Errorf("expected hint in output, got: %s", out)
	}
}

func TestFormatDiagnosticJSON(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.EParse, "bad token", "", "")
	out := diagnostics.FormatDiagnostic(d, false)
	if !strings.Contains(out, `"code":"E_PARSE"`) {
		t.Errorf("expected JSON code in output, got: %s", out)
	}
	if strings.Contains(out, "near") {
		t.Errorf("empty near should be omitted, got: %s", out)
	}
}

func TestFormatDiagnosticsJoinsPretty(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		diagnostics.MakeDiag(diagnostics.EType, "first", "", ""),
		diagnostics.MakeDiag(diagnostics.EArity, "second", "", ""),
	}
	out := diagnostics.FormatDiagnostics(diags, true)
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("expected both diagnostics, got: %s", out)
	}
	if !strings.Contains(out, "\n\n") {
		t.Errorf("expected blank line between diagnostics, got: %s", out)
	}
}

func TestFromError(t *testing.T) {
	wrapped := fmt.Errorf("evaluating body: %w", &codedErr{name: "y"})
	d := diagnostics.FromError(wrapped)
	if d.Code != diagnostics.EUnbound {
		t.Errorf("got Code = %q, want %q", d.Code, diagnostics.EUnbound)
	}
	if d.Near != "y" {
		t.Errorf("got Near = %q, want %q", d.Near, "y")
	}

	plain := diagnostics.FromError(errors.New("boom"))
	if plain.Code != diagnostics.ERuntime {
		t.Errorf("got Code = %q, want %q", plain.Code, diagnostics.ERuntime)
	}
}

func TestFormatDiagnosticsEmptyJSON(t *testing.T) {
	if out := diagnostics.FormatDiagnostics(nil, false); out != "[]" {
		t.Errorf("got %q, want []", out)
	}
}
