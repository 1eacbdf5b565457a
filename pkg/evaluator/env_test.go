package evaluator_test

import (
	"errors"
	"testing"

	"github.com/robert-porter/avlisp/pkg/evaluator"
)

func TestArena_DefineAndLookup(t *testing.T) {
	a := evaluator.NewArena()
	root := a.NewFrame(evaluator.NoFrame)
	if err := a.Define(root, "x", evaluator.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	child := a.NewFrame(root)

	v, ok := a.Lookup(child, "x")
	if !ok {
		t.Fatal("x not visible from child frame")
	}
	expectInt(t, v, 1)

	if _, ok := a.Lookup(child, "y"); ok {
		t.Error("y should be unbound")
	}
	if a.Parent(child) != root || a.Parent(root) != evaluator.NoFrame {
		t.Error("unexpected parent links")
	}
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
}

func TestArena_DefineDuplicate(t *testing.T) {
	a := evaluator.NewArena()
	root := a.NewFrame(evaluator.NoFrame)
	_ = a.Define(root, "x", evaluator.NewInt(1))

	err := a.Define(root, "x", evaluator.NewInt(2))
	var dup *evaluator.DuplicateDefinitionError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateDefinitionError, got %v", err)
	}

	// Shadowing in a child frame is allowed and leaves the parent untouched.
	child := a.NewFrame(root)
	if err := a.Define(child, "x", evaluator.NewInt(3)); err != nil {
		t.Fatalf("shadowing failed: %v", err)
	}
	v, _ := a.Lookup(child, "x")
	expectInt(t, v, 3)
	v, _ = a.Lookup(root, "x")
	expectInt(t, v, 1)
}

func TestArena_SetWalksOutward(t *testing.T) {
	a := evaluator.NewArena()
	root := a.NewFrame(evaluator.NoFrame)
	_ = a.Define(root, "x", evaluator.NewInt(1))
	child := a.NewFrame(root)
	grandchild := a.NewFrame(child)

	if err := a.Set(grandchild, "x", evaluator.NewInt(9)); err != nil {
		t.Fatal(err)
	}
	v, _ := a.Lookup(root, "x")
	expectInt(t, v, 9)
	if !a.Has(grandchild, "x") {
		t.Error("Has(grandchild, x) = false")
	}
}

func TestArena_SetUnbound(t *testing.T) {
	a := evaluator.NewArena()
	root := a.NewFrame(evaluator.NoFrame)
	err := a.Set(root, "missing", evaluator.NewInt(1))
	var unbound *evaluator.UnboundVariableError
	if !errors.As(err, &unbound) {
		t.Fatalf("expected UnboundVariableError, got %v", err)
	}
	if a.Has(root, "missing") {
		t.Error("failed Set must not bind")
	}
}

func TestArena_SiblingFramesAreIsolated(t *testing.T) {
	a := evaluator.NewArena()
	root := a.NewFrame(evaluator.NoFrame)
	left := a.NewFrame(root)
	right := a.NewFrame(root)
	_ = a.Define(left, "only-left", evaluator.NewBool(true))
	if a.Has(right, "only-left") {
		t.Error("binding leaked into sibling frame")
	}
}
