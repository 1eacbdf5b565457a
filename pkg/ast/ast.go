// Package ast defines the AVLisp AST node types.
package ast

// Node is the interface implemented by all AST nodes.
// The set of implementations is closed; use a type switch to consume it.
type Node interface {
	Kind() string
	node() // sealed marker
}

// --- Literals ---

type IntLiteral struct {
	Value int64
}

func (n *IntLiteral) Kind() string { return "IntLiteral" }
func (n *IntLiteral) node()        {}

type BoolLiteral struct {
	Value bool
}

func (n *BoolLiteral) Kind() string { return "BoolLiteral" }
func (n *BoolLiteral) node()        {}

// Quoted holds the tokens of a quote form concatenated with no separator.
type Quoted struct {
	Text string
}

func (n *Quoted) Kind() string { return "Quoted" }
func (n *Quoted) node()        {}

// --- References and bindings ---

// Variable is resolved against the environment when evaluated, not when parsed.
type Variable struct {
	Name string
}

func (n *Variable) Kind() string { return "Variable" }
func (n *Variable) node()        {}

// Define binds Name in the frame it is evaluated in.
type Define struct {
	Name string
	Expr Node
}

func (n *Define) Kind() string { return "Define" }
func (n *Define) node()        {}

// Set rebinds an existing Name in the nearest frame that binds it.
type Set struct {
	Name string
	Expr Node
}

func (n *Set) Kind() string { return "Set" }
func (n *Set) node()        {}

// --- Control ---

type If struct {
	Cond Node
	Then Node
	Else Node
}

func (n *If) Kind() string { return "If" }
func (n *If) node()        {}

// Begin always has at least one body expression.
type Begin struct {
	Body []Node
}

func (n *Begin) Kind() string { return "Begin" }
func (n *Begin) node()        {}

// --- Procedures ---

type Lambda struct {
	Params []string
	Body   Node
}

func (n *Lambda) Kind() string { return "Lambda" }
func (n *Lambda) node()        {}

type Call struct {
	Callee Node
	Args   []Node
}

func (n *Call) Kind() string { return "Call" }
func (n *Call) node()        {}

// Walk calls fn for n and then for each of its descendants, depth first.
// If fn returns false the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *Define:
		Walk(v.Expr, fn)
	case *Set:
		Walk(v.Expr, fn)
	case *If:
		Walk(v.Cond, fn)
		Walk(v.Then, fn)
		Walk(v.Else, fn)
	case *Begin:
		for _, b := range v.Body {
			Walk(b, fn)
		}
	case *Lambda:
		Walk(v.Body, fn)
	case *Call:
		Walk(v.Callee, fn)
		for _, a := range v.Args {
			Walk(a, fn)
		}
	}
}
