// Package formatter implements the AVLisp source code formatter.
package formatter

import (
	"strconv"
	"strings"

	"github.com/robert-porter/avlisp/pkg/ast"
	"github.com/robert-porter/avlisp/pkg/parser"
)

const (
	indent   = "  "
	maxWidth = 72
)

// Format prints n as a single-line canonical s-expression.
func Format(n ast.Node) string {
	var b strings.Builder
	writeFlat(&b, n)
	return b.String()
}

// FormatAll prints each node on its own line, broken and indented where a
// form does not fit on one line. The result ends with a newline.
func FormatAll(nodes []ast.Node) string {
	lines := make([]string, len(nodes))
	for i, n := range nodes {
		lines[i] = formatIndented(n, 0)
	}
	return strings.Join(lines, "\n") + "\n"
}

// Source parses every form in source and formats it with FormatAll.
func Source(source string) (string, error) {
	nodes, err := parser.ParseAll(source)
	if err != nil {
		return "", err
	}
	return FormatAll(nodes), nil
}

func writeFlat(b *strings.Builder, n ast.Node) {
	switch v := n.(type) {
	case *ast.IntLiteral:
		b.WriteString(strconv.FormatInt(v.Value, 10))
	case *ast.BoolLiteral:
		if v.Value {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case *ast.Quoted:
		b.WriteString("(" + parser.KwQuote)
		if v.Text != "" {
			b.WriteString(" " + v.Text)
		}
		b.WriteString(")")
	case *ast.Variable:
		b.WriteString(v.Name)
	case *ast.Define:
		writeBinding(b, parser.KwDefine, v.Name, v.Expr)
	case *ast.Set:
		writeBinding(b, parser.KwSet, v.Name, v.Expr)
	case *ast.If:
		b.WriteString("(" + parser.KwIf)
		for _, part := range []ast.Node{v.Cond, v.Then, v.Else} {
			b.WriteString(" ")
			writeFlat(b, part)
		}
		b.WriteString(")")
	case *ast.Begin:
		b.WriteString("(" + parser.KwBegin)
		for _, e := range v.Body {
			b.WriteString(" ")
			writeFlat(b, e)
		}
		b.WriteString(")")
	case *ast.Lambda:
		b.WriteString("(" + parser.KwLambda + " " + paramList(v.Params) + " ")
		writeFlat(b, v.Body)
		b.WriteString(")")
	case *ast.Call:
		b.WriteString("(")
		writeFlat(b, v.Callee)
		for _, a := range v.Args {
			b.WriteString(" ")
			writeFlat(b, a)
		}
		b.WriteString(")")
	}
}

func writeBinding(b *strings.Builder, kw, name string, expr ast.Node) {
	b.WriteString("(" + kw + " " + name + " ")
	writeFlat(b, expr)
	b.WriteString(")")
}

func paramList(params []string) string {
	return "(" + strings.Join(params, " ") + ")"
}

func formatIndented(n ast.Node, depth int) string {
	flat := Format(n)
	if len(flat)+depth*len(indent) <= maxWidth {
		return flat
	}
	inner := "\n" + strings.Repeat(indent, depth+1)

	switch v := n.(type) {
	case *ast.Begin:
		var b strings.Builder
		b.WriteString("(" + parser.KwBegin)
		for _, e := range v.Body {
			b.WriteString(inner + formatIndented(e, depth+1))
		}
		return b.String() + ")"
	case *ast.Define:
		return "(" + parser.KwDefine + " " + v.Name + inner + formatIndented(v.Expr, depth+1) + ")"
	case *ast.Set:
		return "(" + parser.KwSet + " " + v.Name + inner + formatIndented(v.Expr, depth+1) + ")"
	case *ast.If:
		return "(" + parser.KwIf + " " + formatIndented(v.Cond, depth+1) +
			inner + formatIndented(v.Then, depth+1) +
			inner + formatIndented(v.Else, depth+1) + ")"
	case *ast.Lambda:
		return "(" + parser.KwLambda + " " + paramList(v.Params) + inner + formatIndented(v.Body, depth+1) + ")"
	case *ast.Call:
		var b strings.Builder
		b.WriteString("(" + formatIndented(v.Callee, depth+1))
		for _, a := range v.Args {
			b.WriteString(inner + formatIndented(a, depth+1))
		}
		return b.String() + ")"
	}
	return flat
}
