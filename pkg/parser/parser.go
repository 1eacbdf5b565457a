// Package parser implements the AVLisp reader.
//
// The reader consumes a shared token sequence front to back. Each call to
// Read removes exactly the tokens of one form, so several programs can be
// read from the same sequence one after another.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-porter/avlisp/pkg/ast"
	"github.com/robert-porter/avlisp/pkg/diagnostics"
	"github.com/robert-porter/avlisp/pkg/lexer"
)

// Special form keywords.
const (
	KwIf     = "if"
	KwQuote  = "quote"
	KwDefine = "define"
	KwBegin  = "begin"
	KwLambda = "lambda"
	KwSet    = "set!"
)

// Error is returned for every malformed program. Token is the offending
// token, or empty when the input ran out. Form is the text of the tokens
// consumed by the failing top-level form.
type Error struct {
	Reason string
	Token  string
	Form   string
}

func (e *Error) Error() string {
	if e.Token == "" {
		return "parse error: " + e.Reason
	}
	return fmt.Sprintf("parse error: %s (at '%s')", e.Reason, e.Token)
}

// Diagnostic implements diagnostics.Diagnoser.
func (e *Error) Diagnostic() diagnostics.Diagnostic {
	near := e.Form
	if near == "" {
		near = e.Token
	}
	return diagnostics.MakeDiag(diagnostics.EParse, e.Reason, near, "")
}

// Reader reads forms off a token sequence.
type Reader struct {
	tokens []string
}

// NewReader returns a Reader over tokens. The reader takes ownership of the
// slice and consumes it as forms are read.
func NewReader(tokens []string) *Reader {
	return &Reader{tokens: tokens}
}

// Len returns the number of unconsumed tokens.
func (r *Reader) Len() int {
	return len(r.tokens)
}

// Remaining returns the unconsumed tokens.
func (r *Reader) Remaining() []string {
	return r.tokens
}

// Parse tokenizes source and reads the first form. Tokens after the first
// complete form are ignored.
func Parse(source string) (ast.Node, error) {
	r := NewReader(lexer.Tokenize(source))
	if r.Len() == 0 {
		return nil, &Error{Reason: "empty program"}
	}
	return r.Read()
}

// ParseAll tokenizes source and reads forms until the tokens run out.
func ParseAll(source string) ([]ast.Node, error) {
	r := NewReader(lexer.Tokenize(source))
	if r.Len() == 0 {
		return nil, &Error{Reason: "empty program"}
	}
	var nodes []ast.Node
	for r.Len() > 0 {
		n, err := r.Read()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (r *Reader) peek() (string, bool) {
	if len(r.tokens) == 0 {
		return "", false
	}
	return r.tokens[0], true
}

func (r *Reader) next() (string, bool) {
	tok, ok := r.peek()
	if ok {
		r.tokens = r.tokens[1:]
	}
	return tok, ok
}

func eof(what string) *Error {
	return &Error{Reason: "unexpected end of input in " + what}
}

// Read consumes and returns one form.
func (r *Reader) Read() (ast.Node, error) {
	start := r.tokens
	n, err := r.read()
	if pe, ok := err.(*Error); ok && pe.Form == "" {
		pe.Form = lexer.Join(start[:len(start)-len(r.tokens)])
	}
	return n, err
}

func (r *Reader) read() (ast.Node, error) {
	tok, ok := r.next()
	if !ok {
		return nil, &Error{Reason: "unexpected end of input"}
	}
	switch tok {
	case lexer.LParen:
		return r.readForm()
	case lexer.RParen:
		return nil, &Error{Reason: "unexpected ')'", Token: tok}
	default:
		return ParseAtom(tok), nil
	}
}

// readForm reads the rest of a parenthesized form; the '(' is already consumed.
func (r *Reader) readForm() (ast.Node, error) {
	head, ok := r.peek()
	if !ok {
		return nil, eof("form")
	}
	switch head {
	case KwIf:
		r.next()
		return r.readIf()
	case KwQuote:
		r.next()
		return r.readQuote()
	case KwDefine:
		r.next()
		name, expr, err := r.readBinding(KwDefine)
		if err != nil {
			return nil, err
		}
		return &ast.Define{Name: name, Expr: expr}, nil
	case KwSet:
		r.next()
		name, expr, err := r.readBinding(KwSet)
		if err != nil {
			return nil, err
		}
		return &ast.Set{Name: name, Expr: expr}, nil
	case KwBegin:
		r.next()
		return r.readBegin()
	case KwLambda:
		r.next()
		return r.readLambda()
	default:
		return r.readCall()
	}
}

// expectClose consumes the ')' that ends a form.
func (r *Reader) expectClose(form string) error {
	tok, ok := r.next()
	if !ok {
		return eof(form)
	}
	if tok != lexer.RParen {
		return &Error{Reason: fmt.Sprintf("expected ')' to close %s", form), Token: tok}
	}
	return nil
}

func (r *Reader) readIf() (ast.Node, error) {
	parts := make([]ast.Node, 3)
	for i := range parts {
		n, err := r.read()
		if err != nil {
			return nil, err
		}
		parts[i] = n
	}
	if err := r.expectClose(KwIf); err != nil {
		return nil, err
	}
	return &ast.If{Cond: parts[0], Then: parts[1], Else: parts[2]}, nil
}

// readQuote concatenates raw tokens up to the first ')'. Nested parentheses
// are not tracked: a '(' is text like any other token.
func (r *Reader) readQuote() (ast.Node, error) {
	var b strings.Builder
	for {
		tok, ok := r.next()
		if !ok {
			return nil, eof(KwQuote)
		}
		if tok == lexer.RParen {
			break
		}
		b.WriteString(tok)
	}
	return &ast.Quoted{Text: b.String()}, nil
}

// readBinding reads "<name> <expr> )" for define and set!.
func (r *Reader) readBinding(form string) (string, ast.Node, error) {
	name, ok := r.next()
	if !ok {
		return "", nil, eof(form)
	}
	if lexer.IsParen(name) {
		return "", nil, &Error{Reason: form + " expects a name", Token: name}
	}
	expr, err := r.read()
	if err != nil {
		return "", nil, err
	}
	if err := r.expectClose(form); err != nil {
		return "", nil, err
	}
	return name, expr, nil
}

func (r *Reader) readBegin() (ast.Node, error) {
	if tok, ok := r.peek(); ok && tok == lexer.RParen {
		return nil, &Error{Reason: "begin requires at least one expression", Token: tok}
	}
	var body []ast.Node
	for {
		n, err := r.read()
		if err != nil {
			return nil, err
		}
		body = append(body, n)

		tok, ok := r.peek()
		if !ok {
			return nil, eof(KwBegin)
		}
		if tok == lexer.RParen {
			r.next()
			return &ast.Begin{Body: body}, nil
		}
	}
}

func (r *Reader) readLambda() (ast.Node, error) {
	tok, ok := r.next()
	if !ok {
		return nil, eof(KwLambda)
	}
	if tok != lexer.LParen {
		return nil, &Error{Reason: "lambda expects a parameter list", Token: tok}
	}
	params := []string{}
	for {
		p, ok := r.next()
		if !ok {
			return nil, eof("lambda parameter list")
		}
		if p == lexer.RParen {
			break
		}
		if p == lexer.LParen {
			return nil, &Error{Reason: "lambda parameters must be names", Token: p}
		}
		params = append(params, p)
	}
	body, err := r.read()
	if err != nil {
		return nil, err
	}
	if err := r.expectClose(KwLambda); err != nil {
		return nil, err
	}
	return &ast.Lambda{Params: params, Body: body}, nil
}

func (r *Reader) readCall() (ast.Node, error) {
	callee, err := r.read()
	if err != nil {
		return nil, err
	}
	args := []ast.Node{}
	for {
		tok, ok := r.peek()
		if !ok {
			return nil, eof("call")
		}
		if tok == lexer.RParen {
			r.next()
			return &ast.Call{Callee: callee, Args: args}, nil
		}
		arg, err := r.read()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

// ParseAtom classifies a bare token: a base-10 integer, #t or #f, or a
// variable reference.
func ParseAtom(tok string) ast.Node {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return &ast.IntLiteral{Value: n}
	}
	switch tok {
	case "#t":
		return &ast.BoolLiteral{Value: true}
	case "#f":
		return &ast.BoolLiteral{Value: false}
	}
	return &ast.Variable{Name: tok}
}
