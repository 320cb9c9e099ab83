package merge

import (
	"fmt"
	"strings"
)

// Node is an element of a parsed merge template
type Node interface {
	Render(w *strings.Builder, ctx Context, env *renderEnv) error
	String() string
}

// renderEnv carries per-Evaluate state shared by all nodes.
type renderEnv struct {
	filters filterSet
}

// TextNode represents plain text content
type TextNode struct {
	Content string
}

func (n *TextNode) String() string {
	return fmt.Sprintf("Text(%q)", n.Content)
}

func (n *TextNode) Render(w *strings.Builder, ctx Context, env *renderEnv) error {
	w.WriteString(n.Content)
	return nil
}

// ReferenceContentNode substitutes a $reference
type ReferenceContentNode struct {
	Path  string
	Raw   string
	Quiet bool
}

func (n *ReferenceContentNode) String() string {
	return fmt.Sprintf("Reference(%s)", n.Path)
}

// Render writes the resolved value. Unresolved references render as their
// source text unless quiet, in which case they render as nothing.
func (n *ReferenceContentNode) Render(w *strings.Builder, ctx Context, env *renderEnv) error {
	val, ok := Lookup(ctx, n.Path)
	if !ok {
		if !n.Quiet {
			w.WriteString(n.Raw)
		}
		return nil
	}
	w.WriteString(FormatValue(env.filters.apply(val)))
	return nil
}

// IfNode represents an #if statement
type IfNode struct {
	Condition ExpressionNode
	ThenBody  []Node
	ElseIfs   []*ElseIfNode
	ElseBody  []Node
}

func (n *IfNode) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("If(%s)", n.Condition.String()))
	for _, elseIf := range n.ElseIfs {
		parts = append(parts, elseIf.String())
	}
	if len(n.ElseBody) > 0 {
		parts = append(parts, "Else")
	}
	return strings.Join(parts, " ")
}

func (n *IfNode) Render(w *strings.Builder, ctx Context, env *renderEnv) error {
	condValue, err := n.Condition.Evaluate(ctx)
	if err != nil {
		return NewEvaluationError(n.Condition.String(), err)
	}
	if isTruthy(condValue) {
		return renderBody(w, n.ThenBody, ctx, env)
	}

	for _, elseIf := range n.ElseIfs {
		val, err := elseIf.Condition.Evaluate(ctx)
		if err != nil {
			return NewEvaluationError(elseIf.Condition.String(), err)
		}
		if isTruthy(val) {
			return renderBody(w, elseIf.Body, ctx, env)
		}
	}

	return renderBody(w, n.ElseBody, ctx, env)
}

// ElseIfNode represents an #elseif clause
type ElseIfNode struct {
	Condition ExpressionNode
	Body      []Node
}

func (n *ElseIfNode) String() string {
	return fmt.Sprintf("ElseIf(%s)", n.Condition.String())
}

// ForeachNode represents a #foreach loop
type ForeachNode struct {
	Variable   string
	Collection string
	Body       []Node
}

func (n *ForeachNode) String() string {
	return fmt.Sprintf("Foreach(%s in %s)", n.Variable, n.Collection)
}

func (n *ForeachNode) Render(w *strings.Builder, ctx Context, env *renderEnv) error {
	collection, _ := Lookup(ctx, n.Collection)
	items, err := toSlice(collection)
	if err != nil {
		return NewEvaluationError("$"+n.Collection, err)
	}

	for i, item := range items {
		// the caller's context is read-only, so each iteration gets its own scope
		loopCtx := make(Context, len(ctx)+3)
		for k, v := range ctx {
			loopCtx[k] = v
		}
		loopCtx[n.Variable] = item
		loopCtx["foreachCount"] = i + 1
		loopCtx["foreach"] = map[string]interface{}{
			"count":   i + 1,
			"index":   i,
			"hasNext": i < len(items)-1,
			"first":   i == 0,
			"last":    i == len(items)-1,
		}

		if err := renderBody(w, n.Body, loopCtx, env); err != nil {
			return err
		}
	}
	return nil
}

func renderBody(w *strings.Builder, body []Node, ctx Context, env *renderEnv) error {
	for _, node := range body {
		if err := node.Render(w, ctx, env); err != nil {
			return err
		}
	}
	return nil
}

// Parser turns tokens into a node tree
type Parser struct {
	name   string
	source string
	tokens []Token
	pos    int
}

// Parse lexes and parses merge source text
func Parse(name, source string) ([]Node, error) {
	tokens, err := tokenize(name, source)
	if err != nil {
		return nil, err
	}
	p := &Parser{name: name, source: source, tokens: tokens}
	nodes, err := p.parseBodyUntil()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, p.errorf(p.current(), "unexpected "+p.current().Type.String())
	}
	return nodes, nil
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenText, Pos: len(p.source)}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) errorf(tok Token, msg string) error {
	line, col := lineColumn(p.source, tok.Pos)
	return &SyntaxError{Template: p.name, Message: msg, Line: line, Column: col}
}

// parseBodyUntil parses nodes until one of stopTokens or the end of input.
func (p *Parser) parseBodyUntil(stopTokens ...TokenType) ([]Node, error) {
	var body []Node

	for p.pos < len(p.tokens) {
		current := p.current()

		for _, stopType := range stopTokens {
			if current.Type == stopType {
				return body, nil
			}
		}

		switch current.Type {
		case TokenText:
			body = append(body, &TextNode{Content: current.Value})
			p.advance()

		case TokenReference:
			body = append(body, &ReferenceContentNode{Path: current.Value, Raw: current.Raw, Quiet: current.Quiet})
			p.advance()

		case TokenIf:
			ifNode, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			body = append(body, ifNode)

		case TokenForeach:
			foreachNode, err := p.parseForeach()
			if err != nil {
				return nil, err
			}
			body = append(body, foreachNode)

		default:
			if len(stopTokens) == 0 {
				return nil, p.errorf(current, "unexpected "+current.Type.String())
			}
			return nil, p.errorf(current, "unexpected "+current.Type.String()+" in block")
		}
	}

	if len(stopTokens) > 0 {
		return nil, p.errorf(p.current(), "missing #end")
	}
	return body, nil
}

func (p *Parser) parseIf() (*IfNode, error) {
	tok := p.current()
	condition, err := ParseCondition(tok.Value)
	if err != nil {
		return nil, p.errorf(tok, err.Error())
	}
	p.advance()

	ifNode := &IfNode{Condition: condition}

	thenBody, err := p.parseBodyUntil(TokenElseIf, TokenElse, TokenEnd)
	if err != nil {
		return nil, err
	}
	ifNode.ThenBody = thenBody

	for p.current().Type == TokenElseIf {
		elseTok := p.current()
		cond, err := ParseCondition(elseTok.Value)
		if err != nil {
			return nil, p.errorf(elseTok, err.Error())
		}
		p.advance()
		body, err := p.parseBodyUntil(TokenElseIf, TokenElse, TokenEnd)
		if err != nil {
			return nil, err
		}
		ifNode.ElseIfs = append(ifNode.ElseIfs, &ElseIfNode{Condition: cond, Body: body})
	}

	if p.current().Type == TokenElse {
		p.advance()
		elseBody, err := p.parseBodyUntil(TokenEnd)
		if err != nil {
			return nil, err
		}
		ifNode.ElseBody = elseBody
	}

	p.advance() // #end
	return ifNode, nil
}

func (p *Parser) parseForeach() (*ForeachNode, error) {
	tok := p.current()
	node, err := parseForeachSyntax(tok.Value)
	if err != nil {
		return nil, p.errorf(tok, err.Error())
	}
	p.advance()

	body, err := p.parseBodyUntil(TokenEnd)
	if err != nil {
		return nil, err
	}
	node.Body = body
	p.advance() // #end
	return node, nil
}

// parseForeachSyntax parses "$item in $items".
func parseForeachSyntax(arg string) (*ForeachNode, error) {
	fields := strings.Fields(arg)
	if len(fields) != 3 || fields[1] != "in" {
		return nil, fmt.Errorf("invalid #foreach syntax %q: expected $item in $collection", arg)
	}

	variable, _, end, ok := scanReference(fields[0], 0)
	if !ok || end != len(fields[0]) || strings.Contains(variable, ".") {
		return nil, fmt.Errorf("invalid #foreach variable %q", fields[0])
	}
	collection, _, end, ok := scanReference(fields[2], 0)
	if !ok || end != len(fields[2]) {
		return nil, fmt.Errorf("invalid #foreach collection %q", fields[2])
	}

	return &ForeachNode{Variable: variable, Collection: collection}, nil
}
