package merge

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpressionNode represents a node in a directive condition
type ExpressionNode interface {
	String() string
	Evaluate(ctx Context) (interface{}, error)
}

// LiteralNode represents a literal value (string, number, boolean, null)
type LiteralNode struct {
	Value interface{}
}

func (n *LiteralNode) String() string {
	if str, ok := n.Value.(string); ok {
		return fmt.Sprintf("Literal(%q)", str)
	}
	return fmt.Sprintf("Literal(%v)", n.Value)
}

func (n *LiteralNode) Evaluate(ctx Context) (interface{}, error) {
	return n.Value, nil
}

// ReferenceNode represents a $reference inside a condition
type ReferenceNode struct {
	Path string
}

func (n *ReferenceNode) String() string {
	return fmt.Sprintf("Reference(%s)", n.Path)
}

func (n *ReferenceNode) Evaluate(ctx Context) (interface{}, error) {
	val, _ := Lookup(ctx, n.Path)
	return val, nil
}

// UnaryOpNode represents logical negation
type UnaryOpNode struct {
	Operand ExpressionNode
}

func (n *UnaryOpNode) String() string {
	return fmt.Sprintf("Not(%s)", n.Operand.String())
}

func (n *UnaryOpNode) Evaluate(ctx Context) (interface{}, error) {
	val, err := n.Operand.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return !isTruthy(val), nil
}

// BinaryOpNode represents a comparison or logical operation
type BinaryOpNode struct {
	Left     ExpressionNode
	Operator string
	Right    ExpressionNode
}

func (n *BinaryOpNode) String() string {
	return fmt.Sprintf("BinaryOp(%s %s %s)", n.Left.String(), n.Operator, n.Right.String())
}

func (n *BinaryOpNode) Evaluate(ctx Context) (interface{}, error) {
	left, err := n.Left.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	// short-circuit
	switch n.Operator {
	case "&&":
		if !isTruthy(left) {
			return false, nil
		}
		right, err := n.Right.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		return isTruthy(right), nil
	case "||":
		if isTruthy(left) {
			return true, nil
		}
		right, err := n.Right.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		return isTruthy(right), nil
	}

	right, err := n.Right.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return compare(left, n.Operator, right)
}

func compare(left interface{}, op string, right interface{}) (bool, error) {
	lf, lok := toFloat64(left)
	rf, rok := toFloat64(right)

	switch op {
	case "==", "!=":
		var equal bool
		switch {
		case lok && rok:
			equal = lf == rf
		case left == nil || right == nil:
			equal = left == nil && right == nil
		default:
			equal = FormatValue(left) == FormatValue(right)
		}
		if op == "==" {
			return equal, nil
		}
		return !equal, nil
	}

	var cmp int
	switch {
	case lok && rok:
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	default:
		ls, lIsStr := left.(string)
		rs, rIsStr := right.(string)
		if !lIsStr || !rIsStr {
			return false, fmt.Errorf("cannot compare %T %s %T", left, op, right)
		}
		cmp = strings.Compare(ls, rs)
	}

	switch op {
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("unknown operator: %s", op)
}

// word operators Velocity accepts alongside the symbolic ones
var wordOperators = map[string]string{
	"and": "&&",
	"or":  "||",
	"not": "!",
	"eq":  "==",
	"ne":  "!=",
	"lt":  "<",
	"le":  "<=",
	"gt":  ">",
	"ge":  ">=",
}

type condToken struct {
	kind  string // "op", "ref", "lit", "(", ")"
	value interface{}
	text  string
}

// ParseCondition parses the argument of #if / #elseif.
func ParseCondition(input string) (ExpressionNode, error) {
	tokens, err := lexCondition(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty condition")
	}
	p := &conditionParser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q in condition", p.tokens[p.pos].text)
	}
	return node, nil
}

func lexCondition(input string) ([]condToken, error) {
	var tokens []condToken
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(' || c == ')':
			tokens = append(tokens, condToken{kind: string(c), text: string(c)})
			i++
		case c == '$':
			ref, _, end, ok := scanReference(input, i)
			if !ok {
				return nil, fmt.Errorf("invalid reference at %q", input[i:])
			}
			tokens = append(tokens, condToken{kind: "ref", value: ref, text: input[i:end]})
			i = end
		case c == '"' || c == '\'':
			end := strings.IndexByte(input[i+1:], c)
			if end == -1 {
				return nil, fmt.Errorf("unterminated string literal")
			}
			tokens = append(tokens, condToken{kind: "lit", value: input[i+1 : i+1+end], text: input[i : i+2+end]})
			i += end + 2
		case isDigit(c) || (c == '-' && i+1 < len(input) && isDigit(input[i+1])):
			end := i + 1
			for end < len(input) && (isDigit(input[end]) || input[end] == '.') {
				end++
			}
			text := input[i:end]
			var val interface{}
			if strings.Contains(text, ".") {
				f, err := strconv.ParseFloat(text, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid number %q", text)
				}
				val = f
			} else {
				n, err := strconv.Atoi(text)
				if err != nil {
					return nil, fmt.Errorf("invalid number %q", text)
				}
				val = n
			}
			tokens = append(tokens, condToken{kind: "lit", value: val, text: text})
			i = end
		case strings.ContainsRune("=!<>&|", rune(c)):
			op := string(c)
			if i+1 < len(input) {
				two := input[i : i+2]
				switch two {
				case "==", "!=", "<=", ">=", "&&", "||":
					op = two
				}
			}
			if op == "=" || op == "&" || op == "|" {
				return nil, fmt.Errorf("invalid operator %q", op)
			}
			tokens = append(tokens, condToken{kind: "op", value: op, text: op})
			i += len(op)
		case isLetter(c):
			end := scanIdentifier(input, i)
			word := input[i:end]
			switch word {
			case "true":
				tokens = append(tokens, condToken{kind: "lit", value: true, text: word})
			case "false":
				tokens = append(tokens, condToken{kind: "lit", value: false, text: word})
			case "null":
				tokens = append(tokens, condToken{kind: "lit", value: nil, text: word})
			default:
				op, ok := wordOperators[word]
				if !ok {
					return nil, fmt.Errorf("unexpected word %q in condition", word)
				}
				tokens = append(tokens, condToken{kind: "op", value: op, text: word})
			}
			i = end
		default:
			return nil, fmt.Errorf("unexpected character %q in condition", c)
		}
	}
	return tokens, nil
}

type conditionParser struct {
	tokens []condToken
	pos    int
}

func (p *conditionParser) peekOp(ops ...string) (string, bool) {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != "op" {
		return "", false
	}
	op := p.tokens[p.pos].value.(string)
	for _, want := range ops {
		if op == want {
			return op, true
		}
	}
	return "", false
}

func (p *conditionParser) parseOr() (ExpressionNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.peekOp("||"); !ok {
			return left, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Left: left, Operator: "||", Right: right}
	}
}

func (p *conditionParser) parseAnd() (ExpressionNode, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.peekOp("&&"); !ok {
			return left, nil
		}
		p.pos++
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Left: left, Operator: "&&", Right: right}
	}
}

func (p *conditionParser) parseComparison() (ExpressionNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	op, ok := p.peekOp("==", "!=", "<", "<=", ">", ">=")
	if !ok {
		return left, nil
	}
	p.pos++
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &BinaryOpNode{Left: left, Operator: op, Right: right}, nil
}

func (p *conditionParser) parseUnary() (ExpressionNode, error) {
	if _, ok := p.peekOp("!"); ok {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *conditionParser) parsePrimary() (ExpressionNode, error) {
	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("unexpected end of condition")
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case "ref":
		return &ReferenceNode{Path: tok.value.(string)}, nil
	case "lit":
		return &LiteralNode{Value: tok.value}, nil
	case "(":
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != ")" {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return node, nil
	default:
		return nil, fmt.Errorf("unexpected %q in condition", tok.text)
	}
}
