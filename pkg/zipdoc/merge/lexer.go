package merge

import (
	"strings"
)

// TokenType represents the type of a template token
type TokenType int

const (
	TokenText TokenType = iota
	TokenReference
	TokenIf
	TokenElseIf
	TokenElse
	TokenEnd
	TokenForeach
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "text"
	case TokenReference:
		return "reference"
	case TokenIf:
		return "#if"
	case TokenElseIf:
		return "#elseif"
	case TokenElse:
		return "#else"
	case TokenEnd:
		return "#end"
	case TokenForeach:
		return "#foreach"
	default:
		return "unknown"
	}
}

// Token represents a lexed template token
type Token struct {
	Type TokenType
	// Value is the text, the dotted reference path, or the directive argument.
	Value string
	// Raw is the source text of the token, emitted verbatim for unresolved references.
	Raw   string
	Quiet bool
	Pos   int
}

type lexer struct {
	name   string
	input  string
	pos    int
	text   strings.Builder
	tokens []Token
}

// Tokenize splits merge source text into tokens
func Tokenize(input string) ([]Token, error) {
	return tokenize("", input)
}

func tokenize(name, input string) ([]Token, error) {
	l := &lexer{name: name, input: input}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) run() error {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.input) && (l.input[l.pos+1] == '$' || l.input[l.pos+1] == '#'):
			l.text.WriteByte(l.input[l.pos+1])
			l.pos += 2
		case c == '#':
			if err := l.lexHash(); err != nil {
				return err
			}
		case c == '$':
			l.lexReference()
		default:
			l.text.WriteByte(c)
			l.pos++
		}
	}
	l.flushText()
	return nil
}

func (l *lexer) flushText() {
	if l.text.Len() == 0 {
		return
	}
	l.tokens = append(l.tokens, Token{Type: TokenText, Value: l.text.String(), Raw: l.text.String()})
	l.text.Reset()
}

func (l *lexer) emit(tok Token) {
	l.flushText()
	l.tokens = append(l.tokens, tok)
}

func (l *lexer) errorf(pos int, msg string) error {
	line, col := lineColumn(l.input, pos)
	return &SyntaxError{Template: l.name, Message: msg, Line: line, Column: col}
}

// lexHash handles comments and directives. Unknown directives are plain text.
func (l *lexer) lexHash() error {
	start := l.pos
	rest := l.input[l.pos+1:]

	if strings.HasPrefix(rest, "#") {
		end := strings.IndexByte(l.input[start:], '\n')
		if end == -1 {
			l.pos = len(l.input)
		} else {
			l.pos = start + end + 1
		}
		return nil
	}

	if strings.HasPrefix(rest, "*") {
		end := strings.Index(l.input[start+2:], "*#")
		if end == -1 {
			return l.errorf(start, "unterminated block comment")
		}
		l.pos = start + 2 + end + 2
		return nil
	}

	name, next := l.directiveName(start + 1)
	var typ TokenType
	switch name {
	case "if":
		typ = TokenIf
	case "elseif":
		typ = TokenElseIf
	case "foreach":
		typ = TokenForeach
	case "else":
		l.emit(Token{Type: TokenElse, Raw: l.input[start:next], Pos: start})
		l.pos = next
		return nil
	case "end":
		l.emit(Token{Type: TokenEnd, Raw: l.input[start:next], Pos: start})
		l.pos = next
		return nil
	default:
		l.text.WriteByte('#')
		l.pos++
		return nil
	}

	open := next
	for open < len(l.input) && (l.input[open] == ' ' || l.input[open] == '\t') {
		open++
	}
	if open >= len(l.input) || l.input[open] != '(' {
		return l.errorf(start, "expected '(' after #"+name)
	}
	closeIdx, err := l.matchParen(open)
	if err != nil {
		return err
	}
	l.emit(Token{
		Type:  typ,
		Value: strings.TrimSpace(l.input[open+1 : closeIdx]),
		Raw:   l.input[start : closeIdx+1],
		Pos:   start,
	})
	l.pos = closeIdx + 1
	return nil
}

// directiveName reads "name" or "{name}" starting at pos and returns it with the index after it.
func (l *lexer) directiveName(pos int) (string, int) {
	if pos < len(l.input) && l.input[pos] == '{' {
		end := strings.IndexByte(l.input[pos:], '}')
		if end == -1 {
			return "", pos
		}
		return l.input[pos+1 : pos+end], pos + end + 1
	}
	end := pos
	for end < len(l.input) && isLetter(l.input[end]) {
		end++
	}
	return l.input[pos:end], end
}

// matchParen returns the index of the parenthesis closing the one at open, skipping quoted strings.
func (l *lexer) matchParen(open int) (int, error) {
	depth := 0
	var quote byte
	for i := open; i < len(l.input); i++ {
		c := l.input[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, l.errorf(open, "unbalanced parentheses in directive")
}

// lexReference reads $name, $!name, ${name}, $!{name} with dotted paths.
// Anything else starting with '$' is text.
func (l *lexer) lexReference() {
	start := l.pos
	ref, quiet, end, ok := scanReference(l.input, start)
	if !ok {
		l.text.WriteByte('$')
		l.pos++
		return
	}
	l.emit(Token{Type: TokenReference, Value: ref, Raw: l.input[start:end], Quiet: quiet, Pos: start})
	l.pos = end
}

// scanReference parses a reference at input[start] == '$'.
func scanReference(input string, start int) (ref string, quiet bool, end int, ok bool) {
	if start >= len(input) || input[start] != '$' {
		return "", false, 0, false
	}
	i := start + 1
	if i < len(input) && input[i] == '!' {
		quiet = true
		i++
	}
	braced := false
	if i < len(input) && input[i] == '{' {
		braced = true
		i++
	}

	identEnd := scanIdentifier(input, i)
	if identEnd == i {
		return "", false, 0, false
	}
	pathStart := i
	i = identEnd

	for i+1 < len(input) && input[i] == '.' && isLetter(input[i+1]) {
		i = scanIdentifier(input, i+1)
	}
	ref = input[pathStart:i]

	if braced {
		if i >= len(input) || input[i] != '}' {
			return "", false, 0, false
		}
		i++
	}
	return ref, quiet, i, true
}

func scanIdentifier(input string, i int) int {
	if i >= len(input) || !isLetter(input[i]) {
		return i
	}
	for i < len(input) && (isLetter(input[i]) || isDigit(input[i]) || input[i] == '_') {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lineColumn(input string, pos int) (int, int) {
	if pos > len(input) {
		pos = len(input)
	}
	line := 1 + strings.Count(input[:pos], "\n")
	col := pos - strings.LastIndex(input[:pos], "\n")
	return line, col
}
