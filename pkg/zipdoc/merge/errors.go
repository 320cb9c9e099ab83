package merge

import "fmt"

// SyntaxError represents a malformed directive or reference in the source text
type SyntaxError struct {
	Template string
	Message  string
	Line     int
	Column   int
}

func (e *SyntaxError) Error() string {
	prefix := "syntax error"
	if e.Template != "" {
		prefix = fmt.Sprintf("%s: syntax error", e.Template)
	}
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("%s at line %d, column %d: %s", prefix, e.Line, e.Column, e.Message)
	} else if e.Line > 0 {
		return fmt.Sprintf("%s at line %d: %s", prefix, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// EvaluationError represents an error during expression evaluation
type EvaluationError struct {
	Expression string
	Cause      error
}

func (e *EvaluationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation error for expression '%s': %v", e.Expression, e.Cause)
	}
	return fmt.Sprintf("evaluation error for expression '%s'", e.Expression)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// NewEvaluationError creates a new evaluation error
func NewEvaluationError(expression string, cause error) error {
	return &EvaluationError{
		Expression: expression,
		Cause:      cause,
	}
}
