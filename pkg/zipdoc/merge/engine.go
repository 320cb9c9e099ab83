package merge

import (
	"io"
	"reflect"
)

// Context is the caller-owned variable mapping handed to an engine.
// Engines must treat it as read-only.
type Context map[string]interface{}

// Engine expands merge syntax in src using ctx and writes the result to dst.
// It performs no I/O beyond src and dst. Any merge-time fault is returned.
type Engine interface {
	Evaluate(ctx Context, src io.Reader, dst io.Writer) error
}

// Filter transforms a resolved value before it is substituted into the output.
type Filter func(value interface{}) interface{}

// FilterRegistrar is implemented by engines that accept output filters keyed by value type.
type FilterRegistrar interface {
	RegisterFilter(t reflect.Type, f Filter)
}

// EngineFunc adapts an ordinary function to the Engine interface.
type EngineFunc func(ctx Context, src io.Reader, dst io.Writer) error

// Evaluate calls f(ctx, src, dst).
func (f EngineFunc) Evaluate(ctx Context, src io.Reader, dst io.Writer) error {
	return f(ctx, src, dst)
}

// StringType is the reflect.Type of string, the usual key for escaping filters.
var StringType = reflect.TypeOf("")
