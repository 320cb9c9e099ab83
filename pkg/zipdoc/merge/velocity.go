package merge

import (
	"io"
	"reflect"
	"strings"
	"sync"
)

// VelocityEngine is a merge engine for a Velocity-style template language:
//
//	$name ${name} $!name $customer.address.city
//	#if($x == "a")...#elseif($y)...#else...#end
//	#foreach($item in $items)...$foreachCount...#end
//	## line comment   #* block comment *#   \$ and \# escapes
//
// Unresolved references render as written ($missing stays "$missing"); quiet
// references ($!missing) render as nothing. It is safe for concurrent use.
type VelocityEngine struct {
	name    string
	mu      sync.RWMutex
	filters filterSet
}

var (
	_ Engine          = (*VelocityEngine)(nil)
	_ FilterRegistrar = (*VelocityEngine)(nil)
)

// NewVelocityEngine creates an engine. name appears in syntax errors.
func NewVelocityEngine(name string) *VelocityEngine {
	return &VelocityEngine{
		name:    name,
		filters: make(filterSet),
	}
}

// NewXMLVelocityEngine creates an engine that XML-escapes every substituted string.
func NewXMLVelocityEngine(name string) *VelocityEngine {
	e := NewVelocityEngine(name)
	e.RegisterFilter(StringType, XMLStringFilter)
	return e
}

// Name returns the engine name.
func (e *VelocityEngine) Name() string {
	return e.name
}

// RegisterFilter applies f to every substituted value whose dynamic type is t.
// A later registration for the same type replaces the earlier one.
func (e *VelocityEngine) RegisterFilter(t reflect.Type, f Filter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// copy-on-write so running evaluations keep their snapshot
	next := make(filterSet, len(e.filters)+1)
	for k, v := range e.filters {
		next[k] = v
	}
	if f == nil {
		delete(next, t)
	} else {
		next[t] = f
	}
	e.filters = next
}

// Evaluate reads all of src, expands it with ctx and writes the result to dst.
// Nothing is written to dst when parsing or evaluation fails.
func (e *VelocityEngine) Evaluate(ctx Context, src io.Reader, dst io.Writer) error {
	source, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	nodes, err := Parse(e.name, string(source))
	if err != nil {
		return err
	}

	e.mu.RLock()
	env := &renderEnv{filters: e.filters}
	e.mu.RUnlock()

	var out strings.Builder
	out.Grow(len(source))
	if err := renderBody(&out, nodes, ctx, env); err != nil {
		return err
	}

	_, err = io.WriteString(dst, out.String())
	return err
}
