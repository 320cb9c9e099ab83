package merge

import (
	"reflect"
	"strings"
)

// filterSet is an immutable snapshot of registered filters.
type filterSet map[reflect.Type]Filter

func (fs filterSet) apply(value interface{}) interface{} {
	if len(fs) == 0 || value == nil {
		return value
	}
	if f, ok := fs[reflect.TypeOf(value)]; ok {
		return f(value)
	}
	return value
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// XMLStringFilter escapes XML special characters in string values so
// substituted text cannot break the surrounding markup.
func XMLStringFilter(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return value
	}
	return xmlEscaper.Replace(s)
}
