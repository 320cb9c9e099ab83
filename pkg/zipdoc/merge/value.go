package merge

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Lookup resolves a dotted reference path such as "customer.address.city" against ctx.
// The second result is false when any segment is missing or nil.
func Lookup(ctx Context, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	current, ok := ctx[parts[0]]
	if !ok || current == nil {
		return nil, false
	}
	for _, part := range parts[1:] {
		current, ok = accessField(current, part)
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// accessField resolves one path segment on maps, structs, and zero-argument getters.
func accessField(current interface{}, field string) (interface{}, bool) {
	switch v := current.(type) {
	case Context:
		val, ok := v[field]
		return val, ok
	case map[string]interface{}:
		val, ok := v[field]
		return val, ok
	case map[string]string:
		val, ok := v[field]
		return val, ok
	}

	rv := reflect.ValueOf(current)
	if val, ok := callGetter(rv, field); ok {
		return val, true
	}
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(field).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Struct:
		for _, name := range []string{field, exported(field)} {
			f := rv.FieldByName(name)
			if f.IsValid() && f.CanInterface() {
				return f.Interface(), true
			}
		}
	}
	return nil, false
}

// callGetter tries Field() then GetField() as zero-argument methods.
func callGetter(rv reflect.Value, field string) (interface{}, bool) {
	if !rv.IsValid() {
		return nil, false
	}
	for _, name := range []string{exported(field), "Get" + exported(field)} {
		m := rv.MethodByName(name)
		if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() == 0 {
			continue
		}
		return m.Call(nil)[0].Interface(), true
	}
	return nil, false
}

func exported(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// FormatValue converts a value to its string representation
func FormatValue(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', 10, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', 15, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isTruthy(val interface{}) bool {
	if val == nil {
		return false
	}

	switch v := val.(type) {
	case bool:
		return v
	case int, int8, int16, int32, int64:
		return v != 0
	case uint, uint8, uint16, uint32, uint64:
		return v != 0
	case float32, float64:
		return v != 0.0
	case string:
		return v != ""
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

func toFloat64(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// toSlice converts a collection to a slice for #foreach. Maps iterate their
// values in key order. nil iterates zero times.
func toSlice(val interface{}) ([]interface{}, error) {
	if val == nil {
		return nil, nil
	}

	switch v := val.(type) {
	case []interface{}:
		return v, nil
	case string:
		return nil, fmt.Errorf("type %T is not iterable", val)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		result := make([]interface{}, rv.Len())
		for i := range result {
			result[i] = rv.Index(i).Interface()
		}
		return result, nil
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return FormatValue(keys[i].Interface()) < FormatValue(keys[j].Interface())
		})
		result := make([]interface{}, len(keys))
		for i, k := range keys {
			result[i] = rv.MapIndex(k).Interface()
		}
		return result, nil
	default:
		return nil, fmt.Errorf("type %T is not iterable", val)
	}
}
