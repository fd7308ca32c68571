package http

import (
	"fmt"
	neturl "net/url"
	"sort"
	"strconv"
)

// Values is request data. Nested maps and slices are flattened into
// bracketed keys, e.g. {"user": {"name": "x"}} becomes user[name]=x and
// {"ids": [1, 2]} becomes ids[0]=1&ids[1]=2.
type Values map[string]any

// Flatten returns the data as flat key/value pairs.
func (v Values) Flatten() neturl.Values {
	out := neturl.Values{}
	for _, k := range sortedKeys(v) {
		flatten(out, k, v[k])
	}
	return out
}

// Encode returns the data as application/x-www-form-urlencoded text.
func (v Values) Encode() string {
	return v.Flatten().Encode()
}

// Fields returns the flattened data as ordered key/value pairs.
func (v Values) Fields() []Field {
	flat := v.Flatten()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		for _, val := range flat[k] {
			fields = append(fields, Field{Name: k, Value: val})
		}
	}
	return fields
}

// Field is a single flattened form field.
type Field struct {
	Name  string
	Value string
}

func flatten(out neturl.Values, key string, value any) {
	switch val := value.(type) {
	case nil:
		// dropped, like an unset field
	case Values:
		flattenMap(out, key, val)
	case map[string]any:
		flattenMap(out, key, val)
	case map[string]string:
		for _, k := range sortedKeys(val) {
			out.Add(key+"["+k+"]", val[k])
		}
	case []any:
		for i, item := range val {
			flatten(out, key+"["+strconv.Itoa(i)+"]", item)
		}
	case []string:
		for i, item := range val {
			out.Add(key+"["+strconv.Itoa(i)+"]", item)
		}
	case string:
		out.Add(key, val)
	case bool:
		if val {
			out.Add(key, "1")
		} else {
			out.Add(key, "0")
		}
	default:
		out.Add(key, fmt.Sprint(val))
	}
}

func flattenMap(out neturl.Values, key string, m map[string]any) {
	for _, k := range sortedKeys(m) {
		flatten(out, key+"["+k+"]", m[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
