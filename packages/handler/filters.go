package handler

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// text returns the value as a string if it is still an undecoded body.
func text(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

// JSON decodes a string body into generic Go values. Bodies that are not
// valid JSON pass through untouched.
func JSON(value any, _ ...any) (Result, error) {
	body, ok := text(value)
	if !ok {
		return Continue(value), nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return Continue(value), nil
	}
	return Continue(decoded), nil
}

// JSONAs returns a filter decoding the body into a *T. Bodies that do not
// decode pass through untouched.
func JSONAs[T any]() FilterFunc {
	return func(value any, _ ...any) (Result, error) {
		body, ok := text(value)
		if !ok {
			return Continue(value), nil
		}

		out := new(T)
		if err := json.Unmarshal([]byte(body), out); err != nil {
			return Continue(value), nil
		}
		return Continue(out), nil
	}
}

// XML decodes a string body into an *XMLNode tree. Bodies that are not
// well-formed XML pass through untouched.
func XML(value any, _ ...any) (Result, error) {
	body, ok := text(value)
	if !ok {
		return Continue(value), nil
	}

	node := &XMLNode{}
	if err := xml.Unmarshal([]byte(body), node); err != nil {
		return Continue(value), nil
	}
	return Continue(node), nil
}

// YAML decodes a string body holding a YAML mapping or sequence. Any plain
// text is a valid YAML scalar, so scalars pass through untouched.
func YAML(value any, _ ...any) (Result, error) {
	body, ok := text(value)
	if !ok {
		return Continue(value), nil
	}

	var decoded any
	if err := yaml.Unmarshal([]byte(body), &decoded); err != nil {
		return Continue(value), nil
	}

	switch decoded.(type) {
	case map[string]any, map[any]any, []any:
		return Continue(decoded), nil
	default:
		return Continue(value), nil
	}
}

// Select narrows a JSON body to the value at a gjson path, bound as the
// first argument:
//
//	c.Filter(handler.Select, "data.items")
//
// Decoded values are re-encoded before the lookup. A missing path leaves
// the value untouched.
func Select(value any, args ...any) (Result, error) {
	path, err := stringArg(args, 0, "path")
	if err != nil {
		return Result{}, err
	}

	body, ok := text(value)
	if !ok {
		data, err := json.Marshal(value)
		if err != nil {
			return Continue(value), nil
		}
		body = string(data)
	}
	if !gjson.Valid(body) {
		return Continue(value), nil
	}

	res := gjson.Get(body, path)
	if !res.Exists() {
		return Continue(value), nil
	}
	return Continue(res.Value()), nil
}

// Schema validates the value against a JSON schema bound as the first
// argument. A value that does not validate aborts the chain, which leaves
// the filtered response as it was before this filter ran.
func Schema(value any, args ...any) (Result, error) {
	schema, err := stringArg(args, 0, "schema")
	if err != nil {
		return Result{}, err
	}

	var doc gojsonschema.JSONLoader
	if body, ok := text(value); ok {
		if !gjson.Valid(body) {
			return Abort(), nil
		}
		doc = gojsonschema.NewStringLoader(body)
	} else {
		doc = gojsonschema.NewGoLoader(value)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), doc)
	if err != nil {
		return Result{}, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		return Abort(), nil
	}
	return Continue(value), nil
}

// TrimSpace trims surrounding whitespace from string values.
var TrimSpace = Map(func(value any, _ ...any) any {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return value
})

func stringArg(args []any, i int, name string) (string, error) {
	if len(args) <= i {
		return "", fmt.Errorf("missing %s argument", name)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s argument must be a string, got %T", name, args[i])
	}
	return s, nil
}
