package handler

import "github.com/tidwall/gjson"

// DefaultMarker is the field whose presence marks a decoded payload as failed.
const DefaultMarker = "Message"

// DecodeClassifier labels responses by whether they could be decoded.
//
// The decode filters leave the body untouched when it does not parse, so an
// untouched body means errored. A decoded payload carrying the marker field
// is failed. Everything else is successful.
type DecodeClassifier struct {
	State
	Marker string
}

func newDecode(marker string, decode FilterFunc) *DecodeClassifier {
	if marker == "" {
		marker = DefaultMarker
	}
	c := &DecodeClassifier{Marker: marker}
	c.Filter(decode)
	return c
}

// NewJSON decodes the body as JSON.
func NewJSON(marker string) *DecodeClassifier {
	return newDecode(marker, JSON)
}

// NewXML decodes the body into an XMLNode tree.
func NewXML(marker string) *DecodeClassifier {
	return newDecode(marker, XML)
}

// NewYAML decodes the body as a YAML mapping or sequence.
func NewYAML(marker string) *DecodeClassifier {
	return newDecode(marker, YAML)
}

func (c *DecodeClassifier) WasErrored() bool {
	return c.Untouched()
}

func (c *DecodeClassifier) WasFailed() bool {
	if c.WasErrored() {
		return false
	}
	return HasField(c.filtered, c.Marker)
}

func (c *DecodeClassifier) WasSuccessful() bool {
	return !c.WasErrored() && !c.WasFailed()
}

// HasField reports whether a decoded payload has a top level field called name.
func HasField(v any, name string) bool {
	switch val := v.(type) {
	case map[string]any:
		_, ok := val[name]
		return ok
	case map[any]any:
		_, ok := val[name]
		return ok
	case *XMLNode:
		return val != nil && val.Has(name)
	case string:
		return jsonHasKey(gjson.Parse(val), val, name)
	case []byte:
		return jsonHasKey(gjson.ParseBytes(val), string(val), name)
	default:
		return false
	}
}

func jsonHasKey(res gjson.Result, raw, name string) bool {
	if !gjson.Valid(raw) || !res.IsObject() {
		return false
	}
	_, ok := res.Map()[name]
	return ok
}
