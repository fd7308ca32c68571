package handler

import (
	"fmt"
	"sort"
)

var constructors = map[string]func(marker string) Classifier{
	"status":      func(string) Classifier { return NewStatus() },
	"json":        func(m string) Classifier { return NewJSON(m) },
	"xml":         func(m string) Classifier { return NewXML(m) },
	"yaml":        func(m string) Classifier { return NewYAML(m) },
	"hybrid-json": func(string) Classifier { return NewHybridJSON() },
	"hybrid-xml":  func(string) Classifier { return NewHybridXML() },
}

// Kinds lists the names accepted by ByName.
func Kinds() []string {
	kinds := make([]string, 0, len(constructors))
	for k := range constructors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// ByName builds a built-in classifier. marker only applies to the decode
// classifiers; an empty marker means DefaultMarker.
func ByName(kind, marker string) (Classifier, error) {
	ctor, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownClassifier, kind, Kinds())
	}
	return ctor(marker), nil
}
