// Package jsonenc holds the shared json-iterator configuration. Map keys
// are sorted so repeated conversions of the same input produce
// byte-identical index documents.
package jsonenc

import (
	jsoniter "github.com/json-iterator/go"
)

var JSON = jsoniter.Config{
	EscapeHTML:              false,
	MarshalFloatWith6Digits: false,
	UseNumber:               true,
	CaseSensitive:           true,
	SortMapKeys:             true,
}.Froze()
