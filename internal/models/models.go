package models

import (
	"bytes"
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// JSONValue is a generic type to represent any JSON value.
// This can be nil, bool, string, json.Number, JSONArray or *JSONObject.
type JSONValue interface{}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// JSONObject represents a JSON object whose keys keep the order in which
// they appeared in the source document.
type JSONObject struct {
	keys   []string
	values map[string]JSONValue
}

// NewJSONObject creates an empty ordered object.
func NewJSONObject() *JSONObject {
	return &JSONObject{values: make(map[string]JSONValue)}
}

// Set stores value under key. A key that is already present keeps its
// original position and takes the new value.
func (o *JSONObject) Set(key string, value JSONValue) {
	if o.values == nil {
		o.values = make(map[string]JSONValue)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *JSONObject) Get(key string) (JSONValue, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *JSONObject) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (o *JSONObject) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len returns the number of keys.
func (o *JSONObject) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON writes the object with its keys in insertion order.
func (o *JSONObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalUnescaped(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshalUnescaped(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalUnescaped encodes v without HTML escaping and without the
// trailing newline the encoder appends.
func marshalUnescaped(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FormatNumber writes num the way a JavaScript Number prints: the shortest
// digits that read back as the same float64, plain notation for magnitudes
// in [1e-7, 1e21) and exponent notation ("1e+21", "1.5e-8") outside it.
// So "1.0" becomes "1" and "-0" becomes "0". finite is false when num
// overflows a float64, in which case text is "Infinity" or "-Infinity".
func FormatNumber(num json.Number) (text string, finite bool) {
	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return string(num), true
	}
	switch {
	case math.IsInf(f, 1):
		return "Infinity", false
	case math.IsInf(f, -1):
		return "-Infinity", false
	case f == 0:
		return "0", true
	}

	if abs := math.Abs(f); abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0"), true
}

// NormalizeNumbers returns a copy of v with every number rewritten by
// FormatNumber. Numbers too large for a float64 become null, as they do in
// JSON.stringify.
func NormalizeNumbers(v JSONValue) JSONValue {
	switch t := v.(type) {
	case json.Number:
		text, finite := FormatNumber(t)
		if !finite {
			return nil
		}
		return json.Number(text)
	case JSONArray:
		out := make(JSONArray, len(t))
		for i, member := range t {
			out[i] = NormalizeNumbers(member)
		}
		return out
	case *JSONObject:
		out := NewJSONObject()
		for _, key := range t.Keys() {
			value, _ := t.Get(key)
			out.Set(key, NormalizeNumbers(value))
		}
		return out
	default:
		return v
	}
}

// IntermediateRepresentation holds the parsed JSON document.
type IntermediateRepresentation struct {
	Root JSONValue
}

// Line is one line of RAML output before indentation is applied.
type Line struct {
	Depth int
	Text  string
}

// AnalysisResult is the flat line sequence a converter produced for one
// type tree.
type AnalysisResult struct {
	Lines []Line
}

// Add appends a line at the given depth.
func (r *AnalysisResult) Add(depth int, text string) {
	r.Lines = append(r.Lines, Line{Depth: depth, Text: text})
}
