// Package analyzer infers a RAML type tree from the shape of a plain JSON
// value. Nothing is declared in the input, so every type comes from the
// runtime kind of the value.
package analyzer

import (
	stderrors "errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mcncl/json2raml/internal/models"
)

// RAML type names the analyzer can infer.
const (
	TypeAny     = "any"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// OptionalMarker is appended to a property label whose sample value is null.
const OptionalMarker = "?"

// Analyzer walks a JSON value and records the RAML lines describing it.
type Analyzer struct {
	analysisResult models.AnalysisResult
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns the type lines for the root of ir, depth-first and in
// source key order.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation) (models.AnalysisResult, error) {
	a.analysisResult = models.AnalysisResult{}
	if err := a.analyzeNode(ir.Root, 0); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to analyze root node: %w", err)
	}
	return a.analysisResult, nil
}

// analyzeNode emits the type of node at depth and recurses into its children.
func (a *Analyzer) analyzeNode(node models.JSONValue, depth int) error {
	switch v := node.(type) {
	case nil:
		a.emitType(depth, TypeAny)
		return nil
	case models.JSONArray:
		return a.analyzeArray(v, depth)
	case *models.JSONObject:
		return a.analyzeObject(v, depth)
	case bool, string, json.Number:
		a.emitType(depth, ScalarType(v))
		return nil
	default:
		return fmt.Errorf("unexpected json value type: %T", v)
	}
}

// analyzeArray describes the element type from the first element only;
// later elements never widen it.
func (a *Analyzer) analyzeArray(arr models.JSONArray, depth int) error {
	a.emitType(depth, TypeArray)
	a.analysisResult.Add(depth, "items:")
	if len(arr) == 0 {
		a.emitType(depth+1, TypeAny)
		return nil
	}
	return a.analyzeNode(arr[0], depth+1)
}

func (a *Analyzer) analyzeObject(obj *models.JSONObject, depth int) error {
	a.emitType(depth, TypeObject)
	a.analysisResult.Add(depth, "properties:")
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		a.analysisResult.Add(depth+1, PropertyLabel(key, value == nil)+":")
		if err := a.analyzeNode(value, depth+2); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
	}
	return nil
}

func (a *Analyzer) emitType(depth int, typeName string) {
	a.analysisResult.Add(depth, "type: "+typeName)
}

// PropertyLabel returns the label written for key. Optional properties get
// the trailing "?" marker; keys following the XML attribute convention
// ("@id") are quoted.
func PropertyLabel(key string, optional bool) string {
	if optional {
		key += OptionalMarker
	}
	if strings.HasPrefix(key, "@") {
		return strconv.Quote(key)
	}
	return key
}

// ScalarType maps a JSON scalar to its RAML type. Whole numbers are
// integers; every other number is a number.
func ScalarType(v models.JSONValue) string {
	switch s := v.(type) {
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case json.Number:
		if IsWholeNumber(s) {
			return TypeInteger
		}
		return TypeNumber
	case nil:
		return TypeAny
	default:
		return TypeAny
	}
}

// IsWholeNumber reports whether num has no fractional part once read as a
// float64, so "1.0" and "1e2" count as integers. Overflowing values do not.
func IsWholeNumber(num json.Number) bool {
	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}
	return f == math.Trunc(f)
}
