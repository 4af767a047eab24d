// Package converter selects and runs the JSON or JSON Schema conversion
// for a source document.
package converter

import (
	stderrors "errors"
	"strings"

	"github.com/mcncl/json2raml/internal/analyzer"
	"github.com/mcncl/json2raml/internal/config"
	"github.com/mcncl/json2raml/internal/errors"
	"github.com/mcncl/json2raml/internal/generator"
	"github.com/mcncl/json2raml/internal/models"
	"github.com/mcncl/json2raml/internal/parser"
	"github.com/mcncl/json2raml/internal/schema"
)

// Mode names the converter chosen for a document.
type Mode string

const (
	ModeValue  Mode = "value"
	ModeSchema Mode = "schema"
)

// Options controls the Value Converter.
type Options struct {
	IncludeSourceAsExample bool
}

// SelectConverter picks the Schema Converter for a top-level object
// carrying the "$schema" marker. In strict detection the object must also
// declare "type" or "properties"; otherwise it is converted as a value.
func SelectConverter(v models.JSONValue, detection config.Detection) Mode {
	obj, ok := v.(*models.JSONObject)
	if !ok || !obj.Has(schema.MarkerKeyword) {
		return ModeValue
	}
	if detection == config.DetectionMarker {
		return ModeSchema
	}
	if obj.Has("type") || obj.Has("properties") {
		return ModeSchema
	}
	return ModeValue
}

// ConvertJSONToRAML infers a RAML DataType from the shape of v.
func ConvertJSONToRAML(v models.JSONValue, opts Options) (string, error) {
	result, err := analyzer.NewAnalyzer().Analyze(models.IntermediateRepresentation{Root: v})
	if err != nil {
		return "", errors.NewConversionError("failed to infer RAML types", err)
	}

	raml, err := generator.NewGenerator().Generate(result, generator.Options{
		Example:        v,
		IncludeExample: opts.IncludeSourceAsExample,
	})
	if err != nil {
		return "", errors.NewConversionError("failed to generate RAML", err)
	}
	return raml, nil
}

// ConvertJSONSchemaToRAML translates the JSON Schema document v.
func ConvertJSONSchemaToRAML(v models.JSONValue) (string, error) {
	root, err := schema.ParseValue(v)
	if err != nil {
		return "", err
	}

	result, err := schema.NewConverter(root).Convert()
	if err != nil {
		return "", errors.NewSchemaError("failed to convert schema", err)
	}

	raml, err := generator.NewGenerator().Generate(result, generator.Options{})
	if err != nil {
		return "", errors.NewConversionError("failed to generate RAML", err)
	}
	return raml, nil
}

// Result is the outcome of converting one source text.
type Result struct {
	RAML string
	Mode Mode
	// Skipped is set when the source was blank and nothing was converted.
	Skipped bool
}

// Converter runs whole-document conversions with a fixed configuration
type Converter struct {
	config *config.Config
}

// NewConverter creates a Converter using the default configuration.
func NewConverter() *Converter {
	return &Converter{config: config.NewConfig()}
}

// NewConverterWithConfig creates a Converter with custom configuration.
func NewConverterWithConfig(cfg *config.Config) *Converter {
	return &Converter{config: cfg}
}

// Convert parses text and converts it with the selected converter. Blank
// text is not an error: the result is marked Skipped and holds no RAML.
func (c *Converter) Convert(text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Skipped: true}, nil
	}

	ir, err := parser.ParseBytes([]byte(text), c.parserOptions())
	if err != nil {
		// Comment stripping can leave nothing behind
		if stderrors.Is(err, errors.ErrEmptyInput) {
			return Result{Skipped: true}, nil
		}
		return Result{}, err
	}

	mode := SelectConverter(ir.Root, c.config.Detection)
	var raml string
	switch mode {
	case ModeSchema:
		raml, err = ConvertJSONSchemaToRAML(ir.Root)
	default:
		raml, err = ConvertJSONToRAML(ir.Root, Options{IncludeSourceAsExample: c.config.IncludeSourceAsExample})
	}
	if err != nil {
		return Result{}, err
	}
	return Result{RAML: raml, Mode: mode}, nil
}

// Convertible reports whether text is a single JSON document that a
// conversion can be offered for.
func (c *Converter) Convertible(text string) bool {
	return parser.Valid(text, c.parserOptions())
}

func (c *Converter) parserOptions() parser.Options {
	return parser.Options{AllowComments: c.config.Input.AllowComments}
}
