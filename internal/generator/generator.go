package generator

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mcncl/json2raml/internal/formatter"
	"github.com/mcncl/json2raml/internal/models"
)

// Header is the first line of every generated document.
const Header = "#%RAML 1.0 DataType"

// Generator assembles RAML DataType documents from converter output
type Generator struct {
	formatter *formatter.Formatter
}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return &Generator{formatter: formatter.NewFormatter()}
}

// Options controls the optional parts of a generated document.
type Options struct {
	// Example is the source value written after "example: ".
	Example models.JSONValue
	// IncludeExample enables the example block; a nil Example is a JSON null.
	IncludeExample bool
}

// Generate writes the header, a blank line, the type lines and, when
// requested, a blank line followed by "example: " and the pretty-printed
// source value with its numbers normalized.
func (g *Generator) Generate(result models.AnalysisResult, opts Options) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(Header + "\n\n")
	buf.WriteString(g.formatter.Format(result.Lines))

	if opts.IncludeExample {
		example, err := PrettyJSON(models.NormalizeNumbers(opts.Example))
		if err != nil {
			return "", fmt.Errorf("failed to serialize example: %w", err)
		}
		buf.WriteString("\n")
		buf.WriteString("example: " + example)
	}

	return buf.String(), nil
}

// PrettyJSON serializes v with two-space indentation, source key order and
// no HTML escaping.
func PrettyJSON(v models.JSONValue) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
