package schema

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/mcncl/json2raml/internal/models"
)

// Converter renders a parsed JSON Schema tree as RAML type lines
type Converter struct {
	schema *Schema
	result models.AnalysisResult
}

// NewConverter creates a new schema converter
func NewConverter(schema *Schema) *Converter {
	return &Converter{schema: schema}
}

// Convert renders the whole document. The root is treated as its own
// parent and has no property name: an array root writes no required flag,
// any other root is written as not required.
func (c *Converter) Convert() (models.AnalysisResult, error) {
	c.result = models.AnalysisResult{}
	if c.schema == nil {
		return models.AnalysisResult{}, fmt.Errorf("no schema to convert")
	}
	if err := c.render("", false, c.schema, 0, c.schema.RequiredSet(), c.schema); err != nil {
		return models.AnalysisResult{}, err
	}
	return c.result, nil
}

func (c *Converter) render(name string, named bool, node *Schema, depth int, parentRequired map[string]struct{}, parent *Schema) error {
	switch {
	case node.IsObject():
		c.result.Add(depth, "type: object")
		c.result.Add(depth, "properties:")
		if err := c.renderFacets(node, depth+1); err != nil {
			return err
		}
		required := node.RequiredSet()
		for _, property := range node.Properties {
			c.result.Add(depth+1, property.Name+":")
			if err := c.render(property.Name, true, property.Schema, depth+2, required, node); err != nil {
				return err
			}
		}
	case node.IsArray():
		c.result.Add(depth, "type: array")
		if err := c.renderFacets(node, depth); err != nil {
			return err
		}
		c.result.Add(depth, "items:")
		if node.Items == nil {
			c.result.Add(depth+1, "type: any")
		} else if err := c.render("", false, node.Items, depth+1, node.RequiredSet(), node); err != nil {
			return err
		}
	default:
		c.result.Add(depth, "type: "+node.Type.RAML())
		if err := c.renderFacets(node, depth); err != nil {
			return err
		}
	}

	// Array items have no required-ness; RAML defaults every property to
	// required, so only the optional case is written. An unnamed node is
	// never in its parent's required set.
	if parent.IsArray() {
		return nil
	}
	if _, ok := parentRequired[name]; !ok || !named {
		c.result.Add(depth, "required: false")
	}
	return nil
}

// renderFacets writes the rule keywords present on node, then its enum.
func (c *Converter) renderFacets(node *Schema, depth int) error {
	for _, rule := range node.Rules {
		value, err := FormatValue(rule.Value)
		if err != nil {
			return fmt.Errorf("node %s: %s: %w", displayPointer(node.Pointer), rule.Keyword, err)
		}
		c.result.Add(depth, rule.Keyword+": "+value)
	}
	if !node.HasEnum {
		return nil
	}
	c.result.Add(depth, "enum:")
	for _, member := range node.Enum {
		value, err := FormatValue(member)
		if err != nil {
			return fmt.Errorf("node %s: enum: %w", displayPointer(node.Pointer), err)
		}
		c.result.Add(depth+1, "- "+value)
	}
	return nil
}

// FormatValue renders a keyword or enum value the way it appears after
// "key: " in RAML. Scalars are written as-is, numbers normalized by
// models.FormatNumber; containers as compact JSON.
func FormatValue(v models.JSONValue) (string, error) {
	switch s := v.(type) {
	case nil:
		return "null", nil
	case bool:
		if s {
			return "true", nil
		}
		return "false", nil
	case string:
		return s, nil
	case json.Number:
		text, _ := models.FormatNumber(s)
		return text, nil
	default:
		data, err := json.Marshal(models.NormalizeNumbers(s))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
