// Package schema converts a JSON Schema document into RAML type lines
package schema

import (
	"fmt"
	"strings"

	"github.com/mcncl/json2raml/internal/errors"
	"github.com/mcncl/json2raml/internal/models"
)

// MarkerKeyword is the property that identifies a JSON Schema document.
const MarkerKeyword = "$schema"

// RuleKeywords lists the validation keywords passed through to RAML, in
// the order they are written.
var RuleKeywords = []string{
	"minimum",
	"maximum",
	"minLength",
	"maxLength",
	"pattern",
	"uniqueItems",
	"minItems",
	"maxItems",
}

// CompositionKeywords cannot be expressed by the converter and are rejected.
var CompositionKeywords = []string{"oneOf", "anyOf", "allOf", "$ref"}

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// Is reports whether the type is exactly the single type name.
func (st SchemaType) Is(name string) bool {
	return len(st.Types) == 1 && st.Types[0] == name
}

// RAML returns the RAML spelling of the type. A single name passes
// through unchanged; a list becomes a union with "null" written as "nil".
func (st SchemaType) RAML() string {
	if len(st.Types) == 1 {
		return st.Types[0]
	}
	members := make([]string, len(st.Types))
	for i, t := range st.Types {
		if t == "null" {
			t = "nil"
		}
		members[i] = t
	}
	return strings.Join(members, " | ")
}

// Property is one entry of an object schema's properties, in source order.
type Property struct {
	Name   string
	Schema *Schema
}

// Rule is a validation keyword present on a schema node.
type Rule struct {
	Keyword string
	Value   models.JSONValue
}

// Schema is one node of a JSON Schema document
type Schema struct {
	// Pointer locates the node inside the document, e.g. "/properties/id".
	Pointer string

	Type       SchemaType
	Properties []Property
	Required   []string
	Items      *Schema
	Rules      []Rule
	Enum       models.JSONArray
	HasEnum    bool
}

// IsObject reports whether the node declares type object.
func (s *Schema) IsObject() bool { return s != nil && s.Type.Is("object") }

// IsArray reports whether the node declares type array.
func (s *Schema) IsArray() bool { return s != nil && s.Type.Is("array") }

// RequiredSet returns the node's required property names as a set.
func (s *Schema) RequiredSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Required))
	for _, name := range s.Required {
		set[name] = struct{}{}
	}
	return set
}

// ParseValue builds the schema tree rooted at v. Every node must declare
// a type and none may use composition keywords.
func ParseValue(v models.JSONValue) (*Schema, error) {
	return parseNode(v, "")
}

func parseNode(v models.JSONValue, pointer string) (*Schema, error) {
	obj, ok := v.(*models.JSONObject)
	if !ok {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("node %s must be an object, found %s", displayPointer(pointer), kindOf(v)),
			errors.ErrInvalidSchema,
		)
	}

	for _, keyword := range CompositionKeywords {
		if obj.Has(keyword) {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("node %s uses %s, which cannot be converted to RAML", displayPointer(pointer), keyword),
				errors.ErrUnsupportedKeyword,
			)
		}
	}

	node := &Schema{Pointer: pointer}

	rawType, ok := obj.Get("type")
	if !ok {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("node %s has no type", displayPointer(pointer)),
			errors.ErrMissingType,
		)
	}
	schemaType, err := parseType(rawType, pointer)
	if err != nil {
		return nil, err
	}
	node.Type = schemaType

	for _, keyword := range RuleKeywords {
		if value, ok := obj.Get(keyword); ok {
			node.Rules = append(node.Rules, Rule{Keyword: keyword, Value: value})
		}
	}

	if rawEnum, ok := obj.Get("enum"); ok {
		members, ok := rawEnum.(models.JSONArray)
		if !ok {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("enum of node %s must be an array", displayPointer(pointer)),
				errors.ErrInvalidSchema,
			)
		}
		node.Enum = members
		node.HasEnum = true
	}

	if rawRequired, ok := obj.Get("required"); ok {
		required, err := parseRequired(rawRequired, pointer)
		if err != nil {
			return nil, err
		}
		node.Required = required
	}

	if rawProperties, ok := obj.Get("properties"); ok {
		properties, ok := rawProperties.(*models.JSONObject)
		if !ok {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("properties of node %s must be an object", displayPointer(pointer)),
				errors.ErrInvalidSchema,
			)
		}
		for _, name := range properties.Keys() {
			rawProperty, _ := properties.Get(name)
			property, err := parseNode(rawProperty, pointer+"/properties/"+escapePointer(name))
			if err != nil {
				return nil, err
			}
			node.Properties = append(node.Properties, Property{Name: name, Schema: property})
		}
	}

	if rawItems, ok := obj.Get("items"); ok {
		if _, isTuple := rawItems.(models.JSONArray); isTuple {
			return nil, errors.NewSchemaError(
				fmt.Sprintf("node %s uses tuple items, which cannot be converted to RAML", displayPointer(pointer)),
				errors.ErrUnsupportedKeyword,
			)
		}
		items, err := parseNode(rawItems, pointer+"/items")
		if err != nil {
			return nil, err
		}
		node.Items = items
	}

	return node, nil
}

func parseType(v models.JSONValue, pointer string) (SchemaType, error) {
	switch t := v.(type) {
	case string:
		if t != "" {
			return SchemaType{Types: []string{t}}, nil
		}
	case models.JSONArray:
		types := make([]string, 0, len(t))
		for _, member := range t {
			name, ok := member.(string)
			if !ok || name == "" {
				types = nil
				break
			}
			types = append(types, name)
		}
		if len(types) > 1 {
			for _, name := range types {
				if name == "object" || name == "array" {
					return SchemaType{}, errors.NewSchemaError(
						fmt.Sprintf("node %s lists %s in a type union, which cannot be converted to RAML", displayPointer(pointer), name),
						errors.ErrUnsupportedKeyword,
					)
				}
			}
		}
		if len(types) > 0 {
			return SchemaType{Types: types}, nil
		}
	}
	return SchemaType{}, errors.NewSchemaError(
		fmt.Sprintf("type of node %s must be a type name or a list of type names", displayPointer(pointer)),
		errors.ErrInvalidSchema,
	)
}

func parseRequired(v models.JSONValue, pointer string) ([]string, error) {
	invalid := errors.NewSchemaError(
		fmt.Sprintf("required of node %s must be a list of property names", displayPointer(pointer)),
		errors.ErrInvalidSchema,
	)
	list, ok := v.(models.JSONArray)
	if !ok {
		return nil, invalid
	}
	names := make([]string, 0, len(list))
	for _, member := range list {
		name, ok := member.(string)
		if !ok {
			return nil, invalid
		}
		names = append(names, name)
	}
	return names, nil
}

// escapePointer escapes a property name as a JSON Pointer reference token.
func escapePointer(name string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(name)
}

func displayPointer(pointer string) string {
	if pointer == "" {
		return "/"
	}
	return pointer
}

func kindOf(v models.JSONValue) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case models.JSONArray:
		return "array"
	case *models.JSONObject:
		return "object"
	default:
		return "number"
	}
}
