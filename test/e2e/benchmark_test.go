package e2e_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/json2raml/internal/config"
	"github.com/mcncl/json2raml/internal/converter"
)

// generateNestedJSON creates a deeply nested JSON structure for benchmarking
func generateNestedJSON(depth int, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"timestamp":  time.Now().Format(time.RFC3339),
			"count":      rand.Intn(100),
			"enabled":    rand.Intn(2) == 1,
		}
	}

	result := make(map[string]interface{})

	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		result[key] = generateNestedJSON(depth-1, width)
	}

	return result
}

// generateWideJSON creates a JSON object with many fields at the same level
func generateWideJSON(fieldCount int) map[string]interface{} {
	result := make(map[string]interface{})

	for i := 0; i < fieldCount; i++ {
		// Mix different types of fields
		switch i % 5 {
		case 0:
			result[fmt.Sprintf("string_field_%d", i)] = fmt.Sprintf("value_%d", i)
		case 1:
			result[fmt.Sprintf("int_field_%d", i)] = i
		case 2:
			result[fmt.Sprintf("bool_field_%d", i)] = i%2 == 0
		case 3:
			result[fmt.Sprintf("float_field_%d", i)] = float64(i) + 0.5
		case 4:
			result[fmt.Sprintf("object_field_%d", i)] = map[string]interface{}{
				"id":    i,
				"name":  fmt.Sprintf("Object %d", i),
				"value": i * 10,
			}
		}
	}

	return result
}

// generateSchema creates an object schema with fieldCount constrained properties
func generateSchema(fieldCount int) map[string]interface{} {
	properties := make(map[string]interface{}, fieldCount)
	required := make([]string, 0, fieldCount/2)

	for i := 0; i < fieldCount; i++ {
		name := fmt.Sprintf("field_%d", i)
		switch i % 3 {
		case 0:
			properties[name] = map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 64}
		case 1:
			properties[name] = map[string]interface{}{"type": "integer", "minimum": 0, "enum": []int{1, 2, 3}}
		case 2:
			properties[name] = map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "number"},
			}
		}
		if i%2 == 0 {
			required = append(required, name)
		}
	}

	return map[string]interface{}{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"required":   required,
		"properties": properties,
	}
}

func benchmarkConvert(b *testing.B, data interface{}, cfg *config.Config) {
	b.Helper()
	text, err := json.MarshalIndent(data, "", "  ")
	require.NoError(b, err)

	conv := converter.NewConverterWithConfig(cfg)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		result, err := conv.Convert(string(text))
		require.NoError(b, err)
		require.NotEmpty(b, result.RAML)
	}
}

// BenchmarkDeepNesting benchmarks performance with deeply nested JSON structures
func BenchmarkDeepNesting(b *testing.B) {
	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},   // Moderate nesting
		{"Depth5Width2", 5, 2},   // Deep nesting
		{"Depth2Width10", 2, 10}, // Wide but shallow
	}

	for _, depth := range depths {
		b.Run(depth.name, func(b *testing.B) {
			benchmarkConvert(b, generateNestedJSON(depth.depth, depth.width), config.NewConfig())
		})
	}
}

// BenchmarkWideStructures benchmarks performance with wide JSON structures (many fields)
func BenchmarkWideStructures(b *testing.B) {
	fieldCounts := []int{10, 100, 1000}

	for _, count := range fieldCounts {
		b.Run(fmt.Sprintf("Fields%d", count), func(b *testing.B) {
			benchmarkConvert(b, generateWideJSON(count), config.NewConfig())
		})
	}
}

// BenchmarkWithExample benchmarks value conversion with the source appended
func BenchmarkWithExample(b *testing.B) {
	cfg := config.NewConfig()
	cfg.IncludeSourceAsExample = true
	benchmarkConvert(b, generateWideJSON(200), cfg)
}

// BenchmarkArrayProcessing benchmarks performance with large arrays
func BenchmarkArrayProcessing(b *testing.B) {
	sizes := []int{10, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Items%d", size), func(b *testing.B) {
			items := make([]map[string]interface{}, size)
			for i := range items {
				items[i] = map[string]interface{}{
					"id":     i,
					"name":   fmt.Sprintf("Item %d", i),
					"price":  float64(i) * 1.25,
					"active": i%2 == 0,
				}
			}
			benchmarkConvert(b, items, config.NewConfig())
		})
	}
}

// BenchmarkSchemaConversion benchmarks JSON Schema documents
func BenchmarkSchemaConversion(b *testing.B) {
	fieldCounts := []int{10, 100, 1000}

	for _, count := range fieldCounts {
		b.Run(fmt.Sprintf("Properties%d", count), func(b *testing.B) {
			benchmarkConvert(b, generateSchema(count), config.NewConfig())
		})
	}
}
