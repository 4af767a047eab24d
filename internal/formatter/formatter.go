package formatter

import (
	"strings"

	"github.com/mcncl/json2raml/internal/models"
)

// IndentUnit is the indentation written per nesting level.
const IndentUnit = "  "

// Formatter turns converter output lines into indented RAML text
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format writes every line once, in order, prefixed with IndentUnit per
// depth level and terminated by a newline.
func (f *Formatter) Format(lines []models.Line) string {
	var sb strings.Builder
	for _, line := range lines {
		depth := line.Depth
		if depth < 0 {
			depth = 0
		}
		sb.WriteString(strings.Repeat(IndentUnit, depth))
		sb.WriteString(line.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
