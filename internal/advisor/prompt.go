package advisor

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Veraticus/finanhome/internal/money"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PromptBuilder renders the advisory prompt from a snapshot.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses the embedded prompt template.
func NewPromptBuilder() (*PromptBuilder, error) {
	funcMap := template.FuncMap{
		"brl": money.Format,
		"pct": money.Percent,
	}

	tmpl, err := template.New("advice.tmpl").Funcs(funcMap).ParseFS(templateFS, "templates/advice.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template advice: %w", err)
	}

	return &PromptBuilder{tmpl: tmpl}, nil
}

// Build renders the prompt for s.
func (pb *PromptBuilder) Build(s Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := pb.tmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
