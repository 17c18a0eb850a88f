package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"rental-reconciliation/internal/domain"
)

// Report output formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// JSONSink writes indented JSON.
type JSONSink struct {
	w io.Writer
}

// NewJSONSink creates a JSON sink.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w}
}

// Publish writes the report to the sink's writer.
func (s *JSONSink) Publish(_ context.Context, report *domain.Report) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate JSON report: %w", err)
	}
	if _, err := fmt.Fprintln(s.w, string(output)); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// YAMLSink writes the JSON field layout as YAML so both formats share one schema.
type YAMLSink struct {
	w io.Writer
}

// NewYAMLSink creates a YAML sink.
func NewYAMLSink(w io.Writer) *YAMLSink {
	return &YAMLSink{w: w}
}

// Publish writes the report to the sink's writer.
func (s *YAMLSink) Publish(_ context.Context, report *domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	out, err := yaml.JSONToYAML(data)
	if err != nil {
		return fmt.Errorf("failed to generate YAML report: %w", err)
	}
	if _, err := s.w.Write(out); err != nil {
		return fmt.Errorf("failed to write YAML report: %w", err)
	}
	return nil
}
