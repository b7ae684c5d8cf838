package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents command output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates format values.
func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(v))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q", v)
	}
}

func render(w io.Writer, payload any, format Format) error {
	var text []byte
	var err error
	switch format {
	case FormatYAML:
		if text, err = yaml.Marshal(payload); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
	default:
		if text, err = json.MarshalIndent(payload, "", "  "); err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		text = append(text, '\n')
	}
	if _, err := w.Write(text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
