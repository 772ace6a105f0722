package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"gopkg.in/yaml.v3"
)

type Renderer[T any] interface {
	Render(result T) error
}

// WriteStructured writes v as indented JSON or as YAML. Both use the JSON field names.
func WriteStructured(out io.Writer, format config.OutputFormat, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if format != config.OutputYAML {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	// JSON is valid YAML; parsing keeps field order and clearing styles gives block output
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	clearStyle(&node)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		clearStyle(child)
	}
}
