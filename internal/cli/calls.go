package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// callEntry is one call in a calls file. JSON files parse as YAML.
type callEntry struct {
	To        string `yaml:"to"`
	Data      string `yaml:"data"`
	Value     string `yaml:"value"`
	Operation string `yaml:"operation"`
}

// loadCallsFile reads a JSON or YAML list of calls; "-" reads stdin
func loadCallsFile(path string, stdin io.Reader) ([]models.Call, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read calls file: %w", err)
	}
	return parseCalls(data)
}

func parseCalls(data []byte) ([]models.Call, error) {
	var entries []callEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse calls: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("calls file contains no calls")
	}

	calls := make([]models.Call, 0, len(entries))
	for i, e := range entries {
		call, err := models.ParseCall(e.To, e.Data, e.Value, e.Operation)
		if err != nil {
			return nil, fmt.Errorf("call %d: %w", i, err)
		}
		calls = append(calls, call)
	}
	return calls, nil
}
