package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
)

// ResolveNetwork finds a network by name or numeric chain id. Unknown names
// report the closest known names.
func ResolveNetwork(table config.ContractTable, network string) (config.ContractConfig, error) {
	network = strings.ToLower(strings.TrimSpace(network))

	if chainID, err := strconv.ParseUint(network, 10, 64); err == nil {
		return table.Lookup(chainID)
	}

	if cfg, ok := table.ByName(network); ok {
		return cfg, nil
	}

	names := table.Names()
	matches := fuzzy.Find(network, names)
	if len(matches) == 0 {
		return config.ContractConfig{}, fmt.Errorf("%w: unknown network %q (available: %s)",
			domain.ErrUnsupportedNetwork, network, strings.Join(names, ", "))
	}

	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.Str)
	}
	return config.ContractConfig{}, fmt.Errorf("%w: unknown network %q, did you mean %s?",
		domain.ErrUnsupportedNetwork, network, strings.Join(suggestions, " or "))
}
