package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
)

// RelayFileName is the optional project config file
const RelayFileName = "relay.toml"

// RelayFile represents relay.toml. String values support ${VAR} expansion.
type RelayFile struct {
	RelayerURL string                    `toml:"relayer_url"`
	ChainID    uint64                    `toml:"chain_id"`
	Network    string                    `toml:"network"`
	RPCURL     string                    `toml:"rpc_url"`
	Signer     SignerSection             `toml:"signer"`
	Builder    BuilderSection            `toml:"builder"`
	Poll       PollSection               `toml:"poll"`
	Networks   map[string]NetworkSection `toml:"networks"`
}

// SignerSection configures the keystore signer. Raw private keys are only read from the environment.
type SignerSection struct {
	Keystore string `toml:"keystore"`
	Account  string `toml:"account"`
}

// BuilderSection holds builder API credentials
type BuilderSection struct {
	APIKey     string `toml:"api_key"`
	Secret     string `toml:"secret"`
	Passphrase string `toml:"passphrase"`
}

// PollSection holds polling defaults
type PollSection struct {
	MaxAttempts int    `toml:"max_attempts"`
	Interval    string `toml:"interval"`
}

// NetworkSection adds or overrides a network's contracts. The table key is the chain ID.
type NetworkSection struct {
	Name          string `toml:"name"`
	SafeFactory   string `toml:"safe_factory"`
	SafeMultisend string `toml:"safe_multisend"`
	ProxyFactory  string `toml:"proxy_factory"`
	RelayHub      string `toml:"relay_hub"`
}

// LoadRelayFile reads relay.toml from dir. A missing file yields nil without error.
func LoadRelayFile(dir string) (*RelayFile, error) {
	path := filepath.Join(dir, RelayFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	var raw RelayFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", RelayFileName, err)
	}

	raw.expandEnv()
	return &raw, nil
}

func (f *RelayFile) expandEnv() {
	f.RelayerURL = os.ExpandEnv(f.RelayerURL)
	f.Network = os.ExpandEnv(f.Network)
	f.RPCURL = os.ExpandEnv(f.RPCURL)
	f.Signer.Keystore = os.ExpandEnv(f.Signer.Keystore)
	f.Signer.Account = os.ExpandEnv(f.Signer.Account)
	f.Builder.APIKey = os.ExpandEnv(f.Builder.APIKey)
	f.Builder.Secret = os.ExpandEnv(f.Builder.Secret)
	f.Builder.Passphrase = os.ExpandEnv(f.Builder.Passphrase)
}

// ContractTable converts the [networks] sections
func (f *RelayFile) ContractTable() (config.ContractTable, error) {
	table := make(config.ContractTable, len(f.Networks))
	for key, section := range f.Networks {
		chainID, err := strconv.ParseUint(key, 10, 64)
		if err != nil || chainID == 0 {
			return nil, fmt.Errorf("%w: networks.%s must be keyed by a positive chain id", domain.ErrInvalidChainID, key)
		}

		cfg := config.ContractConfig{Name: section.Name, ChainID: chainID}
		if cfg.Name == "" {
			cfg.Name = key
		}

		if cfg.SafeContracts.SafeFactory, err = parseContract(key, "safe_factory", section.SafeFactory, true); err != nil {
			return nil, err
		}
		if cfg.SafeContracts.SafeMultisend, err = parseContract(key, "safe_multisend", section.SafeMultisend, true); err != nil {
			return nil, err
		}
		if cfg.ProxyContracts.ProxyFactory, err = parseContract(key, "proxy_factory", section.ProxyFactory, false); err != nil {
			return nil, err
		}
		if cfg.ProxyContracts.RelayHub, err = parseContract(key, "relay_hub", section.RelayHub, false); err != nil {
			return nil, err
		}

		table[chainID] = cfg
	}
	return table, nil
}

func parseContract(network, field, value string, required bool) (common.Address, error) {
	if value == "" {
		if required {
			return common.Address{}, fmt.Errorf("networks.%s.%s is required", network, field)
		}
		return common.Address{}, nil
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%w: networks.%s.%s = %q", domain.ErrInvalidAddress, network, field, value)
	}
	return common.HexToAddress(value), nil
}
