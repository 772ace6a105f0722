package config

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-relay/internal/domain"
)

// SafeContracts are the Safe factory and MultiSend addresses for a chain
type SafeContracts struct {
	SafeFactory   common.Address `json:"safeFactory" yaml:"safeFactory"`
	SafeMultisend common.Address `json:"safeMultisend" yaml:"safeMultisend"`
}

// ProxyContracts are the legacy proxy wallet contracts. Zero addresses mean unsupported.
type ProxyContracts struct {
	ProxyFactory common.Address `json:"proxyFactory" yaml:"proxyFactory"`
	RelayHub     common.Address `json:"relayHub" yaml:"relayHub"`
}

// ContractConfig groups every contract the client needs on one chain
type ContractConfig struct {
	Name           string         `json:"name" yaml:"name"`
	ChainID        uint64         `json:"chainId" yaml:"chainId"`
	SafeContracts  SafeContracts  `json:"safeContracts" yaml:"safeContracts"`
	ProxyContracts ProxyContracts `json:"proxyContracts" yaml:"proxyContracts"`
}

// HasProxyContracts reports whether the legacy proxy factory exists on this chain
func (c ContractConfig) HasProxyContracts() bool {
	return c.ProxyContracts.ProxyFactory != (common.Address{})
}

// ContractTable maps chain IDs to contract configurations. It is built once and only read.
type ContractTable map[uint64]ContractConfig

// DefaultContractTable returns the contract addresses of the supported networks
func DefaultContractTable() ContractTable {
	safeContracts := SafeContracts{
		SafeFactory:   common.HexToAddress("0xaacFeEa03eb1561C4e67d661e40682Bd20E3541b"),
		SafeMultisend: common.HexToAddress("0xA238CBeb142c10Ef7Ad8442C6D1f9E89e07e7761"),
	}

	return ContractTable{
		137: {
			Name:          "polygon",
			ChainID:       137,
			SafeContracts: safeContracts,
			ProxyContracts: ProxyContracts{
				ProxyFactory: common.HexToAddress("0xaB45c5A4B0c941a2F231C04C3f49182e1A254052"),
				RelayHub:     common.HexToAddress("0xD216153c06E857cD7f72665E0aF1d7D82172F494"),
			},
		},
		// Proxy factory unsupported on Amoy testnet
		80002: {
			Name:          "amoy",
			ChainID:       80002,
			SafeContracts: safeContracts,
		},
	}
}

// Lookup returns the configuration for a chain or an UnsupportedNetworkErr
func (t ContractTable) Lookup(chainID uint64) (ContractConfig, error) {
	cfg, ok := t[chainID]
	if !ok {
		return ContractConfig{}, domain.UnsupportedNetworkErr{ChainID: chainID}
	}
	return cfg, nil
}

// ChainIDs returns the supported chain IDs in ascending order
func (t ContractTable) ChainIDs() []uint64 {
	ids := make([]uint64, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Merge returns a copy of t with entries from overrides added or replaced
func (t ContractTable) Merge(overrides ContractTable) ContractTable {
	merged := make(ContractTable, len(t)+len(overrides))
	for id, cfg := range t {
		merged[id] = cfg
	}
	for id, cfg := range overrides {
		cfg.ChainID = id
		merged[id] = cfg
	}
	return merged
}

// Names returns the network names in chain ID order
func (t ContractTable) Names() []string {
	names := make([]string, 0, len(t))
	for _, id := range t.ChainIDs() {
		names = append(names, t[id].Name)
	}
	return names
}

// ByName finds a network by its exact name
func (t ContractTable) ByName(name string) (ContractConfig, bool) {
	for _, cfg := range t {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return ContractConfig{}, false
}
