package config

import (
	"time"
)

// OutputFormat selects how commands render results
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Relayer settings
	RelayerURL string
	ChainID    uint64
	Contracts  ContractConfig
	// Networks is every known network, built-in and from relay.toml
	Networks ContractTable

	// Signer settings, all optional
	PrivateKey       string
	KeystorePath     string
	KeystoreAccount  string
	KeystorePassword string
	RPCURL           string

	// Builder API credentials, optional
	Builder BuilderCredentials

	// Polling defaults
	Poll PollConfig

	// Execution settings
	Debug          bool
	NonInteractive bool
	Output         OutputFormat
	Timeout        time.Duration
}

// BuilderCredentials authenticate requests against the relayer's builder API
type BuilderCredentials struct {
	Key        string
	Secret     string
	Passphrase string
}

// IsValid reports whether all three credential parts are present
func (c BuilderCredentials) IsValid() bool {
	return c.Key != "" && c.Secret != "" && c.Passphrase != ""
}

// PollConfig holds defaults for polling transaction state
type PollConfig struct {
	MaxAttempts int
	Interval    time.Duration
}

// HasSigner reports whether any signer backend is configured
func (c *RuntimeConfig) HasSigner() bool {
	return c.PrivateKey != "" || c.KeystorePath != ""
}
