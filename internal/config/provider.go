package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
)

// Viper keys
const (
	KeyRelayerURL       = "relayer_url"
	KeyChainID          = "chain_id"
	KeyNetwork          = "network"
	KeyPrivateKey       = "private_key"
	KeyKeystore         = "keystore"
	KeyKeystoreAccount  = "keystore_account"
	KeyKeystorePassword = "keystore_password"
	KeyRPCURL           = "rpc_url"
	KeyBuilderAPIKey    = "builder_api_key"
	KeyBuilderSecret    = "builder_secret"
	KeyBuilderPass      = "builder_pass_phrase"
	KeyPollMaxAttempts  = "poll_max_attempts"
	KeyPollInterval     = "poll_interval"
	KeyDebug            = "debug"
	KeyNonInteractive   = "non_interactive"
	KeyOutput           = "output"
	KeyTimeout          = "timeout"

	keyContractTable = "contract_table"
)

// envAliases are the unprefixed variable names accepted next to TREB_RELAY_*
var envAliases = map[string]string{
	KeyRelayerURL:       "RELAYER_URL",
	KeyChainID:          "CHAIN_ID",
	KeyPrivateKey:       "PK",
	KeyKeystore:         "KEYSTORE",
	KeyKeystorePassword: "KEYSTORE_PASSWORD",
	KeyRPCURL:           "RPC_URL",
	KeyBuilderAPIKey:    "BUILDER_API_KEY",
	KeyBuilderSecret:    "BUILDER_SECRET",
	KeyBuilderPass:      "BUILDER_PASS_PHRASE",
}

// flagKeys maps flag names whose viper key differs from the dashed-to-underscored name
var flagKeys = map[string]string{
	"yes": KeyNonInteractive,
}

// DefaultChainID is Polygon mainnet
const DefaultChainID = 137

// SetupViper creates and configures a viper instance. Values are layered from
// defaults, relay.toml, .env files, the environment and finally cmd's flags.
func SetupViper(dir string, cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	loadEnvFiles(dir)

	v.SetEnvPrefix("TREB_RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		if err := v.BindEnv(key, "TREB_RELAY_"+strings.ToUpper(key), alias); err != nil {
			return nil, err
		}
	}

	v.SetDefault(KeyChainID, DefaultChainID)
	v.SetDefault(KeyPollMaxAttempts, 10)
	v.SetDefault(KeyPollInterval, "2s")
	v.SetDefault(KeyTimeout, "5m")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyNonInteractive, false)
	v.SetDefault(KeyOutput, string(config.OutputText))
	v.SetDefault(keyContractTable, config.DefaultContractTable())

	file, err := LoadRelayFile(dir)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if err := applyRelayFile(v, file); err != nil {
			return nil, err
		}
	}

	if cmd != nil {
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(flagKey(f.Name), f)
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	return v, nil
}

func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// loadEnvFiles loads .env and .env.local without overriding variables already set
func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(dir, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// applyRelayFile layers relay.toml above the built-in defaults
func applyRelayFile(v *viper.Viper, file *RelayFile) error {
	setIf := func(key, value string) {
		if value != "" {
			v.SetDefault(key, value)
		}
	}

	setIf(KeyRelayerURL, file.RelayerURL)
	setIf(KeyNetwork, file.Network)
	setIf(KeyRPCURL, file.RPCURL)
	setIf(KeyKeystore, file.Signer.Keystore)
	setIf(KeyKeystoreAccount, file.Signer.Account)
	setIf(KeyBuilderAPIKey, file.Builder.APIKey)
	setIf(KeyBuilderSecret, file.Builder.Secret)
	setIf(KeyBuilderPass, file.Builder.Passphrase)
	setIf(KeyPollInterval, file.Poll.Interval)

	if file.ChainID != 0 {
		v.SetDefault(KeyChainID, file.ChainID)
	}
	if file.Poll.MaxAttempts != 0 {
		v.SetDefault(KeyPollMaxAttempts, file.Poll.MaxAttempts)
	}

	overrides, err := file.ContractTable()
	if err != nil {
		return err
	}
	if len(overrides) > 0 {
		v.SetDefault(keyContractTable, config.DefaultContractTable().Merge(overrides))
	}
	return nil
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	table, ok := v.Get(keyContractTable).(config.ContractTable)
	if !ok {
		table = config.DefaultContractTable()
	}

	chainID, err := resolveChainID(v, table)
	if err != nil {
		return nil, err
	}

	contracts, err := table.Lookup(chainID)
	if err != nil {
		return nil, err
	}

	relayerURL := strings.TrimRight(strings.TrimSpace(v.GetString(KeyRelayerURL)), "/")
	if relayerURL != "" {
		if err := validateURL(relayerURL); err != nil {
			return nil, fmt.Errorf("invalid relayer URL: %w", err)
		}
	}

	output := config.OutputFormat(strings.ToLower(v.GetString(KeyOutput)))
	switch output {
	case config.OutputText, config.OutputJSON, config.OutputYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q (text, json, yaml)", output)
	}

	pollInterval, err := parseDuration(v, KeyPollInterval)
	if err != nil {
		return nil, err
	}
	timeout, err := parseDuration(v, KeyTimeout)
	if err != nil {
		return nil, err
	}

	return &config.RuntimeConfig{
		RelayerURL:       relayerURL,
		ChainID:          chainID,
		Contracts:        contracts,
		Networks:         table,
		PrivateKey:       v.GetString(KeyPrivateKey),
		KeystorePath:     v.GetString(KeyKeystore),
		KeystoreAccount:  v.GetString(KeyKeystoreAccount),
		KeystorePassword: v.GetString(KeyKeystorePassword),
		RPCURL:           v.GetString(KeyRPCURL),
		Builder: config.BuilderCredentials{
			Key:        v.GetString(KeyBuilderAPIKey),
			Secret:     v.GetString(KeyBuilderSecret),
			Passphrase: v.GetString(KeyBuilderPass),
		},
		Poll: config.PollConfig{
			MaxAttempts: v.GetInt(KeyPollMaxAttempts),
			Interval:    pollInterval,
		},
		Debug:          v.GetBool(KeyDebug),
		NonInteractive: v.GetBool(KeyNonInteractive),
		Output:         output,
		Timeout:        timeout,
	}, nil
}

// resolveChainID uses the network name when one is given, else the chain id
func resolveChainID(v *viper.Viper, table config.ContractTable) (uint64, error) {
	if network := strings.TrimSpace(v.GetString(KeyNetwork)); network != "" {
		cfg, err := ResolveNetwork(table, network)
		if err != nil {
			return 0, err
		}
		return cfg.ChainID, nil
	}

	raw := strings.TrimSpace(v.GetString(KeyChainID))
	chainID := v.GetUint64(KeyChainID)
	if chainID == 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidChainID, raw)
	}
	return chainID, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
