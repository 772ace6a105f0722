package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
)

const relayTOML = `
relayer_url = "https://relayer.example.com/"
chain_id = 80002

[signer]
keystore = "${HOME_KEYS}/keystore"
account = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

[poll]
max_attempts = 15
interval = "3s"

[networks.31337]
name = "anvil"
safe_factory = "0x00000000000000000000000000000000000000aa"
safe_multisend = "0x00000000000000000000000000000000000000bb"
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func provide(t *testing.T, dir string, cmd *cobra.Command) (*config.RuntimeConfig, error) {
	t.Helper()
	v, err := SetupViper(dir, cmd)
	require.NoError(t, err)
	return Provider(v)
}

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("relayer-url", "", "")
	cmd.Flags().Uint64("chain-id", 0, "")
	cmd.Flags().String("network", "", "")
	cmd.Flags().Bool("yes", false, "")
	cmd.Flags().String("output", "", "")
	return cmd
}

func TestProvider_Defaults(t *testing.T) {
	cfg, err := provide(t, t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(137), cfg.ChainID)
	assert.Equal(t, "polygon", cfg.Contracts.Name)
	assert.Equal(t, 10, cfg.Poll.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.Equal(t, config.OutputText, cfg.Output)
	assert.False(t, cfg.NonInteractive)
	assert.False(t, cfg.HasSigner())
}

func TestProvider_RelayFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME_KEYS", "/secure")
	writeFile(t, dir, RelayFileName, relayTOML)

	cfg, err := provide(t, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://relayer.example.com", cfg.RelayerURL)
	assert.Equal(t, uint64(80002), cfg.ChainID)
	assert.Equal(t, "amoy", cfg.Contracts.Name)
	assert.Equal(t, "/secure/keystore", cfg.KeystorePath)
	assert.Equal(t, 15, cfg.Poll.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.Poll.Interval)
	assert.True(t, cfg.HasSigner())
}

func TestProvider_CustomNetworkFromRelayFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RelayFileName, relayTOML)
	t.Setenv("CHAIN_ID", "31337")

	cfg, err := provide(t, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(31337), cfg.ChainID)
	assert.Equal(t, "anvil", cfg.Contracts.Name)
	assert.Equal(t, common.HexToAddress("0xaa"), cfg.Contracts.SafeContracts.SafeFactory)
	assert.False(t, cfg.Contracts.HasProxyContracts())
}

func TestProvider_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RelayFileName, relayTOML)

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("RELAYER_URL", "https://env.example.com")
		cfg, err := provide(t, dir, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com", cfg.RelayerURL)
	})

	t.Run("prefixed env overrides alias", func(t *testing.T) {
		t.Setenv("RELAYER_URL", "https://alias.example.com")
		t.Setenv("TREB_RELAY_RELAYER_URL", "https://prefixed.example.com")
		cfg, err := provide(t, dir, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://prefixed.example.com", cfg.RelayerURL)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("RELAYER_URL", "https://env.example.com")
		cmd := newFlagCmd()
		require.NoError(t, cmd.Flags().Set("relayer-url", "https://flag.example.com"))
		require.NoError(t, cmd.Flags().Set("yes", "true"))

		cfg, err := provide(t, dir, cmd)
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example.com", cfg.RelayerURL)
		assert.True(t, cfg.NonInteractive)
	})

	t.Run("unset flags keep lower layers", func(t *testing.T) {
		cfg, err := provide(t, dir, newFlagCmd())
		require.NoError(t, err)
		assert.Equal(t, uint64(80002), cfg.ChainID)
		assert.Equal(t, config.OutputText, cfg.Output)
	})
}

func TestProvider_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PK", "")
	require.NoError(t, os.Unsetenv("PK"))
	t.Setenv("BUILDER_API_KEY", "")
	require.NoError(t, os.Unsetenv("BUILDER_API_KEY"))

	writeFile(t, dir, ".env", "PK=0xabc\nBUILDER_API_KEY=key\n")

	cfg, err := provide(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", cfg.PrivateKey)
	assert.Equal(t, "key", cfg.Builder.Key)
	assert.False(t, cfg.Builder.IsValid())
}

func TestProvider_Network(t *testing.T) {
	cmd := newFlagCmd()
	require.NoError(t, cmd.Flags().Set("network", "amoy"))

	cfg, err := provide(t, t.TempDir(), cmd)
	require.NoError(t, err)
	assert.Equal(t, uint64(80002), cfg.ChainID)
}

func TestProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
		wantMsg string
	}{
		{name: "bad relayer scheme", env: map[string]string{"RELAYER_URL": "ftp://relayer"}, wantMsg: "invalid relayer URL"},
		{name: "zero chain id", env: map[string]string{"CHAIN_ID": "0"}, wantErr: domain.ErrInvalidChainID},
		{name: "unknown chain id", env: map[string]string{"CHAIN_ID": "1"}, wantErr: domain.ErrUnsupportedNetwork},
		{name: "unknown output", env: map[string]string{"TREB_RELAY_OUTPUT": "xml"}, wantMsg: "unsupported output format"},
		{name: "bad poll interval", env: map[string]string{"TREB_RELAY_POLL_INTERVAL": "soon"}, wantMsg: "invalid poll_interval"},
		{name: "misspelled network", env: map[string]string{"TREB_RELAY_NETWORK": "polyon"}, wantMsg: "did you mean polygon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := provide(t, t.TempDir(), nil)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.ErrorContains(t, err, tt.wantMsg)
			}
		})
	}
}

func TestRelayFile_InvalidNetworks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RelayFileName, `
[networks.local]
safe_factory = "0x00000000000000000000000000000000000000aa"
safe_multisend = "0x00000000000000000000000000000000000000bb"
`)
	_, err := SetupViper(dir, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidChainID)

	writeFile(t, dir, RelayFileName, `
[networks.5]
safe_factory = "nope"
safe_multisend = "0x00000000000000000000000000000000000000bb"
`)
	_, err = SetupViper(dir, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestResolveNetwork(t *testing.T) {
	table := config.DefaultContractTable()

	cfg, err := ResolveNetwork(table, "Polygon")
	require.NoError(t, err)
	assert.Equal(t, uint64(137), cfg.ChainID)

	cfg, err = ResolveNetwork(table, "80002")
	require.NoError(t, err)
	assert.Equal(t, "amoy", cfg.Name)

	_, err = ResolveNetwork(table, "zzz")
	assert.ErrorIs(t, err, domain.ErrUnsupportedNetwork)
	assert.ErrorContains(t, err, "available: polygon, amoy")
}
