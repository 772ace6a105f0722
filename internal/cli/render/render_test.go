package render

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

func TestStateLabel(t *testing.T) {
	tests := []struct {
		state models.TransactionState
		want  string
	}{
		{models.StateMined, "Mined"},
		{models.StateConfirmed, "Confirmed"},
		{models.StateNew, "New"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, StateLabel(tt.state))
		})
	}
}

func TestWriteStructured(t *testing.T) {
	info := &usecase.AccountInfo{
		ChainID: 137,
		Owner:   common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Safe:    common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Nonce:   "3",
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteStructured(&buf, config.OutputJSON, info))
		assert.Contains(t, buf.String(), `"chainId": 137`)
		assert.Contains(t, buf.String(), `"owner": "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"`)
		assert.NotContains(t, buf.String(), "proxy")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteStructured(&buf, config.OutputYAML, info))
		out := buf.String()
		assert.Contains(t, out, "chainId: 137\n")
		assert.Contains(t, out, "owner: 0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266\n")
		assert.Contains(t, out, "nonce: \"3\"\n")
		assert.NotContains(t, out, "{")
	})
}

func TestAccountRenderer(t *testing.T) {
	deployed := true
	proxy := common.HexToAddress("0x2222222222222222222222222222222222222222")
	var buf bytes.Buffer

	err := NewAccountRenderer(&buf, false).Render(&usecase.AccountInfo{
		ChainID:  80002,
		Owner:    common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Safe:     common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Proxy:    &proxy,
		Deployed: &deployed,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Proxy:     0x2222222222222222222222222222222222222222")
	assert.Contains(t, out, "Chain ID:  80002")
	assert.Contains(t, out, "Status:    deployed")
	assert.NotContains(t, out, "Nonce:")
}

func TestTransactionRenderer(t *testing.T) {
	tx := models.RelayerTransaction{
		TransactionID:   "tx-1",
		TransactionHash: "0xabcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789",
		To:              "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
		Nonce:           "0",
		State:           models.StateMined,
		Type:            models.TransactionTypeSafe,
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTransactionRenderer(&buf, false).RenderTransactions([]models.RelayerTransaction{tx}))
		assert.Contains(t, buf.String(), "tx-1")
		assert.Contains(t, buf.String(), "Mined")
		assert.Contains(t, buf.String(), "0x2791Bc…4174")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTransactionRenderer(&buf, false).RenderTransactions(nil))
		assert.Equal(t, "No transactions found\n", buf.String())
	})

	t.Run("watch timeout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTransactionRenderer(&buf, false).RenderWatch(&usecase.WatchTransactionResult{TransactionID: "tx-9"}))
		assert.Contains(t, buf.String(), "tx-9 did not reach a target state")
	})

	t.Run("execute aborted", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTransactionRenderer(&buf, false).RenderExecute(&usecase.ExecuteTransactionsResult{Aborted: true}, false))
		assert.Contains(t, buf.String(), "Submission cancelled")
	})
}

func TestNetworksRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewNetworksRenderer(&buf, false).RenderNetworks(config.DefaultContractTable(), 137))

	out := buf.String()
	assert.Contains(t, out, "polygon")
	assert.Contains(t, out, "amoy")
	assert.Contains(t, out, "0xaB45c5A4B0c941a2F231C04C3f49182e1A254052")
}
