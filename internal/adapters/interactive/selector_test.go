package interactive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

func TestConfirm_NonInteractiveAssumesYes(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	ok, err := s.Confirm(context.Background(), "Submit?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSelectTransaction(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})

	_, err := s.SelectTransaction(context.Background(), nil, "pick")
	assert.Error(t, err)

	single := []models.RelayerTransaction{{TransactionID: "a"}}
	tx, err := s.SelectTransaction(context.Background(), single, "pick")
	require.NoError(t, err)
	assert.Equal(t, "a", tx.TransactionID)

	_, err = s.SelectTransaction(context.Background(), []models.RelayerTransaction{{TransactionID: "a"}, {TransactionID: "b"}}, "pick")
	assert.ErrorIs(t, err, ErrNonInteractive)
}

func TestFuzzySearch(t *testing.T) {
	items := []string{"tx-1 [MINED] SAFE", "tx-2 [NEW] SAFE-CREATE"}
	search := createFuzzySearchFunc(items)

	assert.True(t, search("", 0))
	assert.True(t, search("mined", 0))
	assert.False(t, search("mined", 1))
	assert.True(t, search("sfcrt", 1))
}
