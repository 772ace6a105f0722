package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

// WaitMaxPolls bounds PendingTransaction.Wait
const WaitMaxPolls = 30

// PendingTransaction is the handle returned by a submission
type PendingTransaction struct {
	TransactionID   string                  `json:"transactionID"`
	State           models.TransactionState `json:"state"`
	TransactionHash string                  `json:"transactionHash"`
	// Hash mirrors TransactionHash
	Hash string `json:"hash"`

	client *RelayClient
}

func newPendingTransaction(resp *models.SubmitResponse, client *RelayClient) *PendingTransaction {
	return &PendingTransaction{
		TransactionID:   resp.TransactionID,
		State:           resp.State,
		TransactionHash: resp.TransactionHash,
		Hash:            resp.TransactionHash,
		client:          client,
	}
}

// GetTransaction fetches the current relayer records for this transaction
func (p *PendingTransaction) GetTransaction(ctx context.Context) ([]models.RelayerTransaction, error) {
	return p.client.GetTransaction(ctx, p.TransactionID)
}

// Wait polls until the transaction is mined or confirmed. It returns nil when the
// transaction fails or does not settle within WaitMaxPolls attempts.
func (p *PendingTransaction) Wait(ctx context.Context) (*models.RelayerTransaction, error) {
	return p.client.PollUntilState(ctx, p.TransactionID, PollOptions{
		TargetStates: []models.TransactionState{models.StateMined, models.StateConfirmed},
		FailState:    models.StateFailed,
		MaxAttempts:  WaitMaxPolls,
		Interval:     p.client.pollInterval,
	})
}
