package usecase

import (
	"context"
	"time"

	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

// WatchTransaction polls a relayer transaction until it reaches one of the requested states
type WatchTransaction struct {
	client   *RelayClient
	selector InteractiveSelector
	progress ProgressSink
}

// NewWatchTransaction creates a new watch transaction use case
func NewWatchTransaction(client *RelayClient, selector InteractiveSelector, progress ProgressSink) *WatchTransaction {
	return &WatchTransaction{
		client:   client,
		selector: selector,
		progress: progress,
	}
}

// WatchTransactionParams contains polling options. An empty TransactionID
// selects one of the caller's transactions interactively.
type WatchTransactionParams struct {
	TransactionID string
	States        []models.TransactionState
	FailState     models.TransactionState
	MaxAttempts   int
	Interval      time.Duration
}

// WatchTransactionResult contains the polled outcome
type WatchTransactionResult struct {
	TransactionID string `json:"transactionID"`
	// Transaction is nil when the fail state was hit or polling timed out
	Transaction *models.RelayerTransaction `json:"transaction"`
}

// Run executes the use case
func (uc *WatchTransaction) Run(ctx context.Context, params WatchTransactionParams) (*WatchTransactionResult, error) {
	id := params.TransactionID
	if id == "" {
		txs, err := uc.client.GetTransactions(ctx)
		if err != nil {
			return nil, err
		}
		selected, err := uc.selector.SelectTransaction(ctx, txs, "Select transaction to watch")
		if err != nil {
			return nil, err
		}
		id = selected.TransactionID
	}

	states := params.States
	if len(states) == 0 {
		states = []models.TransactionState{models.StateMined, models.StateConfirmed}
	}

	tx, err := uc.client.PollUntilState(ctx, id, PollOptions{
		TargetStates: states,
		FailState:    params.FailState,
		MaxAttempts:  params.MaxAttempts,
		Interval:     params.Interval,
	})
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	if err != nil {
		return nil, err
	}

	return &WatchTransactionResult{TransactionID: id, Transaction: tx}, nil
}
