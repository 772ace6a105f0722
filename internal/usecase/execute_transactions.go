package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

// ExecuteTransactions submits a batch of calls from the signer's Safe
type ExecuteTransactions struct {
	client   *RelayClient
	selector InteractiveSelector
	progress ProgressSink
}

// NewExecuteTransactions creates a new execute transactions use case
func NewExecuteTransactions(client *RelayClient, selector InteractiveSelector, progress ProgressSink) *ExecuteTransactions {
	return &ExecuteTransactions{
		client:   client,
		selector: selector,
		progress: progress,
	}
}

// ExecuteTransactionsParams contains the batch and submission options
type ExecuteTransactionsParams struct {
	Calls    []models.Call
	Metadata string
	Wait     bool
	Estimate bool
}

// ExecuteTransactionsResult contains the outcome of a submission
type ExecuteTransactionsResult struct {
	Safe      common.Address      `json:"safe"`
	Estimates []uint64            `json:"estimates,omitempty"`
	Pending   *PendingTransaction `json:"pending,omitempty"`
	// Final is set when waiting and the transaction settled
	Final   *models.RelayerTransaction `json:"final,omitempty"`
	Aborted bool                       `json:"aborted,omitempty"`
}

// Run executes the use case
func (uc *ExecuteTransactions) Run(ctx context.Context, params ExecuteTransactionsParams) (*ExecuteTransactionsResult, error) {
	owner, err := uc.client.SignerAddress()
	if err != nil {
		return nil, err
	}

	result := &ExecuteTransactionsResult{Safe: uc.client.SafeAddress(owner)}

	if params.Estimate {
		estimates, err := uc.client.EstimateCalls(ctx, params.Calls)
		if err != nil {
			return nil, err
		}
		result.Estimates = estimates
	}

	ok, err := uc.selector.Confirm(ctx, fmt.Sprintf("Submit %d call(s) from Safe %s", len(params.Calls), result.Safe.Hex()))
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Aborted = true
		return result, nil
	}

	pending, err := uc.client.SubmitBatch(ctx, params.Calls, params.Metadata)
	if err != nil {
		return nil, err
	}
	result.Pending = pending

	if params.Wait {
		final, err := pending.Wait(ctx)
		if err != nil {
			return result, fmt.Errorf("waiting for %s: %w", pending.TransactionID, err)
		}
		result.Final = final
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	return result, nil
}
