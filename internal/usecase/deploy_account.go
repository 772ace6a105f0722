package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

// DeployAccount deploys the signer's Safe through the relayer
type DeployAccount struct {
	client   *RelayClient
	selector InteractiveSelector
	progress ProgressSink
}

// NewDeployAccount creates a new deploy account use case
func NewDeployAccount(client *RelayClient, selector InteractiveSelector, progress ProgressSink) *DeployAccount {
	return &DeployAccount{
		client:   client,
		selector: selector,
		progress: progress,
	}
}

// DeployAccountParams contains deployment options
type DeployAccountParams struct {
	Wait bool
}

// DeployAccountResult contains the outcome of a deployment request
type DeployAccountResult struct {
	Owner   common.Address             `json:"owner"`
	Safe    common.Address             `json:"safe"`
	Pending *PendingTransaction        `json:"pending,omitempty"`
	Final   *models.RelayerTransaction `json:"final,omitempty"`
	Aborted bool                       `json:"aborted,omitempty"`
}

// Run executes the use case
func (uc *DeployAccount) Run(ctx context.Context, params DeployAccountParams) (*DeployAccountResult, error) {
	owner, err := uc.client.SignerAddress()
	if err != nil {
		return nil, err
	}

	result := &DeployAccountResult{
		Owner: owner,
		Safe:  uc.client.SafeAddress(owner),
	}

	ok, err := uc.selector.Confirm(ctx, fmt.Sprintf("Deploy Safe %s for %s", result.Safe.Hex(), owner.Hex()))
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Aborted = true
		return result, nil
	}

	pending, err := uc.client.DeploySafe(ctx)
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
