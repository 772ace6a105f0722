package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/pkg/safe"
)

// InspectAccount reports the derived wallets of an owner and their relayer status
type InspectAccount struct {
	client *RelayClient
}

// NewInspectAccount creates a new inspect account use case
func NewInspectAccount(client *RelayClient) *InspectAccount {
	return &InspectAccount{client: client}
}

// InspectAccountParams selects what to look up. An empty Owner means the signer.
type InspectAccountParams struct {
	Owner        string
	WithProxy    bool
	WithDeployed bool
	WithNonce    bool
	NonceType    models.TransactionType
}

// AccountInfo describes an owner's relayed wallets
type AccountInfo struct {
	ChainID  uint64          `json:"chainId" yaml:"chainId"`
	Owner    common.Address  `json:"owner" yaml:"owner"`
	Safe     common.Address  `json:"safe" yaml:"safe"`
	Proxy    *common.Address `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Deployed *bool           `json:"deployed,omitempty" yaml:"deployed,omitempty"`
	Nonce    string          `json:"nonce,omitempty" yaml:"nonce,omitempty"`
}

// Run executes the use case
func (uc *InspectAccount) Run(ctx context.Context, params InspectAccountParams) (*AccountInfo, error) {
	owner, err := uc.resolveOwner(params.Owner)
	if err != nil {
		return nil, err
	}

	info := &AccountInfo{
		ChainID: uc.client.ChainID(),
		Owner:   owner,
		Safe:    uc.client.SafeAddress(owner),
	}

	if params.WithProxy {
		proxy, err := uc.client.ProxyAddress(owner)
		if err != nil {
			return nil, err
		}
		info.Proxy = &proxy
	}

	if params.WithDeployed {
		deployed, err := uc.client.IsDeployed(ctx, info.Safe.Hex())
		if err != nil {
			return nil, err
		}
		info.Deployed = &deployed
	}

	if params.WithNonce {
		txType := params.NonceType
		if txType == "" {
			txType = models.TransactionTypeSafe
		}
		nonce, err := uc.client.GetNonce(ctx, owner.Hex(), txType)
		if err != nil {
			return nil, err
		}
		info.Nonce = nonce.Nonce
	}

	return info, nil
}

func (uc *InspectAccount) resolveOwner(owner string) (common.Address, error) {
	if owner == "" {
		return uc.client.SignerAddress()
	}
	addr, err := safe.ParseAddress(owner)
	if err != nil {
		return common.Address{}, fmt.Errorf("owner: %w", err)
	}
	return addr, nil
}
