// Package signer provides the signing backends used to authorize relayed Safe transactions.
package signer

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/pkg/safe"
)

// NewSigner builds the configured signer backend. It returns a nil Signer when no key
// material is configured so read-only commands keep working.
func NewSigner(cfg *config.RuntimeConfig) (safe.Signer, error) {
	if !cfg.HasSigner() {
		return nil, nil
	}

	var estimator ethereum.GasEstimator
	if cfg.RPCURL != "" {
		client, err := ethclient.Dial(cfg.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RPC %s: %w", cfg.RPCURL, err)
		}
		estimator = client
	}

	if cfg.PrivateKey != "" {
		local, err := NewLocalSigner(cfg.PrivateKey, estimator)
		if err != nil {
			return nil, err
		}
		return local, nil
	}

	ks, err := NewKeystoreSigner(cfg.KeystorePath, cfg.KeystoreAccount, cfg.KeystorePassword, estimator)
	if err != nil {
		return nil, err
	}
	return ks, nil
}

// toWalletSignature shifts the recovery id to 27/28 the way wallets return signatures
func toWalletSignature(sig []byte) []byte {
	out := make([]byte, len(sig))
	copy(out, sig)
	if len(out) == 65 && out[64] < 27 {
		out[64] += 27
	}
	return out
}

func estimateGas(ctx context.Context, estimator ethereum.GasEstimator, from common.Address, call models.Call) (uint64, error) {
	if estimator == nil {
		return 0, domain.ErrNoGasEstimator
	}

	to := call.To
	gas, err := estimator.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: call.ValueOrZero(),
		Data:  call.Data,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to estimate gas: %w", err)
	}
	return gas, nil
}
