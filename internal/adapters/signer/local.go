package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/pkg/safe"
)

// LocalSigner signs with an in-memory private key
type LocalSigner struct {
	key       *ecdsa.PrivateKey
	address   common.Address
	estimator ethereum.GasEstimator
}

// NewLocalSigner parses a hex private key (with or without 0x prefix).
// estimator may be nil, in which case EstimateGas fails with ErrNoGasEstimator.
func NewLocalSigner(privateKeyHex string, estimator ethereum.GasEstimator) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &LocalSigner{
		key:       key,
		address:   crypto.PubkeyToAddress(key.PublicKey),
		estimator: estimator,
	}, nil
}

// Address implements safe.Signer
func (s *LocalSigner) Address() common.Address {
	return s.address
}

// SignMessage implements safe.Signer
func (s *LocalSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return s.signHash(accounts.TextHash(message))
}

// SignTypedData implements safe.Signer
func (s *LocalSigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	digest, err := safe.HashTypedData(typedData)
	if err != nil {
		return nil, err
	}
	return s.signHash(digest.Bytes())
}

// EstimateGas implements safe.Signer
func (s *LocalSigner) EstimateGas(ctx context.Context, from common.Address, call models.Call) (uint64, error) {
	return estimateGas(ctx, s.estimator, from, call)
}

func (s *LocalSigner) signHash(hash []byte) ([]byte, error) {
	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return toWalletSignature(sig), nil
}

var _ safe.Signer = (*LocalSigner)(nil)
