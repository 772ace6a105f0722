package signer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/pkg/safe"
)

// KeystoreSigner signs with an encrypted key from a go-ethereum keystore directory.
// The key is decrypted for every signature and never kept unlocked.
type KeystoreSigner struct {
	ks         *keystore.KeyStore
	account    accounts.Account
	passphrase string
	estimator  ethereum.GasEstimator
}

// NewKeystoreSigner opens the keystore at dir. When address is empty the keystore must
// contain exactly one account.
func NewKeystoreSigner(dir, address, passphrase string, estimator ethereum.GasEstimator) (*KeystoreSigner, error) {
	ks := keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)

	account, err := selectAccount(ks, address)
	if err != nil {
		return nil, err
	}

	return &KeystoreSigner{
		ks:         ks,
		account:    account,
		passphrase: passphrase,
		estimator:  estimator,
	}, nil
}

func selectAccount(ks *keystore.KeyStore, address string) (accounts.Account, error) {
	if address != "" {
		if !common.IsHexAddress(address) {
			return accounts.Account{}, fmt.Errorf("invalid keystore account %q", address)
		}
		account, err := ks.Find(accounts.Account{Address: common.HexToAddress(address)})
		if err != nil {
			return accounts.Account{}, fmt.Errorf("keystore account %s: %w", address, err)
		}
		return account, nil
	}

	all := ks.Accounts()
	switch len(all) {
	case 0:
		return accounts.Account{}, fmt.Errorf("keystore contains no accounts")
	case 1:
		return all[0], nil
	default:
		addrs := make([]string, 0, len(all))
		for _, a := range all {
			addrs = append(addrs, a.Address.Hex())
		}
		return accounts.Account{}, fmt.Errorf("keystore contains %d accounts, select one of: %s", len(all), strings.Join(addrs, ", "))
	}
}

// Address implements safe.Signer
func (s *KeystoreSigner) Address() common.Address {
	return s.account.Address
}

// SignMessage implements safe.Signer
func (s *KeystoreSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return s.signHash(accounts.TextHash(message))
}

// SignTypedData implements safe.Signer
func (s *KeystoreSigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	digest, err := safe.HashTypedData(typedData)
	if err != nil {
		return nil, err
	}
	return s.signHash(digest.Bytes())
}

// EstimateGas implements safe.Signer
func (s *KeystoreSigner) EstimateGas(ctx context.Context, from common.Address, call models.Call) (uint64, error) {
	return estimateGas(ctx, s.estimator, from, call)
}

func (s *KeystoreSigner) signHash(hash []byte) ([]byte, error) {
	sig, err := s.ks.SignHashWithPassphrase(s.account, s.passphrase, hash)
	if err != nil {
		return nil, fmt.Errorf("keystore signing failed: %w", err)
	}
	return toWalletSignature(sig), nil
}

var _ safe.Signer = (*KeystoreSigner)(nil)
