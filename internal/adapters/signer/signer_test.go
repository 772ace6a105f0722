package signer

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/pkg/safe"
)

const (
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	approveData = "0x095ea7b30000000000000000000000004d97dcd97ec945f40cf65f87097ace5ea0476045ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"

	expectedSafeSignature   = "0xf368488355b0566e99eff3bccc35e98b77d8f3a6e6866176188488c34f0305b07e4a4c600c7a1592e4ac1e96b5887ebff2cb26987a3ad501006b39944df098c21f"
	expectedCreateSignature = "0xe3e791c24134b7bebe93b4771bd07c7fe7bbe115eeb0bf629ac3b7a435e7ac8d05f979729d873f7d0e16205becf48ee450aa382bc28c65eedcd6454e81d81f921b"
)

var usdc = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")

func newKeystoreSigner(t *testing.T) *KeystoreSigner {
	t.Helper()

	dir := t.TempDir()
	key, err := crypto.HexToECDSA(testPrivateKey[2:])
	require.NoError(t, err)

	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	_, err = ks.ImportECDSA(key, "secret")
	require.NoError(t, err)

	s, err := NewKeystoreSigner(dir, "", "secret", nil)
	require.NoError(t, err)
	return s
}

func signers(t *testing.T) map[string]safe.Signer {
	t.Helper()

	local, err := NewLocalSigner(testPrivateKey, nil)
	require.NoError(t, err)

	return map[string]safe.Signer{
		"local":    local,
		"keystore": newKeystoreSigner(t),
	}
}

func TestSigners_Address(t *testing.T) {
	for name, s := range signers(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, common.HexToAddress(testAddress), s.Address())
		})
	}
}

func TestSigners_SafeTransactionVector(t *testing.T) {
	contracts := config.DefaultContractTable()[137].SafeContracts
	call := models.NewCall(usdc, big.NewInt(0), hexutil.MustDecode(approveData), models.OperationCall)

	for name, s := range signers(t) {
		t.Run(name, func(t *testing.T) {
			req, err := safe.BuildSafeTransactionRequest(context.Background(), s, safe.SafeTransactionArgs{
				From:    s.Address(),
				Nonce:   big.NewInt(0),
				ChainID: 137,
				Calls:   []models.Call{call},
			}, contracts, "")
			require.NoError(t, err)

			assert.Equal(t, expectedSafeSignature, req.Signature)
			assert.Equal(t, models.TransactionTypeSafe, req.Type)
			assert.Equal(t, usdc.Hex(), req.To)
			assert.Equal(t, approveData, req.Data)
			assert.Equal(t, "0", req.Nonce)
		})
	}
}

func TestSigners_SafeCreateVector(t *testing.T) {
	contracts := config.DefaultContractTable()[137].SafeContracts

	for name, s := range signers(t) {
		t.Run(name, func(t *testing.T) {
			req, err := safe.BuildSafeCreateTransactionRequest(context.Background(), s, safe.SafeCreateArgs{
				From:            s.Address(),
				ChainID:         137,
				PaymentToken:    safe.ZeroAddress,
				Payment:         big.NewInt(0),
				PaymentReceiver: safe.ZeroAddress,
			}, contracts)
			require.NoError(t, err)

			assert.Equal(t, expectedCreateSignature, req.Signature)
			assert.Equal(t, contracts.SafeFactory.Hex(), req.To)
			assert.Equal(t, safe.DeriveSafeAddress(s.Address(), contracts.SafeFactory).Hex(), req.ProxyWallet)
		})
	}
}

func TestSigners_RecoveryIDIsShifted(t *testing.T) {
	for name, s := range signers(t) {
		t.Run(name, func(t *testing.T) {
			sig, err := s.SignMessage(context.Background(), []byte("hello"))
			require.NoError(t, err)
			require.Len(t, sig, 65)
			assert.Contains(t, []byte{27, 28}, sig[64])
		})
	}
}

func TestLocalSigner_InvalidKey(t *testing.T) {
	_, err := NewLocalSigner("0xnothex", nil)
	assert.Error(t, err)
}

func TestKeystoreSigner_UnknownAccount(t *testing.T) {
	dir := t.TempDir()
	_, err := NewKeystoreSigner(dir, "", "secret", nil)
	assert.ErrorContains(t, err, "no accounts")

	_, err = NewKeystoreSigner(dir, "0x0000000000000000000000000000000000000001", "secret", nil)
	assert.Error(t, err)
}

func TestKeystoreSigner_WrongPassphrase(t *testing.T) {
	s := newKeystoreSigner(t)
	s.passphrase = "wrong"

	_, err := s.SignMessage(context.Background(), []byte("hello"))
	assert.ErrorIs(t, err, keystore.ErrDecrypt)
}

func TestEstimateGas_NoEstimator(t *testing.T) {
	local, err := NewLocalSigner(testPrivateKey, nil)
	require.NoError(t, err)

	_, err = local.EstimateGas(context.Background(), local.Address(), models.NewCall(usdc, nil, nil, models.OperationCall))
	assert.ErrorIs(t, err, domain.ErrNoGasEstimator)
}

func TestNewSigner_NothingConfigured(t *testing.T) {
	s, err := NewSigner(&config.RuntimeConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)
}
