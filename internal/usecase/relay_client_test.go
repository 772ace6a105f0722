package usecase

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-relay/internal/adapters/signer"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/pkg/safe"
)

const (
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	approveData    = "0x095ea7b30000000000000000000000004d97dcd97ec945f40cf65f87097ace5ea0476045ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	safeSignature  = "0xf368488355b0566e99eff3bccc35e98b77d8f3a6e6866176188488c34f0305b07e4a4c600c7a1592e4ac1e96b5887ebff2cb26987a3ad501006b39944df098c21f"
)

var (
	owner = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	usdc  = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
)

func testConfig(t *testing.T) *config.RuntimeConfig {
	t.Helper()
	contracts, err := config.DefaultContractTable().Lookup(137)
	require.NoError(t, err)
	return &config.RuntimeConfig{ChainID: 137, Contracts: contracts}
}

func newTestClient(t *testing.T, api *mockRelayerAPI, withSigner bool) (*RelayClient, *recordingMetrics, *recordingSleeper) {
	t.Helper()

	var s safe.Signer
	if withSigner {
		local, err := signer.NewLocalSigner(testPrivateKey, nil)
		require.NoError(t, err)
		s = local
	}

	metrics := &recordingMetrics{}
	sleeper := &recordingSleeper{}
	poller := NewPoller(api, sleeper, metrics, nil, nil)
	return NewRelayClient(testConfig(t), api, s, poller, metrics, nil, nil), metrics, sleeper
}

func approveCall() models.Call {
	return models.NewCall(usdc, big.NewInt(0), hexutil.MustDecode(approveData), models.OperationCall)
}

func TestSubmitBatch_RequiresSigner(t *testing.T) {
	api := &mockRelayerAPI{}
	client, _, _ := newTestClient(t, api, false)

	_, err := client.SubmitBatch(context.Background(), []models.Call{approveCall()}, "")
	assert.ErrorIs(t, err, domain.ErrSignerUnavailable)
	api.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmitBatch_RejectsEmptyBatch(t *testing.T) {
	api := &mockRelayerAPI{}
	client, _, _ := newTestClient(t, api, true)

	_, err := client.SubmitBatch(context.Background(), nil, "")
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
	assert.Empty(t, api.Calls)
}

func TestSubmitBatch_RequiresDeployedSafe(t *testing.T) {
	api := &mockRelayerAPI{}
	client, _, _ := newTestClient(t, api, true)
	safeAddress := client.SafeAddress(owner).Hex()

	api.On("GetDeployed", mock.Anything, safeAddress).Return(false, nil).Once()

	_, err := client.SubmitBatch(context.Background(), []models.Call{approveCall()}, "")
	assert.ErrorIs(t, err, domain.ErrAccountNotDeployed)
	api.AssertNotCalled(t, "GetNonce", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmitBatch_SingleCall(t *testing.T) {
	api := &mockRelayerAPI{}
	client, metrics, _ := newTestClient(t, api, true)
	safeAddress := client.SafeAddress(owner).Hex()

	api.On("GetDeployed", mock.Anything, safeAddress).Return(true, nil).Once()
	api.On("GetNonce", mock.Anything, owner.Hex(), models.TransactionTypeSafe).Return(&models.NoncePayload{Nonce: "0"}, nil).Once()

	var submitted *models.TransactionRequest
	api.On("Submit", mock.Anything, mock.AnythingOfType("*models.TransactionRequest")).
		Run(func(args mock.Arguments) { submitted = args.Get(1).(*models.TransactionRequest) }).
		Return(&models.SubmitResponse{TransactionID: "tx-1", State: models.StateNew, TransactionHash: "0xabc"}, nil).Once()

	pending, err := client.SubmitBatch(context.Background(), []models.Call{approveCall()}, "approve usdc")
	require.NoError(t, err)

	assert.Equal(t, "tx-1", pending.TransactionID)
	assert.Equal(t, models.StateNew, pending.State)
	assert.Equal(t, "0xabc", pending.TransactionHash)
	assert.Equal(t, pending.TransactionHash, pending.Hash)

	require.NotNil(t, submitted)
	assert.Equal(t, models.TransactionTypeSafe, submitted.Type)
	assert.Equal(t, owner.Hex(), submitted.From)
	assert.Equal(t, usdc.Hex(), submitted.To)
	assert.Equal(t, safeAddress, submitted.ProxyWallet)
	assert.Equal(t, approveData, submitted.Data)
	assert.Equal(t, "0", submitted.Nonce)
	assert.Equal(t, safeSignature, submitted.Signature)
	assert.Equal(t, "approve usdc", submitted.Metadata)

	api.AssertNumberOfCalls(t, "GetNonce", 1)
	api.AssertNumberOfCalls(t, "Submit", 1)
	assert.Equal(t, []models.TransactionType{models.TransactionTypeSafe}, metrics.submissions)
}

func TestSubmitBatch_MultipleCallsUseMultisend(t *testing.T) {
	api := &mockRelayerAPI{}
	client, _, _ := newTestClient(t, api, true)

	api.On("GetDeployed", mock.Anything, mock.Anything).Return(true, nil)
	api.On("GetNonce", mock.Anything, mock.Anything, models.TransactionTypeSafe).Return(&models.NoncePayload{Nonce: "5"}, nil)

	var submitted *models.TransactionRequest
	api.On("Submit", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { submitted = args.Get(1).(*models.TransactionRequest) }).
		Return(&models.SubmitResponse{TransactionID: "tx-2", State: models.StateNew}, nil)

	_, err := client.SubmitBatch(context.Background(), []models.Call{approveCall(), approveCall()}, "")
	require.NoError(t, err)

	require.NotNil(t, submitted)
	assert.Equal(t, client.Contracts().SafeContracts.SafeMultisend.Hex(), submitted.To)
	assert.Equal(t, "5", submitted.Nonce)
	params, ok := submitted.SignatureParams.(models.SafeSignatureParams)
	require.True(t, ok)
	assert.Equal(t, "1", params.Operation)
}

func TestSubmitBatch_SubmitErrorIsNotRetried(t *testing.T) {
	boom := errors.New("relayer down")
	api := &mockRelayerAPI{}
	client, _, _ := newTestClient(t, api, true)

	api.On("GetDeployed", mock.Anything, mock.Anything).Return(true, nil)
	api.On("GetNonce", mock.Anything, mock.Anything, mock.Anything).Return(&models.NoncePayload{Nonce: "1"}, nil)
	api.On("Submit", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := client.SubmitBatch(context.Background(), []models.Call{approveCall()}, "")
	assert.ErrorIs(t, err, boom)
	api.AssertNumberOfCalls(t, "GetNonce", 1)
	api.AssertNumberOfCalls(t, "Submit", 1)
}

func TestSubmitBatch_InvalidNonce(t *testing.T) {
	api := &mockRelayerAPI{}
	client, _, _ := newTestClient(t, api, true)

	api.On("GetDeployed", mock.Anything, mock.Anything).Return(true, nil)
	api.On("GetNonce", mock.Anything, mock.Anything, mock.Anything).Return(&models.NoncePayload{Nonce: "abc"}, nil)

	_, err := client.SubmitBatch(context.Background(), []models.Call{approveCall()}, "")
	assert.ErrorContains(t, err, "invalid nonce")
	api.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestDeploySafe(t *testing.T) {
	t.Run("requires signer", func(t *testing.T) {
		client, _, _ := newTestClient(t, &mockRelayerAPI{}, false)
		_, err := client.DeploySafe(context.Background())
		assert.ErrorIs(t, err, domain.ErrSignerUnavailable)
	})

	t.Run("already deployed", func(t *testing.T) {
		api := &mockRelayerAPI{}
		client, _, _ := newTestClient(t, api, true)
		api.On("GetDeployed", mock.Anything, client.SafeAddress(owner).Hex()).Return(true, nil)

		_, err := client.DeploySafe(context.Background())
		assert.ErrorIs(t, err, domain.ErrAccountAlreadyDeployed)
		api.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("submits create request", func(t *testing.T) {
		api := &mockRelayerAPI{}
		client, metrics, _ := newTestClient(t, api, true)
		api.On("GetDeployed", mock.Anything, mock.Anything).Return(false, nil)

		var submitted *models.TransactionRequest
		api.On("Submit", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { submitted = args.Get(1).(*models.TransactionRequest) }).
			Return(&models.SubmitResponse{TransactionID: "tx-3", State: models.StateNew}, nil).Once()

		pending, err := client.DeploySafe(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tx-3", pending.TransactionID)

		require.NotNil(t, submitted)
		assert.Equal(t, models.TransactionTypeSafeCreate, submitted.Type)
		assert.Equal(t, client.Contracts().SafeContracts.SafeFactory.Hex(), submitted.To)
		params, ok := submitted.SignatureParams.(models.CreateSignatureParams)
		require.True(t, ok)
		assert.Equal(t, "0", params.Payment)
		assert.Equal(t, safe.ZeroAddress.Hex(), params.PaymentToken)

		api.AssertNotCalled(t, "GetNonce", mock.Anything, mock.Anything, mock.Anything)
		api.AssertNumberOfCalls(t, "Submit", 1)
		assert.Equal(t, []models.TransactionType{models.TransactionTypeSafeCreate}, metrics.submissions)
	})
}

func TestReads_AreNotCached(t *testing.T) {
	api := &mockRelayerAPI{}
	client, _, _ := newTestClient(t, api, false)

	api.On("GetNonce", mock.Anything, owner.Hex(), models.TransactionTypeSafe).Return(&models.NoncePayload{Nonce: "2"}, nil)
	api.On("GetDeployed", mock.Anything, "0x1").Return(true, nil)
	api.On("GetTransaction", mock.Anything, "tx").Return(txWithState("tx", models.StateNew), nil)
	api.On("GetTransactions", mock.Anything).Return([]models.RelayerTransaction{}, nil)

	for i := 0; i < 2; i++ {
		nonce, err := client.GetNonce(context.Background(), owner.Hex(), models.TransactionTypeSafe)
		require.NoError(t, err)
		assert.Equal(t, "2", nonce.Nonce)

		deployed, err := client.IsDeployed(context.Background(), "0x1")
		require.NoError(t, err)
		assert.True(t, deployed)

		txs, err := client.GetTransaction(context.Background(), "tx")
		require.NoError(t, err)
		assert.Len(t, txs, 1)

		_, err = client.GetTransactions(context.Background())
		require.NoError(t, err)
	}

	api.AssertNumberOfCalls(t, "GetNonce", 2)
	api.AssertNumberOfCalls(t, "GetDeployed", 2)
	api.AssertNumberOfCalls(t, "GetTransaction", 2)
	api.AssertNumberOfCalls(t, "GetTransactions", 2)
}

func TestPendingTransaction_Wait(t *testing.T) {
	api := &mockRelayerAPI{}
	client, _, sleeper := newTestClient(t, api, true)

	api.On("GetDeployed", mock.Anything, mock.Anything).Return(true, nil)
	api.On("GetNonce", mock.Anything, mock.Anything, mock.Anything).Return(&models.NoncePayload{Nonce: "0"}, nil)
	api.On("Submit", mock.Anything, mock.Anything).Return(&models.SubmitResponse{TransactionID: "tx-9", State: models.StateNew}, nil)

	pending, err := client.SubmitBatch(context.Background(), []models.Call{approveCall()}, "")
	require.NoError(t, err)

	api.On("GetTransaction", mock.Anything, "tx-9").Return(txWithState("tx-9", models.StateExecuted), nil).Twice()
	api.On("GetTransaction", mock.Anything, "tx-9").Return(txWithState("tx-9", models.StateMined), nil).Once()

	tx, err := pending.Wait(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, models.StateMined, tx.State)
	assert.Equal(t, []time.Duration{DefaultPollInterval, DefaultPollInterval}, sleeper.delays)
}

func TestPendingTransaction_WaitGivesUpAfterThirtyPolls(t *testing.T) {
	api := &mockRelayerAPI{}
	client, _, _ := newTestClient(t, api, false)
	pending := newPendingTransaction(&models.SubmitResponse{TransactionID: "tx"}, client)

	api.On("GetTransaction", mock.Anything, "tx").Return(txWithState("tx", models.StateNew), nil)

	tx, err := pending.Wait(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tx)
	api.AssertNumberOfCalls(t, "GetTransaction", WaitMaxPolls)
}

func TestProxyAddress(t *testing.T) {
	client, _, _ := newTestClient(t, &mockRelayerAPI{}, false)
	addr, err := client.ProxyAddress(owner)
	require.NoError(t, err)
	assert.Equal(t, safe.DeriveProxyAddress(owner, client.Contracts().ProxyContracts.ProxyFactory), addr)

	amoy, err := config.DefaultContractTable().Lookup(80002)
	require.NoError(t, err)
	amoyClient := NewRelayClient(&config.RuntimeConfig{ChainID: 80002, Contracts: amoy}, &mockRelayerAPI{}, nil, nil, nil, nil, nil)
	_, err = amoyClient.ProxyAddress(owner)
	assert.ErrorIs(t, err, domain.ErrUnsupportedNetwork)
}

func TestEstimateCalls_PropagatesMissingEstimator(t *testing.T) {
	client, _, _ := newTestClient(t, &mockRelayerAPI{}, true)
	_, err := client.EstimateCalls(context.Background(), []models.Call{approveCall()})
	assert.ErrorIs(t, err, domain.ErrNoGasEstimator)
}
