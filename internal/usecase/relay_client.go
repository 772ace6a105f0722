package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/pkg/safe"
)

// RelayClient builds, signs and submits Safe transactions through the relayer.
// Reads are never cached and mutations are never retried.
type RelayClient struct {
	api          RelayerAPI
	signer       safe.Signer
	chainID      uint64
	contracts    config.ContractConfig
	poller       *Poller
	pollInterval time.Duration
	metrics      MetricsRecorder
	progress     ProgressSink
	log          *slog.Logger
}

// NewRelayClient creates a relay client. signer may be nil for read-only use.
func NewRelayClient(
	cfg *config.RuntimeConfig,
	api RelayerAPI,
	signer safe.Signer,
	poller *Poller,
	metrics MetricsRecorder,
	progress ProgressSink,
	log *slog.Logger,
) *RelayClient {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if progress == nil {
		progress = NopProgress{}
	}
	if log == nil {
		log = discardLogger()
	}

	return &RelayClient{
		api:          api,
		signer:       signer,
		chainID:      cfg.ChainID,
		contracts:    cfg.Contracts,
		poller:       poller,
		pollInterval: cfg.Poll.Interval,
		metrics:      metrics,
		progress:     progress,
		log:          log.With("component", "relay", "chain_id", cfg.ChainID),
	}
}

// ChainID returns the chain the client signs for
func (c *RelayClient) ChainID() uint64 {
	return c.chainID
}

// Contracts returns the contract set resolved for the chain
func (c *RelayClient) Contracts() config.ContractConfig {
	return c.contracts
}

// HasSigner reports whether mutating operations are available
func (c *RelayClient) HasSigner() bool {
	return c.signer != nil
}

// SignerAddress returns the address of the configured signer
func (c *RelayClient) SignerAddress() (common.Address, error) {
	if c.signer == nil {
		return common.Address{}, domain.ErrSignerUnavailable
	}
	return c.signer.Address(), nil
}

// SafeAddress derives the Safe owned by owner on this chain
func (c *RelayClient) SafeAddress(owner common.Address) common.Address {
	return safe.DeriveSafeAddress(owner, c.contracts.SafeContracts.SafeFactory)
}

// ProxyAddress derives the legacy proxy wallet owned by owner
func (c *RelayClient) ProxyAddress(owner common.Address) (common.Address, error) {
	if !c.contracts.HasProxyContracts() {
		return common.Address{}, fmt.Errorf("%w: no proxy factory on chain %d", domain.ErrUnsupportedNetwork, c.chainID)
	}
	return safe.DeriveProxyAddress(owner, c.contracts.ProxyContracts.ProxyFactory), nil
}

// GetNonce returns the relayer nonce for a signer address and transaction type
func (c *RelayClient) GetNonce(ctx context.Context, signerAddress string, txType models.TransactionType) (*models.NoncePayload, error) {
	return c.api.GetNonce(ctx, signerAddress, txType)
}

// GetTransaction returns the relayer records for a transaction id
func (c *RelayClient) GetTransaction(ctx context.Context, transactionID string) ([]models.RelayerTransaction, error) {
	return c.api.GetTransaction(ctx, transactionID)
}

// GetTransactions lists the caller's transactions
func (c *RelayClient) GetTransactions(ctx context.Context) ([]models.RelayerTransaction, error) {
	return c.api.GetTransactions(ctx)
}

// IsDeployed reports whether the Safe at safeAddress exists
func (c *RelayClient) IsDeployed(ctx context.Context, safeAddress string) (bool, error) {
	return c.api.GetDeployed(ctx, safeAddress)
}

// PollUntilState delegates to the poller
func (c *RelayClient) PollUntilState(ctx context.Context, transactionID string, opts PollOptions) (*models.RelayerTransaction, error) {
	return c.poller.PollUntilState(ctx, transactionID, opts)
}

// SubmitBatch executes calls from the signer's deployed Safe. It performs one nonce
// fetch and one submission.
func (c *RelayClient) SubmitBatch(ctx context.Context, calls []models.Call, metadata string) (*PendingTransaction, error) {
	if c.signer == nil {
		return nil, domain.ErrSignerUnavailable
	}
	if len(calls) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	start := time.Now()
	from := c.signer.Address()
	safeAddress := c.SafeAddress(from)

	deployed, err := c.api.GetDeployed(ctx, safeAddress.Hex())
	if err != nil {
		return nil, err
	}
	if !deployed {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotDeployed, safeAddress.Hex())
	}

	noncePayload, err := c.api.GetNonce(ctx, from.Hex(), models.TransactionTypeSafe)
	if err != nil {
		return nil, err
	}
	nonce, ok := new(big.Int).SetString(noncePayload.Nonce, 10)
	if !ok || nonce.Sign() < 0 {
		return nil, fmt.Errorf("relayer returned invalid nonce %q", noncePayload.Nonce)
	}

	c.progress.OnProgress(ctx, ProgressEvent{Stage: StageSigning, Message: "Signing Safe transaction", Spinner: true})

	request, err := safe.BuildSafeTransactionRequest(ctx, c.signer, safe.SafeTransactionArgs{
		From:    from,
		Nonce:   nonce,
		ChainID: c.chainID,
		Calls:   calls,
	}, c.contracts.SafeContracts, metadata)
	if err != nil {
		return nil, err
	}
	c.log.Info("client side safe request creation", "duration", time.Since(start), "safe", safeAddress.Hex(), "nonce", nonce, "calls", len(calls))

	return c.submit(ctx, request)
}

// DeploySafe deploys the signer's Safe through the factory with no payment
func (c *RelayClient) DeploySafe(ctx context.Context) (*PendingTransaction, error) {
	if c.signer == nil {
		return nil, domain.ErrSignerUnavailable
	}

	start := time.Now()
	from := c.signer.Address()
	safeAddress := c.SafeAddress(from)

	deployed, err := c.api.GetDeployed(ctx, safeAddress.Hex())
	if err != nil {
		return nil, err
	}
	if deployed {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountAlreadyDeployed, safeAddress.Hex())
	}

	c.progress.OnProgress(ctx, ProgressEvent{Stage: StageSigning, Message: "Signing Safe deployment", Spinner: true})

	request, err := safe.BuildSafeCreateTransactionRequest(ctx, c.signer, safe.SafeCreateArgs{
		From:            from,
		ChainID:         c.chainID,
		PaymentToken:    safe.ZeroAddress,
		Payment:         new(big.Int),
		PaymentReceiver: safe.ZeroAddress,
	}, c.contracts.SafeContracts)
	if err != nil {
		return nil, err
	}
	c.log.Info("client side deploy request creation", "duration", time.Since(start), "safe", safeAddress.Hex())

	return c.submit(ctx, request)
}

// EstimateCalls estimates gas for each call as executed from the signer's Safe
func (c *RelayClient) EstimateCalls(ctx context.Context, calls []models.Call) ([]uint64, error) {
	if c.signer == nil {
		return nil, domain.ErrSignerUnavailable
	}

	from := c.SafeAddress(c.signer.Address())
	estimates := make([]uint64, 0, len(calls))
	for i, call := range calls {
		gas, err := c.signer.EstimateGas(ctx, from, call)
		if err != nil {
			return nil, fmt.Errorf("call %d: %w", i, err)
		}
		estimates = append(estimates, gas)
	}
	return estimates, nil
}

func (c *RelayClient) submit(ctx context.Context, request *models.TransactionRequest) (*PendingTransaction, error) {
	c.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting, Message: "Submitting to relayer", Spinner: true})

	start := time.Now()
	resp, err := c.api.Submit(ctx, request)
	c.metrics.ObserveSubmission(request.Type, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	c.log.Info("transaction submitted", "id", resp.TransactionID, "state", resp.State, "type", request.Type)
	c.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Submitted " + resp.TransactionID})
	return newPendingTransaction(resp, c), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
