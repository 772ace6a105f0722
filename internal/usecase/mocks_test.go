package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

type mockRelayerAPI struct {
	mock.Mock
}

func (m *mockRelayerAPI) GetNonce(ctx context.Context, signerAddress string, txType models.TransactionType) (*models.NoncePayload, error) {
	args := m.Called(ctx, signerAddress, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NoncePayload), args.Error(1)
}

func (m *mockRelayerAPI) GetTransaction(ctx context.Context, transactionID string) ([]models.RelayerTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RelayerTransaction), args.Error(1)
}

func (m *mockRelayerAPI) GetTransactions(ctx context.Context) ([]models.RelayerTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RelayerTransaction), args.Error(1)
}

func (m *mockRelayerAPI) GetDeployed(ctx context.Context, safeAddress string) (bool, error) {
	args := m.Called(ctx, safeAddress)
	return args.Bool(0), args.Error(1)
}

func (m *mockRelayerAPI) Submit(ctx context.Context, request *models.TransactionRequest) (*models.SubmitResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResponse), args.Error(1)
}

// recordingSleeper records requested delays without sleeping
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
	err    error
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	if s.err != nil {
		return s.err
	}
	return ctx.Err()
}

type pollObservation struct {
	outcome  PollOutcome
	attempts int
}

type recordingMetrics struct {
	submissions []models.TransactionType
	polls       []pollObservation
}

func (m *recordingMetrics) ObserveSubmission(txType models.TransactionType, _ time.Duration, _ error) {
	m.submissions = append(m.submissions, txType)
}

func (m *recordingMetrics) ObservePoll(outcome PollOutcome, attempts int) {
	m.polls = append(m.polls, pollObservation{outcome: outcome, attempts: attempts})
}

func txWithState(id string, state models.TransactionState) []models.RelayerTransaction {
	return []models.RelayerTransaction{{TransactionID: id, State: state}}
}

type mockSelector struct {
	mock.Mock
}

func (m *mockSelector) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

func (m *mockSelector) SelectTransaction(ctx context.Context, txs []models.RelayerTransaction, prompt string) (*models.RelayerTransaction, error) {
	args := m.Called(ctx, txs, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RelayerTransaction), args.Error(1)
}
