package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

// RelayerAPI is the remote relayer service
type RelayerAPI interface {
	GetNonce(ctx context.Context, signerAddress string, txType models.TransactionType) (*models.NoncePayload, error)
	GetTransaction(ctx context.Context, transactionID string) ([]models.RelayerTransaction, error)
	GetTransactions(ctx context.Context) ([]models.RelayerTransaction, error)
	GetDeployed(ctx context.Context, safeAddress string) (bool, error)
	Submit(ctx context.Context, request *models.TransactionRequest) (*models.SubmitResponse, error)
}

// HeaderGenerator produces authentication headers for relayer requests.
// A nil header set means the request goes out unauthenticated.
type HeaderGenerator interface {
	GenerateHeaders(ctx context.Context, method, path string, body []byte) (http.Header, error)
}

// Sleeper waits between polling attempts and returns early when ctx is done
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// InteractiveSelector asks the user to confirm or choose
type InteractiveSelector interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
	SelectTransaction(ctx context.Context, txs []models.RelayerTransaction, prompt string) (*models.RelayerTransaction, error)
}

// MetricsRecorder observes relayer activity
type MetricsRecorder interface {
	ObserveSubmission(txType models.TransactionType, duration time.Duration, err error)
	ObservePoll(outcome PollOutcome, attempts int)
}

// PollOutcome is the terminal result of a polling loop
type PollOutcome string

const (
	PollOutcomeReached PollOutcome = "reached"
	PollOutcomeFailed  PollOutcome = "failed"
	PollOutcomeTimeout PollOutcome = "timeout"
	PollOutcomeError   PollOutcome = "error"
)

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Progress stages reported by relay operations
const (
	StageSigning    = "signing"
	StageSubmitting = "submitting"
	StagePolling    = "polling"
	StageCompleted  = "completed"
)

// TimerSleeper sleeps on a real timer
type TimerSleeper struct{}

// Sleep implements Sleeper
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NopMetrics discards all observations
type NopMetrics struct{}

func (NopMetrics) ObserveSubmission(models.TransactionType, time.Duration, error) {}
func (NopMetrics) ObservePoll(PollOutcome, int)                                   {}
