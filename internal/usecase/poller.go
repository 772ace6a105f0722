package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

const (
	DefaultMaxPolls     = 10
	DefaultPollInterval = 2 * time.Second
	minPollInterval     = time.Second
)

// PollOptions control a polling loop
type PollOptions struct {
	TargetStates []models.TransactionState
	// FailState stops polling early when observed; empty disables the check
	FailState   models.TransactionState
	MaxAttempts int
	Interval    time.Duration
}

// normalized applies defaults. Intervals below one second fall back to the default.
func (o PollOptions) normalized() PollOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxPolls
	}
	if o.Interval < minPollInterval {
		o.Interval = DefaultPollInterval
	}
	return o
}

// Poller watches a relayer transaction until it reaches a target state
type Poller struct {
	api      RelayerAPI
	sleeper  Sleeper
	metrics  MetricsRecorder
	progress ProgressSink
	log      *slog.Logger
}

// NewPoller creates a new poller
func NewPoller(api RelayerAPI, sleeper Sleeper, metrics MetricsRecorder, progress ProgressSink, log *slog.Logger) *Poller {
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if progress == nil {
		progress = NopProgress{}
	}
	if log == nil {
		log = discardLogger()
	}
	return &Poller{
		api:      api,
		sleeper:  sleeper,
		metrics:  metrics,
		progress: progress,
		log:      log.With("component", "poller"),
	}
}

// PollUntilState fetches the transaction up to MaxAttempts times. It returns the record once
// its state is one of TargetStates, and nil without error when the fail state is observed or
// the attempts run out. Relayer errors and context cancellation abort the loop.
func (p *Poller) PollUntilState(ctx context.Context, transactionID string, opts PollOptions) (*models.RelayerTransaction, error) {
	opts = opts.normalized()

	p.log.Info("waiting for transaction", "id", transactionID, "states", opts.TargetStates)

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		p.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StagePolling,
			Current: attempt,
			Total:   opts.MaxAttempts,
			Message: fmt.Sprintf("Waiting for %s (%d/%d)", transactionID, attempt, opts.MaxAttempts),
			Spinner: true,
		})

		txs, err := p.api.GetTransaction(ctx, transactionID)
		if err != nil {
			p.metrics.ObservePoll(PollOutcomeError, attempt)
			return nil, err
		}

		if len(txs) > 0 {
			tx := txs[0]
			p.log.Debug("polled transaction", "id", transactionID, "attempt", attempt, "state", tx.State)

			if lo.Contains(opts.TargetStates, tx.State) {
				p.metrics.ObservePoll(PollOutcomeReached, attempt)
				return &tx, nil
			}
			if opts.FailState != "" && tx.State == opts.FailState {
				p.log.Error("transaction reached fail state", "id", transactionID, "state", tx.State, "hash", tx.TransactionHash)
				p.metrics.ObservePoll(PollOutcomeFailed, attempt)
				return nil, nil
			}
		} else {
			p.log.Debug("transaction not found", "id", transactionID, "attempt", attempt)
		}

		if attempt == opts.MaxAttempts {
			break
		}
		if err := p.sleeper.Sleep(ctx, opts.Interval); err != nil {
			p.metrics.ObservePoll(PollOutcomeError, attempt)
			return nil, err
		}
	}

	p.log.Warn("transaction not found or not in given states, timing out", "id", transactionID, "attempts", opts.MaxAttempts)
	p.metrics.ObservePoll(PollOutcomeTimeout, opts.MaxAttempts)
	return nil, nil
}
