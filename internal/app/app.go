package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-relay/internal/adapters/metrics"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Shared dependencies
	Client  *usecase.RelayClient
	Metrics *metrics.Recorder

	// Use cases
	ExecuteTransactions *usecase.ExecuteTransactions
	DeployAccount       *usecase.DeployAccount
	WatchTransaction    *usecase.WatchTransaction
	InspectAccount      *usecase.InspectAccount
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	client *usecase.RelayClient,
	recorder *metrics.Recorder,
	executeTransactions *usecase.ExecuteTransactions,
	deployAccount *usecase.DeployAccount,
	watchTransaction *usecase.WatchTransaction,
	inspectAccount *usecase.InspectAccount,
) (*App, error) {
	return &App{
		Config:              cfg,
		Logger:              logger,
		Client:              client,
		Metrics:             recorder,
		ExecuteTransactions: executeTransactions,
		DeployAccount:       deployAccount,
		WatchTransaction:    watchTransaction,
		InspectAccount:      inspectAccount,
	}, nil
}
