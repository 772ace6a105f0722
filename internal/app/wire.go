//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-relay/internal/adapters"
	"github.com/trebuchet-org/treb-relay/internal/config"
	"github.com/trebuchet-org/treb-relay/internal/logging"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewPoller,
		usecase.NewRelayClient,
		usecase.NewExecuteTransactions,
		usecase.NewDeployAccount,
		usecase.NewWatchTransaction,
		usecase.NewInspectAccount,

		// App
		NewApp,
	)
	return nil, nil
}
