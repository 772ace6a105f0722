package adapters

import (
	"log/slog"
	"net/http"

	"github.com/google/wire"
	"github.com/trebuchet-org/treb-relay/internal/adapters/builderauth"
	"github.com/trebuchet-org/treb-relay/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-relay/internal/adapters/metrics"
	"github.com/trebuchet-org/treb-relay/internal/adapters/relayer"
	"github.com/trebuchet-org/treb-relay/internal/adapters/signer"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

// ProvideHTTPClient provides the HTTP client used for relayer calls
func ProvideHTTPClient(cfg *config.RuntimeConfig) *http.Client {
	return relayer.NewHTTPClient(cfg.Timeout)
}

// ProvideHeaderGenerator provides builder authentication from the configured credentials
func ProvideHeaderGenerator(cfg *config.RuntimeConfig, log *slog.Logger) *builderauth.Generator {
	return builderauth.NewGenerator(cfg.Builder, log)
}

// ProvideRelayerClient provides the relayer HTTP client
func ProvideRelayerClient(cfg *config.RuntimeConfig, httpClient *http.Client, headers usecase.HeaderGenerator, log *slog.Logger) *relayer.Client {
	return relayer.NewClient(cfg.RelayerURL, httpClient, headers, log)
}

// ProvideSleeper provides the real-time sleeper used between polls
func ProvideSleeper() usecase.Sleeper {
	return usecase.TimerSleeper{}
}

// RelayerSet provides relayer transport implementations
var RelayerSet = wire.NewSet(
	ProvideHTTPClient,
	ProvideHeaderGenerator,
	wire.Bind(new(usecase.HeaderGenerator), new(*builderauth.Generator)),

	ProvideRelayerClient,
	wire.Bind(new(usecase.RelayerAPI), new(*relayer.Client)),
)

// SignerSet provides the configured signer backend
var SignerSet = wire.NewSet(
	signer.NewSigner,
)

// MetricsSet provides the prometheus recorder
var MetricsSet = wire.NewSet(
	metrics.NewRecorder,
	wire.Bind(new(usecase.MetricsRecorder), new(*metrics.Recorder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractiveSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProvideSleeper,

	RelayerSet,
	SignerSet,
	MetricsSet,
	InteractiveSet,
)
