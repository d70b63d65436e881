package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/accountfacade/internal/config"
	"github.com/smallbiznis/accountfacade/internal/observability/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestModuleStartsAndStops(t *testing.T) {
	var (
		m   *metrics.Metrics
		log *zap.Logger
	)

	app := fxtest.New(t,
		fx.Supply(config.Config{
			AppName:     "facade",
			Environment: "test",
			Logger:      config.LoggerConfig{Level: "info", Format: "json"},
		}),
		Module,
		fx.Decorate(func(prometheus.Registerer) prometheus.Registerer {
			return prometheus.NewRegistry()
		}),
		fx.Populate(&m, &log),
	)
	app.RequireStart()
	app.RequireStop()

	require.NotNil(t, m)
	require.NotNil(t, log)
	m.RecordNotification("invite", metrics.OutcomeDelivered)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(config.Config{
		AppVersion:  " 1.2.3 ",
		Environment: "production",
		Logger:      config.LoggerConfig{Level: "DEBUG", Format: "Console"},
		Tracing:     config.TracingConfig{Enabled: true, Endpoint: " otel:4318 ", Protocol: "HTTP", SamplingRatio: 4},
	})

	assert.Equal(t, defaultServiceName, cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.Debug())
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "otel:4318", cfg.Tracing.Endpoint)
	assert.Equal(t, "http", cfg.Tracing.Protocol)
	assert.Equal(t, 1.0, cfg.Tracing.SamplingRatio)
}

func TestDebug(t *testing.T) {
	assert.False(t, Config{}.Debug())
	assert.False(t, Config{Environment: "production", LogLevel: "info"}.Debug())
	assert.True(t, Config{Environment: "local"}.Debug())
	assert.Equal(t, "grpc", NewConfig(config.Config{}).Tracing.Protocol)
}
