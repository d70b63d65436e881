package observability

import (
	"strings"

	"github.com/smallbiznis/accountfacade/internal/config"
)

const defaultServiceName = "account-facade"

// Config is the slice of the facade configuration the logger, tracer and
// metrics registry need.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	Tracing config.TracingConfig
}

// NewConfig derives the observability settings from the process config.
func NewConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	tracing := cfg.Tracing
	tracing.Endpoint = strings.TrimSpace(tracing.Endpoint)
	tracing.Protocol = strings.ToLower(strings.TrimSpace(tracing.Protocol))
	if tracing.Protocol == "" {
		tracing.Protocol = "grpc"
	}
	tracing.SamplingRatio = clampRatio(tracing.SamplingRatio)

	return Config{
		ServiceName: serviceName,
		Environment: strings.TrimSpace(cfg.Environment),
		Version:     strings.TrimSpace(cfg.AppVersion),
		LogLevel:    strings.ToLower(strings.TrimSpace(cfg.Logger.Level)),
		LogFormat:   strings.ToLower(strings.TrimSpace(cfg.Logger.Format)),
		Tracing:     tracing,
	}
}

// Debug turns on verbose request logging for debug level or a dev environment.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func clampRatio(ratio float64) float64 {
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}
