package accounts

import (
	"github.com/smallbiznis/accountfacade/internal/config"
	"github.com/smallbiznis/accountfacade/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("downstream.accounts",
	fx.Provide(newFromConfig),
)

type clientParams struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

func newFromConfig(p clientParams) (*Client, error) {
	return NewClient(Options{
		BaseURL:     p.Config.Downstream.AccountsBaseURL,
		BearerToken: p.Config.Downstream.BearerToken,
		Timeout:     p.Config.Downstream.Timeout,
	}, p.Log, p.Metrics)
}
