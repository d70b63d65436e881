package membership

import (
	"github.com/smallbiznis/accountfacade/internal/downstream/accounts"
	"github.com/smallbiznis/accountfacade/internal/membership/service"
	"go.uber.org/fx"
)

var Module = fx.Module("membership.service",
	fx.Provide(provideAccountsClient),
	fx.Provide(service.NewService),
)

func provideAccountsClient(c *accounts.Client) service.AccountsClient {
	return c
}
