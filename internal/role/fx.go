package role

import (
	"github.com/smallbiznis/accountfacade/internal/config"
	"github.com/smallbiznis/accountfacade/internal/role/domain"
	"github.com/smallbiznis/accountfacade/internal/role/service"
	"go.uber.org/fx"
)

var Module = fx.Module("role.catalog",
	fx.Provide(newResolver),
)

func newResolver(cfg config.CatalogConfig) (domain.Resolver, error) {
	return service.NewCatalogFromConfig(cfg)
}
