package notification

import (
	"github.com/smallbiznis/accountfacade/internal/config"
	"github.com/smallbiznis/accountfacade/internal/notification/domain"
	"github.com/smallbiznis/accountfacade/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(newRegulators),
	fx.Provide(newTemplates),
	fx.Provide(service.NewService),
)

func newRegulators(cfg config.CatalogConfig) *domain.Regulators {
	return domain.NewRegulators(cfg.Regulators)
}

func newTemplates(cfg config.CatalogConfig) domain.Templates {
	return domain.NewTemplates(cfg.Templates)
}
