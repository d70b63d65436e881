package email

import (
	"github.com/smallbiznis/accountfacade/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) (Provider, error) {
	switch cfg.Email.Provider {
	case config.EmailProviderNotify:
		p, err := NewNotify(NotifyConfig{
			BaseURL: cfg.Email.NotifyBaseURL,
			APIKey:  cfg.Email.NotifyAPIKey,
			Timeout: cfg.Downstream.Timeout,
		})
		if err != nil {
			return nil, err
		}
		log.Info("email provider configured", zap.String("provider", config.EmailProviderNotify))
		return p, nil
	case config.EmailProviderSMTP:
		log.Info("email provider configured",
			zap.String("provider", config.EmailProviderSMTP),
			zap.String("host", cfg.Email.SMTPHost),
		)
		return NewSMTP(SMTPConfig{
			Host:         cfg.Email.SMTPHost,
			Port:         cfg.Email.SMTPPort,
			Username:     cfg.Email.SMTPUsername,
			Password:     cfg.Email.SMTPPassword,
			From:         cfg.Email.SMTPFrom,
			TemplatesDir: cfg.Email.SMTPTemplatesDir,
		}), nil
	default:
		log.Warn("email provider disabled, notifications will not be sent")
		return &NoOpProvider{}, nil
	}
}
