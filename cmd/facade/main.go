package main

import (
	"github.com/smallbiznis/accountfacade/internal/config"
	"github.com/smallbiznis/accountfacade/internal/downstream/accounts"
	"github.com/smallbiznis/accountfacade/internal/membership"
	"github.com/smallbiznis/accountfacade/internal/notification"
	"github.com/smallbiznis/accountfacade/internal/observability"
	"github.com/smallbiznis/accountfacade/internal/providers/email"
	"github.com/smallbiznis/accountfacade/internal/role"
	"github.com/smallbiznis/accountfacade/internal/server"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,

		// Outbound
		email.Module,
		accounts.Module,

		// Functional Domains
		role.Module,
		notification.Module,
		membership.Module,

		server.Module,
	)
	app.Run()
}
