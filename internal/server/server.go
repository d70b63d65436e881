package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/accountfacade/internal/config"
	membershipdomain "github.com/smallbiznis/accountfacade/internal/membership/domain"
	notificationdomain "github.com/smallbiznis/accountfacade/internal/notification/domain"
	"github.com/smallbiznis/accountfacade/internal/observability"
	obsmiddleware "github.com/smallbiznis/accountfacade/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/accountfacade/internal/observability/metrics"
	obstracing "github.com/smallbiznis/accountfacade/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type engineParams struct {
	fx.In

	ObsCfg  observability.Config
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func registerGin(p engineParams) *gin.Engine {
	return NewEngine(p.ObsCfg, p.Metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	notificationSvc notificationdomain.Service
	membershipSvc   membershipdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	NotificationSvc notificationdomain.Service
	MembershipSvc   membershipdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		notificationSvc: p.NotificationSvc,
		membershipSvc:   p.MembershipSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", CallerIdentity())

	orgs := api.Group("/organisations/:organisationId")
	orgs.GET("/team-members", s.ListTeamMembers)
	orgs.DELETE("/team-members/:userId", s.RemoveTeamMember)

	notifications := api.Group("/notifications")
	notifications.POST("/invite", s.SendInvite)
	notifications.POST("/removed-user", s.SendRemovedUser)
	notifications.POST("/nomination", s.SendNomination)
	notifications.POST("/dissociation/regulators", s.SendDissociationToRegulators)
	notifications.POST("/dissociation/producer", s.SendDissociationToProducer)
	notifications.POST("/resubmission", s.SendResubmission)
	notifications.POST("/user-details-change", s.SendUserDetailsChange)
	notifications.POST("/approved-user", s.SendApprovedUserConfirmation)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
