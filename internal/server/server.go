package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/namora-app/namora/internal/auth"
	authdomain "github.com/namora-app/namora/internal/auth/domain"
	"github.com/namora-app/namora/internal/config"
	"github.com/namora-app/namora/internal/namegen"
	obslogger "github.com/namora-app/namora/internal/observability/logger"
	obsmetrics "github.com/namora-app/namora/internal/observability/metrics"
	obstracing "github.com/namora-app/namora/internal/observability/tracing"
	"github.com/namora-app/namora/internal/payment"
	paymentdomain "github.com/namora-app/namora/internal/payment/domain"
	"github.com/namora-app/namora/internal/profile"
	profiledomain "github.com/namora-app/namora/internal/profile/domain"
	"github.com/namora-app/namora/internal/ratelimit"
	"github.com/namora-app/namora/internal/suggestion"
	suggestiondomain "github.com/namora-app/namora/internal/suggestion/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	auth.Module,
	profile.Module,
	namegen.Module,
	suggestion.Module,
	payment.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server", zap.Error(err))
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
	authsvc         authdomain.Service
	profileSvc      profiledomain.Service
	suggestionSvc   suggestiondomain.Service
	paymentSvc      paymentdomain.Service
	generateLimiter *ratelimit.GenerateLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Authsvc         authdomain.Service
	ProfileSvc      profiledomain.Service
	SuggestionSvc   suggestiondomain.Service
	PaymentSvc      paymentdomain.Service
	GenerateLimiter *ratelimit.GenerateLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authsvc:         p.Authsvc,
		profileSvc:      p.ProfileSvc,
		suggestionSvc:   p.SuggestionSvc,
		paymentSvc:      p.PaymentSvc,
		generateLimiter: p.GenerateLimiter,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/v1/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1", s.AuthRequired())

	api.GET("/me", s.Me)
	api.POST("/names/generate", s.GenerateNames)

	payments := api.Group("/payments")
	{
		payments.GET("", s.ListPayments)
		payments.POST("/orders", s.CreatePaymentOrder)
		payments.POST("/verify", s.VerifyPayment)
	}
}
