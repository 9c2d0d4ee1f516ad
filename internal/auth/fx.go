package auth

import (
	"github.com/namora-app/namora/internal/auth/repository"
	"github.com/namora-app/namora/internal/auth/service"
	"github.com/namora-app/namora/internal/auth/token"
	"github.com/namora-app/namora/internal/config"
	"go.uber.org/fx"
)

func newIssuer(cfg config.Config) (*token.Issuer, error) {
	return token.NewIssuer(cfg.AuthJWTSecret, cfg.AuthTokenTTL)
}

var Module = fx.Module("auth.service",
	fx.Provide(newIssuer),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
