package profile

import (
	"github.com/namora-app/namora/internal/profile/repository"
	"github.com/namora-app/namora/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
