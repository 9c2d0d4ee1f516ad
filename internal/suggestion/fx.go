package suggestion

import (
	"github.com/namora-app/namora/internal/suggestion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("suggestion.service",
	fx.Provide(service.New),
)
