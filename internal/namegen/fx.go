package namegen

import "go.uber.org/fx"

var Module = fx.Module("namegen",
	fx.Provide(NewWebhookClient),
)
