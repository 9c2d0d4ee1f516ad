package seed

import (
	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module seeds the demo account outside production.
var Module = fx.Module("seed",
	fx.Invoke(func(cfg config.Config, db *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
		if cfg.Environment == "production" {
			return nil
		}
		if err := EnsureDemoAccount(db, node); err != nil {
			log.Warn("seed demo account", zap.Error(err))
		}
		return nil
	}),
)
