package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/config"
	"github.com/namora-app/namora/internal/logger"
	"github.com/namora-app/namora/internal/migration"
	"github.com/namora-app/namora/internal/observability"
	"github.com/namora-app/namora/internal/seed"
	"github.com/namora-app/namora/internal/server"
	"github.com/namora-app/namora/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		migration.Module,
		server.Module,
		seed.Module,
	)
	app.Run()
}

func newSnowflakeNode() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("snowflake node: %v", err)
	}
	return node
}
