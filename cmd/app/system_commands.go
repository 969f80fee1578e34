package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/cmd/app/commands"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/app"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
