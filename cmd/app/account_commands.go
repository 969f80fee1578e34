package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/cmd/app/commands"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/app"
	"github.com/shinobitiger310/TCSS460-Group7-Credential-API-sub000/internal/config"
)

func getAccountCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-owner",
			Usage: "Create the first Owner account for a fresh deployment",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "email",
					Aliases: []string{"e"},
					Usage:   "Owner email address (prompted when omitted)",
				},
				&cli.StringFlag{
					Name:    "username",
					Aliases: []string{"u"},
					Usage:   "Owner username (prompted when omitted)",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Owner password (prompted when omitted)",
				},
				&cli.StringFlag{
					Name:  "firstname",
					Usage: "Owner first name (prompted when omitted)",
				},
				&cli.StringFlag{
					Name:  "lastname",
					Usage: "Owner last name (prompted when omitted)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				input := commands.OwnerInput{
					Email:     cmd.String("email"),
					Username:  cmd.String("username"),
					Password:  cmd.String("password"),
					FirstName: cmd.String("firstname"),
					LastName:  cmd.String("lastname"),
				}

				return commands.RunCreateOwner(
					ctx,
					accountUseCase,
					container.Logger(),
					commands.DefaultIO(),
					input,
					cmd.String("format"),
				)
			},
		},
	}
}
