package main

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/botconsole"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Value:   "127.0.0.1:18901",
			Sources: cli.EnvVars("BOTCONSOLE_ADDR"),
			Usage:   "Server listen address",
		},
		&cli.BoolFlag{
			Name:    "no-browser",
			Sources: cli.EnvVars("BOTCONSOLE_NO_BROWSER"),
			Usage:   "Do not open browser automatically",
		},
	}

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web console",
		Flags: append(flags, providerFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := providerConfigFrom(cmd)
			planner, err := newPlanner(ctx, cfg)
			if err != nil {
				return err
			}
			slog.Info("plan provider configured",
				slog.String("provider", cfg.name),
				slog.Any("models", planner.Models()),
			)

			console := botconsole.New(planner, botconsole.WithLogger(slog.Default()))
			defer console.Close()

			opts := []serverOption{
				withAddr(cmd.String("addr")),
				withConsole(console),
			}
			if cmd.Bool("no-browser") {
				opts = append(opts, withNoBrowser())
			}

			s := newServer(opts...)
			return s.start(ctx)
		},
	}
}
