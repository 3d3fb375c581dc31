package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/kanekilink/internal"
	"github.com/starford/kanekilink/internal/commands"
	pkgconfig "github.com/starford/kanekilink/pkg/config"
)

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.Root().String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if vault := cmd.Root().String("vault"); vault != "" {
		cfg.Vault.Path = vault
	}

	return []internal.Option{
		internal.WithConfig(cfg),
	}, nil
}

func runEditorCommand(id string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		// The notice has already been printed; just set the exit code.
		if err := internal.RunCommand(ctx, id, cmd.Args().First(), opts...); err != nil {
			return cli.Exit("", 1)
		}
		return nil
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}

func withApp(fn func(ctx context.Context, app *internal.App, cmd *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		app, err := internal.New(ctx, opts)
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(ctx, app, cmd)
	}
}

func showSettings(_ context.Context, app *internal.App, cmd *cli.Command) error {
	out, err := json.MarshalIndent(app.Panel.Current(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, string(out))
	return err
}

func setRootPath(ctx context.Context, app *internal.App, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: settings set-root-path <path>", 2)
	}
	return app.Panel.SetRootPath(ctx, cmd.Args().First())
}

func setLabel(ctx context.Context, app *internal.App, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: settings set-label <value>", 2)
	}
	return app.Panel.SetLabel(ctx, cmd.Args().First())
}

func main() {
	cmd := &cli.Command{
		Name:  "kanekilink",
		Usage: "Send vault notes to the Kaneki publishing service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Vault directory (overrides vault.path)",
				Sources: cli.EnvVars("KANEKI_VAULT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "send",
				Usage:     "Send to Kaneki",
				ArgsUsage: "[note]",
				Action:    runEditorCommand(commands.SendID),
			},
			{
				Name:      "open",
				Usage:     "Open in Chrome via Kaneki",
				ArgsUsage: "[note]",
				Action:    runEditorCommand(commands.OpenID),
			},
			{
				Name:  "settings",
				Usage: "Show or change the extension settings",
				Commands: []*cli.Command{
					{Name: "show", Usage: "Print current settings", Action: withApp(showSettings)},
					{Name: "set-root-path", Usage: "Set the absolute vault root path", ArgsUsage: "<path>", Action: withApp(setRootPath)},
					{Name: "set-label", Usage: "Set the free-form label", ArgsUsage: "<value>", Action: withApp(setLabel)},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the local control API and follow the note being edited",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Expose the commands as MCP tools over stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
