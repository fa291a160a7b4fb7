package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/emelz/wardrobe/internal"
	pkgconfig "github.com/emelz/wardrobe/pkg/config"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func run(mode internal.Mode) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithMode(mode),
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}

		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "wardrobe",
		Usage: "Generate and serve wardrobe inventory sites from photo folders and spreadsheet metadata",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Scan photos, reconcile with stored metadata, and write the site data",
				Action: run(internal.ModeGenerate),
			},
			{
				Name:   "export",
				Usage:  "Write the generated item sets as two-row-header CSVs",
				Action: run(internal.ModeExport),
			},
			{
				Name:   "serve",
				Usage:  "Serve the generated sites and regenerate when photos change",
				Action: run(internal.ModeServe),
			},
			{
				Name:   "mcp",
				Usage:  "Expose the wardrobe inventory over MCP stdio",
				Action: run(internal.ModeMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
