package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/qfind/internal/config"
	"github.com/standardbeagle/qfind/internal/debug"
	"github.com/standardbeagle/qfind/internal/metrics"
	"github.com/standardbeagle/qfind/internal/version"
)

func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("database")
	if root == "" {
		root = "."
	}
	cfg, err := config.LoadFromRoot(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", root, err)
	}
	if c.Bool("ignore-case") {
		cfg.CaseInsensitive = true
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "qfind",
		Usage:                  "trigram-indexed filesystem path search",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Usage:   "project root / config path to search or update",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:    "ignore-case",
				Aliases: []string{"i"},
				Usage:   "fold ASCII case during trigram matching",
			},
			&cli.BoolFlag{
				Name:    "regexp",
				Aliases: []string{"r"},
				Usage:   "accepted for compatibility; this engine has no regex evaluator",
			},
		},
		Commands: []*cli.Command{
			searchCommand,
			updateCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		debug.Println("qfind:", err)
		fmt.Fprintln(os.Stderr, "qfind:", err)
		os.Exit(1)
	}
}

// newMetrics returns a fresh Prometheus collector set for one CLI
// invocation; this process is always short-lived, so a per-run registry
// is simpler than wiring a shared one through app-level state.
func newMetrics() *metrics.Collectors {
	return metrics.New()
}
