package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/qfind/internal/pathindex"
)

var updateCommand = &cli.Command{
	Name:  "update",
	Usage: "rebuild the index from a fresh directory walk",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "update",
			Aliases: []string{"u"},
			Usage:   "run one commit-updates pass (always true for this command)",
		},
	},
	Action: runUpdate,
}

// runUpdate performs a single commit-updates pass. A standalone CLI
// process has no resident index to apply an incremental event batch
// against, so this command re-walks the tree and rebuilds rather than
// calling Updater.CommitUpdates on a running one (SPEC_FULL.md §4.10).
func runUpdate(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	idx := pathindex.New(cfg, newMetrics())
	builder := pathindex.NewBuilder(idx)
	if err := walkRoot(cfg.Root, cfg.Include, cfg.Exclude, func(rec pathindex.PathRecord) error {
		return builder.Add(rec)
	}); err != nil {
		return cli.Exit(fmt.Errorf("walk failed: %w", err), 1)
	}
	if err := builder.Close(); err != nil {
		return cli.Exit(fmt.Errorf("index build failed: %w", err), 1)
	}

	fmt.Printf("qfind: indexed %d files under %s\n", idx.LiveFileCount(), cfg.Root)
	return nil
}
