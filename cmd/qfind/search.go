package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/qfind/internal/pathindex"
	"github.com/standardbeagle/qfind/internal/types"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "search the index for a path pattern",
	ArgsUsage: "<pattern>",
	Action:    runSearch,
}

func runSearch(c *cli.Context) error {
	if c.Bool("regexp") {
		return cli.Exit("qfind has no regex evaluator; -r/--regexp is accepted but not implemented", 1)
	}
	if c.NArg() != 1 {
		return cli.Exit(errors.New("search requires exactly one pattern argument"), 1)
	}
	pattern := c.Args().First()

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

	results, err := idx.Search(pathindex.QueryContext{
		Pattern:         pattern,
		CaseInsensitive: cfg.CaseInsensitive || c.Bool("ignore-case"),
		Credential:      types.QueryCredential{UID: uint32(os.Getuid()), GID: uint32(os.Getgid())},
	})
	if err != nil {
		return cli.Exit(fmt.Errorf("search failed: %w", err), 1)
	}

	for _, r := range results {
		fmt.Println(r.Path)
	}
	return nil
}
