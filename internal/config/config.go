// Package config loads the KDL-formatted project configuration
// (.qfind.kdl): root path, include/exclude globs, bloom sizing, worker
// cap, and batch/watch tuning. Parsing uses sblinch/kdl-go, the same
// library and file-format choice the teacher uses for its own .lci.kdl.
package config

import (
	"os"
	"path/filepath"
	"time"

	kdl "github.com/sblinch/kdl-go"

	"github.com/standardbeagle/qfind/internal/constants"
	"github.com/standardbeagle/qfind/internal/errors"
)

// FileName is the conventional config file name searched for in a
// project root.
const FileName = ".qfind.kdl"

// Config holds every tunable the index, builder, updater, and watcher
// read at startup.
type Config struct {
	Root    string   `kdl:"root"`
	Include []string `kdl:"include"`
	Exclude []string `kdl:"exclude"`

	CaseInsensitive bool `kdl:"case-insensitive"`

	BloomPrimaryBits   int `kdl:"bloom-primary-bits"`
	BloomSecondaryBits int `kdl:"bloom-secondary-bits"`
	BloomHashFuncs     int `kdl:"bloom-hash-funcs"`

	WorkerThreadCap int `kdl:"worker-thread-cap"`

	BatchThreshold      int `kdl:"batch-threshold"`
	BatchIntervalSecs   int `kdl:"batch-interval-seconds"`
	WatchDebounceMillis int `kdl:"watch-debounce-millis"`
}

// Default returns a Config populated with the package-wide constant
// defaults, rooted at root.
func Default(root string) *Config {
	return &Config{
		Root:                root,
		Include:             []string{"**"},
		Exclude:             []string{"**/.git/**"},
		BloomPrimaryBits:    constants.BloomSize,
		BloomSecondaryBits:  constants.BloomSecondarySize,
		BloomHashFuncs:      constants.MaxHashFuncs,
		WorkerThreadCap:     constants.WorkerThreadCap,
		BatchThreshold:      constants.BatchThreshold,
		BatchIntervalSecs:   int(constants.BatchInterval / time.Second),
		WatchDebounceMillis: 250,
	}
}

// BatchInterval returns the configured commit-updates ticker period.
func (c *Config) BatchInterval() time.Duration {
	return time.Duration(c.BatchIntervalSecs) * time.Second
}

// WatchDebounce returns the configured filesystem-event debounce window.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMillis) * time.Millisecond
}

// Load reads and parses path, falling back to Default(filepath.Dir(path))
// when no config file exists there yet — a fresh project is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("path", path, err)
	}

	if err := kdl.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("kdl", path, err)
	}
	return cfg, nil
}

// LoadFromRoot is a convenience wrapper that looks for FileName inside
// root, then merges root's .gitignore (if any) into Exclude so a build
// or watch never has to index what git itself ignores.
func LoadFromRoot(root string) (*Config, error) {
	cfg, err := Load(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}

	gp := NewGitignoreParser()
	if err := gp.LoadGitignore(root); err != nil {
		return nil, errors.NewConfigError("gitignore", root, err)
	}
	cfg.Exclude = append(cfg.Exclude, gp.GetExclusionPatterns()...)

	return cfg, nil
}
