package main

import (
	"github.com/spf13/cobra"

	"apidiff/internal/config"
	"apidiff/internal/logging"
	"apidiff/internal/storage"
	"apidiff/internal/version"
)

var (
	// rootDir is where .apidiff/ (config and cache) lives
	rootDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "apidiff",
	Short: "apidiff - API dump changelog generator",
	Long: `apidiff compares two API dump snapshots (classes, members, enums) and
writes a deterministic changelog as plain text, markup, JSON or YAML.

Renamed classes, members moved into a superclass and class-wide security
changes are reported as single entries.`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(version.Full() + "\n")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "Directory holding .apidiff/config.json and the cache")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error, silent)")
}

// loadConfig reads and validates the workspace config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(rootDir)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	logFormat := logging.HumanFormat
	if cfg.Logging.Format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}

// openCache opens the workspace database and its changelog cache.
func openCache(logger *logging.Logger) (*storage.DB, *storage.Cache, error) {
	db, err := storage.Open(rootDir, logger)
	if err != nil {
		return nil, nil, err
	}
	cache, err := storage.NewCache(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, cache, nil
}
