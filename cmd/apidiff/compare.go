package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apidiff/internal/changelog"
)

var (
	compareFormat      string
	compareOutputPath  string
	compareOldSecurity string
	compareNewSecurity string
	compareNoCache     bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <old-dump> <new-dump>",
	Short: "Write the changelog between two API dumps",
	Long: `Compare two API dump snapshots and write the changelog.

Dumps may be plain JSON or gzip/zstd compressed. A reduced security dump
(schema version 2) can patch class security after each snapshot loads.

Examples:
  # Text changelog to stdout
  apidiff compare old.json new.json

  # Markup changelog to a file
  apidiff compare old.json.zst new.json.zst --format markup --output changes.html

  # Patch class security from reduced dumps
  apidiff compare old.json new.json --old-security old-sec.json --new-security new-sec.json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareFormat, "format", "", "Output format: text, markup, json or yaml (default: output.format)")
	compareCmd.Flags().StringVar(&compareOutputPath, "output", "", "Output path (default: stdout)")
	compareCmd.Flags().StringVar(&compareOldSecurity, "old-security", "", "Security dump applied to the old snapshot")
	compareCmd.Flags().StringVar(&compareNewSecurity, "new-security", "", "Security dump applied to the new snapshot")
	compareCmd.Flags().BoolVar(&compareNoCache, "no-cache", false, "Skip the changelog cache")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	format := compareFormat
	if format == "" {
		format = cfg.Output.Format
	}
	parsed, err := changelog.ParseFormat(format)
	if err != nil {
		return err
	}

	req := changelog.Request{Format: parsed}
	if req.Old, err = os.ReadFile(args[0]); err != nil {
		return fmt.Errorf("failed to read old dump: %w", err)
	}
	if req.New, err = os.ReadFile(args[1]); err != nil {
		return fmt.Errorf("failed to read new dump: %w", err)
	}
	if req.OldSecurity, err = readOptional(compareOldSecurity); err != nil {
		return err
	}
	if req.NewSecurity, err = readOptional(compareNewSecurity); err != nil {
		return err
	}

	gen := changelog.NewGenerator(logger)
	gen.LineEnding = cfg.LineEnding()
	gen.TTLSeconds = cfg.Cache.TtlSeconds
	if cfg.Cache.Enabled && !compareNoCache {
		db, cache, err := openCache(logger)
		if err != nil {
			logger.Warn("Changelog cache unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			defer db.Close()
			defer cache.Close()
			gen.Cache = cache
			gen.History = db
		}
	}

	res, err := gen.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	return writeOutput(cmd, compareOutputPath, res.Output)
}

func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes to path, or to the command's stdout when path is empty.
// Empty output writes nothing to stdout.
func writeOutput(cmd *cobra.Command, path, out string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
