package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apidiff/internal/changelog"
)

var (
	describeFormat     string
	describeOutputPath string
	describeSecurity   string
)

var describeCmd = &cobra.Command{
	Use:   "describe <dump>",
	Short: "List every class, member, enum and item of one API dump",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().StringVar(&describeFormat, "format", "text", "Output format: text or markup")
	describeCmd.Flags().StringVar(&describeOutputPath, "output", "", "Output path (default: stdout)")
	describeCmd.Flags().StringVar(&describeSecurity, "security", "", "Security dump applied after loading")

	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read dump: %w", err)
	}
	security, err := readOptional(describeSecurity)
	if err != nil {
		return err
	}

	out, err := changelog.Describe(newLogger(cfg), payload, security, changelog.Format(describeFormat), cfg.LineEnding())
	if err != nil {
		return err
	}
	return writeOutput(cmd, describeOutputPath, out)
}
