package main

import (
	"fmt"
	"os"

	"apidiff/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if code := errors.CodeOf(err); code != "" {
			fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", code, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 when a snapshot could not be loaded and 1 for any other failure.
func exitCode(err error) int {
	if errors.IsParseError(err) {
		return 2
	}
	return 1
}
