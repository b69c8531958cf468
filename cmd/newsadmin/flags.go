package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid article ID %q", s)
	}
	return id, nil
}

// readContentFile loads --content-file into dst when the flag is set.
func readContentFile(cmd *cobra.Command, dst *string) error {
	path, err := cmd.Flags().GetString("content-file")
	if err != nil || path == "" {
		return err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return fmt.Errorf("read content file: %w", err)
	}
	*dst = string(data)
	return nil
}
