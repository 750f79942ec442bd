package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// outcomeError marks a failed outcome that was already printed to stdout.
type outcomeError struct {
	err error
}

func (e *outcomeError) Error() string {
	return e.err.Error()
}

func (e *outcomeError) Unwrap() error {
	return e.err
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
