package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rexliu/unityctl/pkg/core"
)

func newMethodsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List commands and the editor methods they call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands := core.Commands()
			if asJSON {
				type row struct {
					Command     string `json:"command"`
					Method      string `json:"method"`
					LongRunning bool   `json:"longRunning"`
				}
				rows := make([]row, 0, len(commands))
				for _, c := range commands {
					rows = append(rows, row{Command: c.Name, Method: c.Method, LongRunning: c.LongRunning})
				}
				return writeJSON(cmd, rows)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMethods(commands))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderMethods(commands []core.Command) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Command", "Method", "Timeout", "Description"})
	for _, c := range commands {
		timeout := "default"
		if c.LongRunning {
			timeout = "long"
		}
		tw.AppendRow(table.Row{c.Name, c.Method, timeout, c.Summary})
	}
	return tw.Render()
}
