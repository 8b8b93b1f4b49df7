package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/file-converter/internal/catalog"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the target formats the service converts to",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Format", "Label"})
		for _, f := range catalog.Formats() {
			t.AppendRow(table.Row{f.ID, f.Label})
		}
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
