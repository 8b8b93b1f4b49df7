package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/file-converter/internal/history"
	"github.com/pdiddy/file-converter/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion attempts",
	Long: `History prints the most recent conversion attempts recorded in the local
history database (history_db in the config). Each row is one run of the
upload then convert sequence, successful or not.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum number of attempts to list (default from config or 20)")
	historyCmd.Flags().String("session", "", "only list attempts made with this session token")
	historyCmd.Flags().Bool("json", false, "output attempts as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	sessionToken, _ := cmd.Flags().GetString("session")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()
	if cfg.History.Path == "" {
		return fmt.Errorf("history is disabled (history_db is empty)")
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	var attempts []types.Attempt
	if sessionToken != "" {
		attempts, err = store.BySession(cmd.Context(), sessionToken)
	} else {
		attempts, err = store.Recent(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(attempts)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "File", "Format", "Outcome", "Detail"})
	for _, a := range attempts {
		detail := a.DownloadURL
		if detail == "" {
			detail = a.Message
		}
		t.AppendRow(table.Row{
			a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			a.FileName,
			a.TargetFormat,
			a.Outcome,
			detail,
		})
	}
	t.Render()
	return nil
}
