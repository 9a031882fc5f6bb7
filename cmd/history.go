package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent timer transitions",
	Long:  `Show the most recent session transitions (started, paused, rest, ...) recorded by the device.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit <= 0 {
			return fmt.Errorf("--limit must be positive")
		}

		records, err := app.storage.Transitions().Recent(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			list := make([]map[string]interface{}, 0, len(records))
			for _, r := range records {
				list = append(list, map[string]interface{}{
					"id":         r.ID,
					"transition": string(r.Transition),
					"phase":      string(r.Phase),
					"kind":       string(r.Kind),
					"mode":       r.ModeLabel,
					"message":    r.Message,
					"at":         r.At.Format(time.RFC3339),
				})
			}
			return writeJSON(out, list)
		}

		if len(records) == 0 {
			fmt.Fprintln(out, "No transitions recorded yet.")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(out, "%s  %-9s %-8s %-6s %s\n",
				r.At.Local().Format("2006-01-02 15:04:05"),
				r.Transition, r.Phase, r.ModeLabel, r.Message)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of transitions to show")
	rootCmd.AddCommand(historyCmd)
}
