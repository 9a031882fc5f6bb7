package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// no storage needed
	PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, map[string]string{
				"version":    Version,
				"build_date": BuildDate,
				"git_commit": GitCommit,
			})
		}
		fmt.Fprintf(out, "Flow Touch %s\n", Version)
		fmt.Fprintf(out, "  Built:  %s\n", BuildDate)
		fmt.Fprintf(out, "  Commit: %s\n", GitCommit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
