package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/flow-touch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration",
	Long: `Show the touch thresholds, mode presets and device settings in effect.
Edit ~/.flow-touch/config.toml (or the file given with --config) to change them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.config
		out := cmd.OutOrStdout()
		presets := cfg.Modes.GetPresets()

		if jsonOutput {
			modes := make([]string, 0, len(presets))
			for _, p := range presets {
				modes = append(modes, p.Label())
			}
			return writeJSON(out, map[string]interface{}{
				"long_press":        cfg.Touch.LongPress.String(),
				"debounce":          cfg.Touch.Debounce.String(),
				"start_suppression": cfg.Touch.StartSuppression.String(),
				"margin":            cfg.Touch.Margin,
				"modes":             modes,
				"default_mode":      presets[cfg.Modes.DefaultMode()].Label(),
				"display":           fmt.Sprintf("%dx%d", cfg.Display.Width, cfg.Display.Height),
				"orientation":       cfg.Orientation.Enabled,
				"notifications":     cfg.Notifications.Enabled,
				"cooldown":          cfg.Notifications.Cooldown.String(),
				"mcp":               cfg.MCP.Enabled,
				"mcp_transport":     cfg.MCP.Transport,
				"data_dir":          cfg.Storage.DataDir,
			})
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Touch:")
		fmt.Fprintf(out, "    Long press:           %s\n", formatMillis(cfg.Touch.LongPress))
		fmt.Fprintf(out, "    Debounce:             %s\n", formatMillis(cfg.Touch.Debounce))
		fmt.Fprintf(out, "    Start suppression:    %s\n", formatMillis(cfg.Touch.StartSuppression))
		fmt.Fprintf(out, "    Hit margin:           %dpx\n", cfg.Touch.Margin)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Modes:")
		for i, p := range presets {
			marker := " "
			if i == int(cfg.Modes.DefaultMode()) {
				marker = "*"
			}
			fmt.Fprintf(out, "   %s[%d] %s\n", marker, i+1, p.Label())
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "    Display:              %dx%d\n", cfg.Display.Width, cfg.Display.Height)
		fmt.Fprintf(out, "    Auto-rotate:          %s\n", onOff(cfg.Orientation.Enabled))
		fmt.Fprintf(out, "    Notifications:        %s\n", onOff(cfg.Notifications.Enabled))
		fmt.Fprintf(out, "    MCP server:           %s (%s)\n", onOff(cfg.MCP.Enabled), cfg.MCP.Transport)
		fmt.Fprintf(out, "    Data directory:       %s\n", cfg.Storage.DataDir)
		fmt.Fprintln(out)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			path, err = config.GetConfigPath()
			if err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// formatMillis formats a threshold as "200ms", or "1s" for whole seconds.
func formatMillis(d config.Duration) string {
	td := time.Duration(d)
	if td < 10*time.Second && td%time.Second != 0 {
		return fmt.Sprintf("%dms", td.Milliseconds())
	}
	return td.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
