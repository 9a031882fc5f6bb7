package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xvierd/flow-touch/internal/domain"
)

// colorCmd represents the color command
var colorCmd = &cobra.Command{
	Use:   "color",
	Short: "Show the accent color",
	Long: `Show the accent color used for work intervals. Rest intervals use its
inverse. The color is the one picked on the device palette.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		accent := app.accents.Load(cmd.Context())
		return printColor(cmd.OutOrStdout(), accent)
	},
}

var colorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the palette colors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		current := app.accents.Load(cmd.Context())

		if jsonOutput {
			list := make([]map[string]interface{}, 0, domain.PaletteSize)
			for _, s := range domain.Palette {
				list = append(list, map[string]interface{}{
					"name":    s.Name,
					"color":   s.Color.String(),
					"current": s.Color == current,
				})
			}
			return writeJSON(out, list)
		}

		for _, s := range domain.Palette {
			marker := " "
			if s.Color == current {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-10s %s\n", marker, s.Name, s.Color)
		}
		return nil
	},
}

var colorSetCmd = &cobra.Command{
	Use:   "set <name|0xRRRR>",
	Short: "Set the accent color",
	Long: `Set the accent color by palette name ("blue") or RGB565 value ("0x001F").
A running device picks it up on its next boot.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accent, err := app.accents.SetByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printColor(cmd.OutOrStdout(), accent)
	},
}

func init() {
	colorCmd.AddCommand(colorListCmd)
	colorCmd.AddCommand(colorSetCmd)
	rootCmd.AddCommand(colorCmd)
}

func printColor(out io.Writer, c domain.Color) error {
	name := domain.PaletteName(c)
	if jsonOutput {
		return writeJSON(out, map[string]interface{}{
			"name":  name,
			"color": c.String(),
			"rest":  c.Invert().String(),
		})
	}
	if name == "" {
		name = "custom"
	}
	fmt.Fprintf(out, "Accent: %s (%s), rest %s\n", name, c, c.Invert())
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
