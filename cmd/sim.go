package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/flow-touch/internal/adapters/canvas"
	"github.com/xvierd/flow-touch/internal/adapters/tui"
)

// simCmd represents the sim command
var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the timer in the terminal",
	Long: `Run the full control loop in a terminal window. The mouse acts as the
touch panel: click to tap, hold the button for a long press. Press r to
rotate the virtual device and ? for the other keys.`,
	RunE: runSim,
}

func init() {
	rootCmd.AddCommand(simCmd)
}

func runSim(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	surface := canvas.New(app.config.Display.Width, app.config.Display.Height)
	touch := &tui.MouseTouch{}
	orientation := &tui.ManualOrientation{}

	ctrl := newController(surface, touch, orientation)
	stopBackground := startBackground(ctx, false)
	defer stopBackground()

	ctrl.Boot(ctx, time.Now())
	err := tui.Run(ctx, tui.Simulator{
		Controller:  ctrl,
		Canvas:      surface,
		Touch:       touch,
		Orientation: orientation,
		Control:     app.control,
		Interval:    tickInterval(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simulator error: %w", err)
	}
	return nil
}
