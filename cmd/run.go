package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/flow-touch/internal/adapters/canvas"
	"github.com/xvierd/flow-touch/internal/adapters/hardware"
	"github.com/xvierd/flow-touch/internal/adapters/mcp"
	"github.com/xvierd/flow-touch/internal/config"
	"github.com/xvierd/flow-touch/internal/ports"
	"github.com/xvierd/flow-touch/internal/services"
)

var (
	frameOut string
	headless bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the timer on the device",
	Long: `Run the control loop against the touch panel and accelerometer on the
I2C bus. The MCP server and the notification dispatcher run alongside it.

With --headless no hardware is opened; the timer is then driven through
MCP only. Use --frame-out to dump the panel as a PNG after every redraw.`,
	RunE: runDevice,
}

func init() {
	runCmd.Flags().StringVar(&frameOut, "frame-out", "", "Write the panel to this PNG file after every redraw")
	runCmd.Flags().BoolVar(&headless, "headless", false, "Run without touch and accelerometer hardware")
	rootCmd.AddCommand(runCmd)
}

func runDevice(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := app.config
	surface := canvas.New(cfg.Display.Width, cfg.Display.Height)

	var touch ports.TouchSource
	var orientation ports.OrientationSource
	if !headless {
		dev, err := openHardware(cfg, surface)
		if err != nil {
			return err
		}
		defer dev.Close()
		touch = dev.Touch
		if dev.IMU != nil && cfg.Orientation.Enabled {
			orientation = dev.IMU
		}
	}

	ctrl := newController(surface, touch, orientation)
	stopBackground := startBackground(ctx, true)
	defer stopBackground()

	ctrl.Boot(ctx, time.Now())
	err := loop(ctx, ctrl, surface, frameOut)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openHardware opens the sensors. A missing accelerometer only disables
// rotation.
func openHardware(cfg *config.Config, surface *canvas.Canvas) (*hardware.Device, error) {
	dev, err := hardware.Open(hardware.Options{
		Bus:       cfg.Hardware.I2CBus,
		TouchAddr: uint16(cfg.Hardware.TouchAddr),
		IMUAddr:   uint16(cfg.Hardware.IMUAddr),
		IntPin:    cfg.Hardware.IntPin,
		Threshold: cfg.Orientation.Threshold,
	}, surface.Rotation)
	switch {
	case errors.Is(err, hardware.ErrNoIMU):
		app.logger.Warn("orientation disabled", "err", err)
		return dev, nil
	case err != nil:
		return nil, fmt.Errorf("failed to open hardware: %w", err)
	}
	return dev, nil
}

// loop ticks the controller until ctx ends, writing a frame file after
// each redraw when out is set.
func loop(ctx context.Context, ctrl *services.Controller, surface *canvas.Canvas, out string) error {
	ticker := time.NewTicker(tickInterval())
	defer ticker.Stop()

	if out != "" {
		saveFrame(surface, out)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if redraw := ctrl.Tick(ctx, now); redraw != 0 && out != "" {
				saveFrame(surface, out)
			}
		}
	}
}

func saveFrame(surface *canvas.Canvas, out string) {
	if err := surface.SavePNG(out); err != nil {
		app.logger.Warn("failed to write frame", "path", out, "err", err)
	}
}

// startBackground runs the dispatcher and, when enabled, the MCP server.
// The stdio transport is skipped when stdin and stdout belong to a
// terminal UI. The returned function stops both and waits for the
// dispatcher to drain.
func startBackground(ctx context.Context, allowStdio bool) func() {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = newDispatcher().Run(ctx)
	}()

	var srv *mcp.Server
	mcpCfg := app.config.MCP
	switch {
	case !mcpCfg.Enabled:
	case mcpCfg.Transport == mcp.TransportStdio && !allowStdio:
		app.logger.Warn("mcp stdio transport unavailable in the simulator, set mcp.transport = \"http\"")
	default:
		srv = mcp.NewServer(app.control, app.board, app.storage.Transitions(), mcp.Options{
			Transport: mcpCfg.Transport,
			Addr:      mcpCfg.Addr,
		}, app.logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				app.logger.Error("mcp server stopped", "err", err)
			}
		}()
	}

	return func() {
		cancel()
		if srv != nil {
			if err := srv.Stop(); err != nil {
				app.logger.Warn("failed to stop mcp server", "err", err)
			}
		}
		wg.Wait()
	}
}
