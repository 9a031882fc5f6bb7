package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xvierd/flow-touch/internal/adapters/notification"
	"github.com/xvierd/flow-touch/internal/adapters/storage"
	"github.com/xvierd/flow-touch/internal/config"
	"github.com/xvierd/flow-touch/internal/logging"
	"github.com/xvierd/flow-touch/internal/ports"
	"github.com/xvierd/flow-touch/internal/remote"
	"github.com/xvierd/flow-touch/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	logger   *log.Logger
	storage  ports.Storage
	accents  *services.AccentService
	inbox    *remote.Inbox
	outbox   *remote.Outbox
	board    *remote.StatusBoard
	control  *remote.Control
	notifier *notification.Notifier
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	app.config = cfg
	app.logger = logging.New(os.Stderr, cfg.Log.Level, verbose)

	// Determine database path
	path := dbPath
	if path == "" {
		path = config.GetDBPath(cfg)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	app.storage, err = storage.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.accents = services.NewAccentService(app.storage.Settings(), app.logger)
	app.inbox = remote.NewInbox()
	app.outbox = remote.NewOutbox(cfg.Notifications.QueueSize)
	app.board = remote.NewStatusBoard()
	app.control = remote.NewControl(app.inbox, app.board, app.logger)
	app.notifier = notification.New(cfg.Notifications.Enabled)

	return nil
}

// loadConfig reads --config when given. Without it a broken default file
// is not fatal: the device boots with factory settings.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if err == nil {
		return cfg, nil
	}
	fmt.Fprintf(os.Stderr, "Warning: using default configuration: %v\n", err)
	cfg = config.DefaultConfig()
	if home, herr := os.UserHomeDir(); herr == nil {
		cfg.Storage.DataDir = filepath.Join(home, ".flow-touch")
	}
	return cfg, nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.storage != nil {
		err := app.storage.Close()
		app.storage = nil
		return err
	}
	return nil
}

// controllerOptions maps the configuration onto the control loop settings.
func controllerOptions(cfg *config.Config) services.ControllerOptions {
	opts := services.DefaultControllerOptions()
	opts.Presets = cfg.Modes.GetPresets()
	opts.Mode = cfg.Modes.DefaultMode()
	opts.Gesture = cfg.GestureConfig()
	opts.Render = cfg.RenderConfig()
	opts.Margin = cfg.Touch.Margin
	opts.OrientationInterval = time.Duration(cfg.Orientation.PollInterval)
	return opts
}

// newController builds the control loop around a surface and its inputs.
func newController(surface ports.Surface, touch ports.TouchSource, orientation ports.OrientationSource) *services.Controller {
	return services.NewController(services.ControllerDeps{
		Surface:     surface,
		Touch:       touch,
		Orientation: orientation,
		Accents:     app.accents,
		Inbox:       app.inbox,
		Outbox:      app.outbox,
		Board:       app.board,
		Logger:      app.logger,
	}, controllerOptions(app.config))
}

// newDispatcher wires the outbox to the history and the notification sinks.
func newDispatcher() *services.Dispatcher {
	sinks := []ports.Notifier{notification.NewLogNotifier(app.logger)}
	if app.notifier.IsEnabled() {
		sinks = append(sinks, app.notifier)
	}
	return services.NewDispatcher(
		app.outbox,
		app.storage.Transitions(),
		time.Duration(app.config.Notifications.Cooldown),
		app.logger,
		sinks...,
	)
}

// tickInterval returns the configured loop period.
func tickInterval() time.Duration {
	d := time.Duration(app.config.Display.TickInterval)
	if d <= 0 {
		return 20 * time.Millisecond
	}
	return d
}
