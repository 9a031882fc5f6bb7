// Package config provides configuration management for Flow Touch.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/gesture"
	"github.com/xvierd/flow-touch/internal/render"
)

// Config holds all configuration for the Flow Touch application.
type Config struct {
	Touch         TouchConfig        `mapstructure:"touch"`
	Modes         ModesConfig        `mapstructure:"modes"`
	Display       DisplayConfig      `mapstructure:"display"`
	Orientation   OrientationConfig  `mapstructure:"orientation"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Hardware      HardwareConfig     `mapstructure:"hardware"`
	Log           LogConfig          `mapstructure:"log"`
}

// TouchConfig holds the gesture thresholds and the hit margin.
type TouchConfig struct {
	LongPress        Duration `mapstructure:"long_press"`
	Debounce         Duration `mapstructure:"debounce"`
	MinTap           Duration `mapstructure:"min_tap"`
	StartSuppression Duration `mapstructure:"start_suppression"`
	Margin           int      `mapstructure:"margin"`
}

// ModesConfig holds the three work/rest presets in cycle order.
type ModesConfig struct {
	Preset1Work Duration `mapstructure:"preset1_work"`
	Preset1Rest Duration `mapstructure:"preset1_rest"`
	Preset2Work Duration `mapstructure:"preset2_work"`
	Preset2Rest Duration `mapstructure:"preset2_rest"`
	Preset3Work Duration `mapstructure:"preset3_work"`
	Preset3Rest Duration `mapstructure:"preset3_rest"`
	Default     int      `mapstructure:"default"`
}

// GetPresets returns the three presets.
func (c *ModesConfig) GetPresets() domain.Presets {
	return domain.Presets{
		{Work: time.Duration(c.Preset1Work), Rest: time.Duration(c.Preset1Rest)},
		{Work: time.Duration(c.Preset2Work), Rest: time.Duration(c.Preset2Rest)},
		{Work: time.Duration(c.Preset3Work), Rest: time.Duration(c.Preset3Rest)},
	}
}

// DefaultMode returns the configured boot mode, falling back to 25/5.
func (c *ModesConfig) DefaultMode() domain.Mode {
	m := domain.Mode(c.Default)
	if !m.Valid() {
		return domain.DefaultMode
	}
	return m
}

// DisplayConfig holds the panel geometry and loop rate.
type DisplayConfig struct {
	Width         int      `mapstructure:"width"`
	Height        int      `mapstructure:"height"`
	RingRadius    int      `mapstructure:"ring_radius"`
	RingThickness int      `mapstructure:"ring_thickness"`
	RingSteps     int      `mapstructure:"ring_steps"`
	TickInterval  Duration `mapstructure:"tick_interval"`
}

// OrientationConfig holds the accelerometer polling settings.
type OrientationConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	PollInterval Duration `mapstructure:"poll_interval"`
	Threshold    float64  `mapstructure:"threshold"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Cooldown  Duration `mapstructure:"cooldown"`
	QueueSize int      `mapstructure:"queue_size"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Transport string `mapstructure:"transport"`
	Addr      string `mapstructure:"addr"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// HardwareConfig names the buses and pins of the touch panel and IMU.
type HardwareConfig struct {
	I2CBus    string `mapstructure:"i2c_bus"`
	TouchAddr int    `mapstructure:"touch_addr"`
	IMUAddr   int    `mapstructure:"imu_addr"`
	IntPin    string `mapstructure:"int_pin"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

const defaultDataDir = "~/.flow-touch"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Touch: TouchConfig{
			LongPress:        Duration(1000 * time.Millisecond),
			Debounce:         Duration(200 * time.Millisecond),
			MinTap:           Duration(10 * time.Millisecond),
			StartSuppression: Duration(1500 * time.Millisecond),
			Margin:           15,
		},
		Modes: ModesConfig{
			Preset1Work: Duration(1 * time.Minute),
			Preset1Rest: Duration(1 * time.Minute),
			Preset2Work: Duration(25 * time.Minute),
			Preset2Rest: Duration(5 * time.Minute),
			Preset3Work: Duration(50 * time.Minute),
			Preset3Rest: Duration(10 * time.Minute),
			Default:     int(domain.DefaultMode),
		},
		Display: DisplayConfig{
			Width:         172,
			Height:        320,
			RingRadius:    70,
			RingThickness: 5,
			RingSteps:     720,
			TickInterval:  Duration(20 * time.Millisecond),
		},
		Orientation: OrientationConfig{
			Enabled:      true,
			PollInterval: Duration(2 * time.Second),
			Threshold:    0.5,
		},
		Notifications: NotificationConfig{
			Enabled:   true,
			Cooldown:  Duration(3 * time.Second),
			QueueSize: 3,
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
			Addr:      "127.0.0.1:8765",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Hardware: HardwareConfig{
			I2CBus:    "1",
			TouchAddr: 0x63,
			IMUAddr:   0x6B,
			IntPin:    "GPIO4",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path, creating it with defaults
// when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix("FLOW_TOUCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in data directory
	if cfg.Storage.DataDir == defaultDataDir || cfg.Storage.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.Storage.DataDir = filepath.Join(homeDir, ".flow-touch")
	}

	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to path as TOML.
func SaveTo(configPath string, cfg *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("touch.long_press", cfg.Touch.LongPress.String())
	v.Set("touch.debounce", cfg.Touch.Debounce.String())
	v.Set("touch.min_tap", cfg.Touch.MinTap.String())
	v.Set("touch.start_suppression", cfg.Touch.StartSuppression.String())
	v.Set("touch.margin", cfg.Touch.Margin)
	v.Set("modes.preset1_work", cfg.Modes.Preset1Work.String())
	v.Set("modes.preset1_rest", cfg.Modes.Preset1Rest.String())
	v.Set("modes.preset2_work", cfg.Modes.Preset2Work.String())
	v.Set("modes.preset2_rest", cfg.Modes.Preset2Rest.String())
	v.Set("modes.preset3_work", cfg.Modes.Preset3Work.String())
	v.Set("modes.preset3_rest", cfg.Modes.Preset3Rest.String())
	v.Set("modes.default", cfg.Modes.Default)
	v.Set("display.width", cfg.Display.Width)
	v.Set("display.height", cfg.Display.Height)
	v.Set("display.ring_radius", cfg.Display.RingRadius)
	v.Set("display.ring_thickness", cfg.Display.RingThickness)
	v.Set("display.ring_steps", cfg.Display.RingSteps)
	v.Set("display.tick_interval", cfg.Display.TickInterval.String())
	v.Set("orientation.enabled", cfg.Orientation.Enabled)
	v.Set("orientation.poll_interval", cfg.Orientation.PollInterval.String())
	v.Set("orientation.threshold", cfg.Orientation.Threshold)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.cooldown", cfg.Notifications.Cooldown.String())
	v.Set("notifications.queue_size", cfg.Notifications.QueueSize)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("mcp.transport", cfg.MCP.Transport)
	v.Set("mcp.addr", cfg.MCP.Addr)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("hardware.i2c_bus", cfg.Hardware.I2CBus)
	v.Set("hardware.touch_addr", cfg.Hardware.TouchAddr)
	v.Set("hardware.imu_addr", cfg.Hardware.IMUAddr)
	v.Set("hardware.int_pin", cfg.Hardware.IntPin)
	v.Set("log.level", cfg.Log.Level)

	return v.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".flow-touch", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "flow-touch.db")
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("touch.long_press", d.Touch.LongPress.String())
	v.SetDefault("touch.debounce", d.Touch.Debounce.String())
	v.SetDefault("touch.min_tap", d.Touch.MinTap.String())
	v.SetDefault("touch.start_suppression", d.Touch.StartSuppression.String())
	v.SetDefault("touch.margin", d.Touch.Margin)
	v.SetDefault("modes.preset1_work", d.Modes.Preset1Work.String())
	v.SetDefault("modes.preset1_rest", d.Modes.Preset1Rest.String())
	v.SetDefault("modes.preset2_work", d.Modes.Preset2Work.String())
	v.SetDefault("modes.preset2_rest", d.Modes.Preset2Rest.String())
	v.SetDefault("modes.preset3_work", d.Modes.Preset3Work.String())
	v.SetDefault("modes.preset3_rest", d.Modes.Preset3Rest.String())
	v.SetDefault("modes.default", d.Modes.Default)
	v.SetDefault("display.width", d.Display.Width)
	v.SetDefault("display.height", d.Display.Height)
	v.SetDefault("display.ring_radius", d.Display.RingRadius)
	v.SetDefault("display.ring_thickness", d.Display.RingThickness)
	v.SetDefault("display.ring_steps", d.Display.RingSteps)
	v.SetDefault("display.tick_interval", d.Display.TickInterval.String())
	v.SetDefault("orientation.enabled", d.Orientation.Enabled)
	v.SetDefault("orientation.poll_interval", d.Orientation.PollInterval.String())
	v.SetDefault("orientation.threshold", d.Orientation.Threshold)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.cooldown", d.Notifications.Cooldown.String())
	v.SetDefault("notifications.queue_size", d.Notifications.QueueSize)
	v.SetDefault("mcp.enabled", d.MCP.Enabled)
	v.SetDefault("mcp.transport", d.MCP.Transport)
	v.SetDefault("mcp.addr", d.MCP.Addr)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("hardware.i2c_bus", d.Hardware.I2CBus)
	v.SetDefault("hardware.touch_addr", d.Hardware.TouchAddr)
	v.SetDefault("hardware.imu_addr", d.Hardware.IMUAddr)
	v.SetDefault("hardware.int_pin", d.Hardware.IntPin)
	v.SetDefault("log.level", d.Log.Level)
}

// GestureConfig converts the touch section for the gesture classifier.
func (c *Config) GestureConfig() gesture.Config {
	return gesture.Config{
		LongPress:        time.Duration(c.Touch.LongPress),
		Debounce:         time.Duration(c.Touch.Debounce),
		MinTap:           time.Duration(c.Touch.MinTap),
		StartSuppression: time.Duration(c.Touch.StartSuppression),
	}
}

// RenderConfig converts the display section for the renderer.
func (c *Config) RenderConfig() render.Config {
	return render.Config{
		RingRadius:    c.Display.RingRadius,
		RingThickness: c.Display.RingThickness,
		RingSteps:     c.Display.RingSteps,
	}
}

// Validate reports settings the device cannot run with.
func (c *Config) Validate() error {
	presets := c.Modes.GetPresets()
	for i, p := range presets {
		if p.Work <= 0 || p.Rest <= 0 {
			return fmt.Errorf("modes: preset %d must have positive work and rest durations", i+1)
		}
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display: invalid size %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.RingRadius <= c.Display.RingThickness {
		return fmt.Errorf("display: ring radius %d must exceed thickness %d", c.Display.RingRadius, c.Display.RingThickness)
	}
	if c.Touch.Margin < 0 {
		return fmt.Errorf("touch: margin must not be negative")
	}
	switch c.MCP.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("mcp: unknown transport %q", c.MCP.Transport)
	}
	return nil
}
