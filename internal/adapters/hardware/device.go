package hardware

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/xvierd/flow-touch/internal/domain"
)

// Options names the bus, addresses and pins of the board.
type Options struct {
	Bus       string
	TouchAddr uint16
	IMUAddr   uint16
	IntPin    string
	Threshold float64
}

// Device bundles the sensors sharing one I2C bus.
type Device struct {
	bus   i2c.BusCloser
	Touch *TouchPanel
	// IMU is nil when the accelerometer did not answer.
	IMU *IMU
}

// Open initializes the host drivers and the sensors. When only the IMU
// fails, Open returns a usable Device together with an error wrapping
// ErrNoIMU; the display then keeps its rotation.
func Open(opts Options, rotation func() domain.Rotation) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host: %w", err)
	}

	bus, err := i2creg.Open(opts.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", opts.Bus, err)
	}

	irq := gpioreg.ByName(opts.IntPin)
	if irq == nil {
		_ = bus.Close()
		return nil, fmt.Errorf("touch interrupt pin %q not found", opts.IntPin)
	}
	if err := irq.In(gpio.PullUp, gpio.NoEdge); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to configure pin %s: %w", opts.IntPin, err)
	}

	d := &Device{
		bus:   bus,
		Touch: NewTouchPanel(&i2c.Dev{Bus: bus, Addr: opts.TouchAddr}, irq, rotation),
	}

	imu, err := NewIMU(&i2c.Dev{Bus: bus, Addr: opts.IMUAddr}, opts.Threshold)
	if err != nil {
		return d, fmt.Errorf("%w: %v", ErrNoIMU, err)
	}
	d.IMU = imu
	return d, nil
}

// Close releases the bus.
func (d *Device) Close() error {
	return d.bus.Close()
}

// ErrNoIMU wraps the reason the accelerometer is unavailable.
var ErrNoIMU = errors.New("accelerometer unavailable")
