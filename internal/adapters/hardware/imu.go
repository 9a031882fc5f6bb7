package hardware

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/ports"
)

// DefaultIMUAddr is the QMI8658 I2C address.
const DefaultIMUAddr = 0x6B

// DefaultThreshold is the gravity component, in g, that marks an axis as
// pointing down.
const DefaultThreshold = 0.5

// QMI8658 registers.
const (
	regWhoAmI = 0x00
	regCtrl1  = 0x02
	regCtrl2  = 0x03
	regCtrl7  = 0x08
	regAccelX = 0x35

	whoAmI = 0x05

	ctrl1AutoIncrement = 0x40
	ctrl2Accel2g       = 0x05 // ±2 g, 235 Hz
	ctrl7AccelEnable   = 0x01

	lsbPerG = 16384.0
)

// IMU reads gravity from the QMI8658 and turns it into a display rotation.
type IMU struct {
	dev       conn.Conn
	threshold float64
}

var _ ports.OrientationSource = (*IMU)(nil)

// NewIMU checks the chip id and enables the accelerometer.
func NewIMU(dev conn.Conn, threshold float64) (*IMU, error) {
	id := make([]byte, 1)
	if err := dev.Tx([]byte{regWhoAmI}, id); err != nil {
		return nil, fmt.Errorf("failed to read imu id: %w", err)
	}
	if id[0] != whoAmI {
		return nil, fmt.Errorf("unexpected imu id 0x%02X", id[0])
	}

	for _, w := range [][]byte{
		{regCtrl1, ctrl1AutoIncrement},
		{regCtrl2, ctrl2Accel2g},
		{regCtrl7, ctrl7AccelEnable},
	} {
		if err := dev.Tx(w, nil); err != nil {
			return nil, fmt.Errorf("failed to configure imu register 0x%02X: %w", w[0], err)
		}
	}

	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &IMU{dev: dev, threshold: threshold}, nil
}

// Accel returns the acceleration on each axis in g.
func (m *IMU) Accel() (ax, ay, az float64, err error) {
	buf := make([]byte, 6)
	if err := m.dev.Tx([]byte{regAccelX}, buf); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to read accelerometer: %w", err)
	}
	ax = float64(int16(binary.LittleEndian.Uint16(buf[0:]))) / lsbPerG
	ay = float64(int16(binary.LittleEndian.Uint16(buf[2:]))) / lsbPerG
	az = float64(int16(binary.LittleEndian.Uint16(buf[4:]))) / lsbPerG
	return ax, ay, az, nil
}

// Orientation implements ports.OrientationSource.
func (m *IMU) Orientation(current domain.Rotation) (domain.Rotation, error) {
	ax, ay, _, err := m.Accel()
	if err != nil {
		return current, err
	}
	return ClassifyRotation(ax, ay, m.threshold, current), nil
}

// ClassifyRotation picks the rotation whose "down" axis carries gravity.
// Portrait wins over landscape; a flat device keeps current.
func ClassifyRotation(ax, ay, threshold float64, current domain.Rotation) domain.Rotation {
	switch {
	case ay < -threshold:
		return 0
	case ay > threshold:
		return 2
	case ax > threshold:
		return 1
	case ax < -threshold:
		return 3
	default:
		return current
	}
}
