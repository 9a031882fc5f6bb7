// Package hardware drives the AXS5106L touch controller and the QMI8658
// accelerometer over periph.io.
package hardware

import (
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"

	"github.com/xvierd/flow-touch/internal/domain"
	"github.com/xvierd/flow-touch/internal/ports"
)

// Native panel geometry in rotation 0.
const (
	NativeWidth  = 172
	NativeHeight = 320
)

// DefaultTouchAddr is the AXS5106L I2C address.
const DefaultTouchAddr = 0x63

const (
	touchReg       = 0x01
	touchFrameSize = 14
	maxContacts    = 5
)

// TouchPanel reports the primary contact of the AXS5106L. The INT line is
// the contact signal; the coordinate registers are read only while it is
// low and may lag it by a sample.
type TouchPanel struct {
	dev      conn.Conn
	irq      gpio.PinIn
	rotation func() domain.Rotation
}

var _ ports.TouchSource = (*TouchPanel)(nil)

// NewTouchPanel wraps an opened I2C device and its INT pin. rotation
// reports the current display orientation.
func NewTouchPanel(dev conn.Conn, irq gpio.PinIn, rotation func() domain.Rotation) *TouchPanel {
	return &TouchPanel{dev: dev, irq: irq, rotation: rotation}
}

// Poll samples the INT line and, while it is asserted, the first contact.
func (t *TouchPanel) Poll(now time.Time) (domain.TouchSample, error) {
	if t.irq.Read() == gpio.High {
		return domain.TouchSample{}, nil
	}
	sample := domain.TouchSample{Touched: true}

	frame := make([]byte, touchFrameSize)
	if err := t.dev.Tx([]byte{touchReg}, frame); err != nil {
		// the contact is real even if the coordinates are not
		return sample, fmt.Errorf("touch read failed: %w", err)
	}

	raw, ok := DecodeFrame(frame)
	if !ok {
		return sample, nil
	}
	sample.Point = Transform(raw, t.rotation())
	sample.HasPoint = true
	return sample, nil
}

// DecodeFrame extracts the first contact from a register dump. It reports
// false when the controller lists no contacts.
func DecodeFrame(frame []byte) (image.Point, bool) {
	if len(frame) < 6 {
		return image.Point{}, false
	}
	count := int(frame[1])
	if count < 1 || count > maxContacts {
		return image.Point{}, false
	}
	x := int(frame[2]&0x0F)<<8 | int(frame[3])
	y := int(frame[4]&0x0F)<<8 | int(frame[5])
	return image.Pt(x, y), true
}

// Transform maps a native panel coordinate into display space for r.
func Transform(p image.Point, r domain.Rotation) image.Point {
	switch r {
	case 1:
		return image.Pt(p.Y, NativeWidth-1-p.X)
	case 2:
		return image.Pt(p.X, NativeHeight-1-p.Y)
	case 3:
		return image.Pt(NativeHeight-1-p.Y, p.X)
	default:
		return image.Pt(NativeWidth-1-p.X, p.Y)
	}
}
