package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 16-bit RGB565 value as used by small TFT panels.
type Color uint16

const (
	Black Color = 0x0000
	White Color = 0xFFFF
	Gold  Color = 0xFCE0
)

// DefaultAccent is used when no accent has been persisted.
const DefaultAccent = Gold

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xffff
}

// RGB expands c to 8 bits per channel.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1f
	g6 := uint8(c>>5) & 0x3f
	b5 := uint8(c) & 0x1f
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGB565 packs 8-bit channels into a Color.
func RGB565(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// Invert flips each channel within its own bit width. Rest uses the
// inverted accent.
func (c Color) Invert() Color {
	r := 0x1f - (uint16(c)>>11)&0x1f
	g := 0x3f - (uint16(c)>>5)&0x3f
	b := 0x1f - uint16(c)&0x1f
	return Color(r<<11 | g<<5 | b)
}

// String renders c as "0xRRRR".
func (c Color) String() string {
	return fmt.Sprintf("0x%04X", uint16(c))
}

// ParseColor accepts a palette name, a palette index, or a hex RGB565 value
// such as "0xFCE0".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidColor
	}
	if c, ok := PaletteByName(s); ok {
		return c, nil
	}
	if idx, err := strconv.Atoi(s); err == nil {
		if idx < 0 || idx >= len(Palette) {
			return 0, fmt.Errorf("%w: palette index %d out of range", ErrInvalidColor, idx)
		}
		return Palette[idx].Color, nil
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "#")
	v, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(v), nil
}

// Swatch is a named palette entry.
type Swatch struct {
	Name  string
	Color Color
}

// Palette is the fixed list of selectable accents, in grid order.
var Palette = [...]Swatch{
	{"red", 0xF800},
	{"orange", 0xFBF9},
	{"coral", 0xFA00},
	{"yellow", 0xFFE0},
	{"lime", 0x87E0},
	{"green", 0x07E0},
	{"mint", 0x87FF},
	{"cyan", 0x07FF},
	{"turquoise", 0x04FF},
	{"blue", 0x001F},
	{"dark_blue", 0x000F},
	{"navy", 0x0010},
	{"indigo", 0x4810},
	{"violet", 0x901A},
	{"purple", 0x780F},
	{"magenta", 0xF81F},
	{"gold", 0xFCE0},
	{"coffee", 0x8200},
}

// PaletteSize is the number of grid cells.
const PaletteSize = len(Palette)

// PaletteByName looks a swatch up case-insensitively.
func PaletteByName(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range Palette {
		if s.Name == name {
			return s.Color, true
		}
	}
	return 0, false
}

// PaletteName returns the swatch name for c, or "" for custom colors.
func PaletteName(c Color) string {
	for _, s := range Palette {
		if s.Color == c {
			return s.Name
		}
	}
	return ""
}
