package glyph

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Glyph dimensions in dots.
const (
	Width  = 5
	Height = 8
)

// Dot is the color of a single glyph dot.
type Dot bool

// RGBA returns opaque white for a lit dot and opaque black otherwise.
func (d Dot) RGBA() (r, g, b, a uint32) {
	if d {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

// toDot converts any color.Color to Dot. Colors at least half as bright as
// white are lit.
func toDot(c color.Color) color.Color {
	if d, ok := c.(Dot); ok {
		return d
	}
	r, g, b, _ := c.RGBA()
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Dot(y >= 0x8000)
}

// DotModel converts colors to Dot.
var DotModel = color.ModelFunc(toDot)

// Bitmap is one custom character, one byte per dot row from top to bottom.
type Bitmap [Height]byte

var bounds = image.Rect(0, 0, Width, Height)

// ColorModel returns DotModel.
func (b *Bitmap) ColorModel() color.Model {
	return DotModel
}

// Bounds returns the 5×8 glyph rectangle.
func (b *Bitmap) Bounds() image.Rectangle {
	return bounds
}

// At returns the color of the dot at (x, y).
func (b *Bitmap) At(x, y int) color.Color {
	return b.DotAt(x, y)
}

// DotAt returns whether the dot at (x, y) is lit.
func (b *Bitmap) DotAt(x, y int) Dot {
	if !(image.Point{X: x, Y: y}.In(bounds)) {
		return false
	}
	return b[y]&mask(x) != 0
}

// Set sets the dot at (x, y).
func (b *Bitmap) Set(x, y int, c color.Color) {
	b.SetDot(x, y, DotModel.Convert(c).(Dot))
}

// SetDot sets the dot at (x, y) without color conversion.
func (b *Bitmap) SetDot(x, y int, d Dot) {
	if !(image.Point{X: x, Y: y}.In(bounds)) {
		return
	}
	if d {
		b[y] |= mask(x)
	} else {
		b[y] &^= mask(x)
	}
}

// String renders the bitmap with '#' for lit dots and '.' otherwise, one
// line per row.
func (b *Bitmap) String() string {
	var sb strings.Builder
	for y := 0; y < Height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < Width; x++ {
			if b.DotAt(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// mask returns the row bit for column x. Column 0 is bit 4.
func mask(x int) byte {
	return 1 << uint(Width-1-x)
}

// Parse builds a Bitmap from up to eight rows of at most five characters.
// '#', 'X', 'x', '*' and '1' are lit dots; '.', ' ', '_', '0' and '-' are
// dark. Missing rows and columns are dark.
func Parse(rows ...string) (Bitmap, error) {
	var b Bitmap
	if len(rows) > Height {
		return b, fmt.Errorf("glyph: %d rows, want at most %d", len(rows), Height)
	}
	for y, row := range rows {
		if len(row) > Width {
			return b, fmt.Errorf("glyph: row %d has %d columns, want at most %d", y, len(row), Width)
		}
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '#', 'X', 'x', '*', '1':
				b.SetDot(x, y, true)
			case '.', ' ', '_', '0', '-':
			default:
				return b, fmt.Errorf("glyph: row %d column %d: unexpected %q", y, x, row[x])
			}
		}
	}
	return b, nil
}

// MustParse is like Parse but panics on error. It is meant for package level
// glyph tables.
func MustParse(rows ...string) Bitmap {
	b, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return b
}

// FromImage samples the 5×8 area of img starting at its bounds' minimum
// point.
func FromImage(img image.Image) (Bitmap, error) {
	var b Bitmap
	r := img.Bounds()
	if r.Dx() < Width || r.Dy() < Height {
		return b, errors.New("glyph: image smaller than 5x8")
	}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			b.Set(x, y, img.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return b, nil
}
