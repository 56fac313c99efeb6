package display

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Canvas is a Sink backed by an SSD1306-layout framebuffer. Text is drawn
// with a transparent background; only "on" glyph pixels are painted.
type Canvas struct {
	img    *image1bit.VerticalLSB
	panel  Panel
	cell   *image.Alpha
	drawer font.Drawer

	cursor image.Point
	size   int
	on     bool
	wrap   bool
}

// NewCanvas returns a blank canvas flushing to p. A nil panel is allowed;
// Display is then a no-op.
func NewCanvas(p Panel) *Canvas {
	cell := image.NewAlpha(image.Rect(0, 0, CellW, CellH))
	return &Canvas{
		img:   image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height)),
		panel: p,
		cell:  cell,
		drawer: font.Drawer{
			Dst:  cell,
			Src:  image.Opaque,
			Face: Face5x7,
		},
		size: 1,
		on:   true,
		wrap: true,
	}
}

func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

func (c *Canvas) SetCursor(x, y int) {
	c.cursor = image.Pt(x, y)
}

func (c *Canvas) Cursor() image.Point { return c.cursor }

func (c *Canvas) SetTextSize(n int) {
	if n < 1 {
		n = 1
	}
	c.size = n
}

func (c *Canvas) SetTextColor(on bool) {
	c.on = on
}

// SetTextWrap controls whether text that would cross the right edge moves
// to the next line.
func (c *Canvas) SetTextWrap(wrap bool) {
	c.wrap = wrap
}

func (c *Canvas) Print(s string) {
	for _, r := range s {
		switch r {
		case '\n':
			c.cursor.X = 0
			c.cursor.Y += CellH * c.size
		case '\r':
		default:
			if c.wrap && c.cursor.X+CellW*c.size > Width {
				c.cursor.X = 0
				c.cursor.Y += CellH * c.size
			}
			c.drawGlyph(printable(r))
			c.cursor.X += CellW * c.size
		}
	}
}

func (c *Canvas) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

func (c *Canvas) drawGlyph(r rune) {
	clear(c.cell.Pix)
	c.drawer.Dot = fixed.P(0, Face5x7.Ascent)
	c.drawer.DrawString(string(r))

	mask := c.cell
	if c.size > 1 {
		mask = image.NewAlpha(image.Rect(0, 0, CellW*c.size, CellH*c.size))
		xdraw.NearestNeighbor.Scale(mask, mask.Bounds(), c.cell, c.cell.Bounds(), xdraw.Src, nil)
	}

	dst := mask.Bounds().Add(c.cursor)
	draw.DrawMask(c.img, dst, image.NewUniform(image1bit.Bit(c.on)), image.Point{}, mask, image.Point{}, draw.Over)
}

// FillCircle paints a filled disc centred on (x0, y0).
func (c *Canvas) FillCircle(x0, y0, r int, on bool) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.SetPixel(x0+dx, y0+dy, on)
			}
		}
	}
}

// SetPixel ignores coordinates outside the panel.
func (c *Canvas) SetPixel(x, y int, on bool) {
	if !image.Pt(x, y).In(c.img.Rect) {
		return
	}
	c.img.SetBit(x, y, image1bit.Bit(on))
}

func (c *Canvas) Pixel(x, y int) bool {
	if !image.Pt(x, y).In(c.img.Rect) {
		return false
	}
	return bool(c.img.BitAt(x, y))
}

// Frame returns a copy of the framebuffer in panel byte order.
func (c *Canvas) Frame() []byte {
	return append([]byte(nil), c.img.Pix...)
}

func (c *Canvas) Display() error {
	if c.panel == nil {
		return nil
	}
	return c.panel.Draw(c.img.Bounds(), c.img, image.Point{})
}
