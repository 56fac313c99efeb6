package display

import (
	"bytes"
	"image"
	"io"
	"strings"
	"sync"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Console is a Panel that draws frames on a terminal, two pixel rows per
// text line using half-block characters. Unchanged frames are skipped.
type Console struct {
	mu   sync.Mutex
	w    io.Writer
	last []byte
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	var buf bytes.Buffer
	buf.WriteString("\x1b[H+")
	buf.WriteString(strings.Repeat("-", r.Dx()))
	buf.WriteString("+\n")
	for y := r.Min.Y; y < r.Max.Y; y += 2 {
		buf.WriteByte('|')
		for x := r.Min.X; x < r.Max.X; x++ {
			top := on(src, sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			bottom := y+1 < r.Max.Y && on(src, sp.X+x-r.Min.X, sp.Y+y+1-r.Min.Y)
			switch {
			case top && bottom:
				buf.WriteString("█")
			case top:
				buf.WriteString("▀")
			case bottom:
				buf.WriteString("▄")
			default:
				buf.WriteByte(' ')
			}
		}
		buf.WriteString("|\n")
	}
	buf.WriteByte('+')
	buf.WriteString(strings.Repeat("-", r.Dx()))
	buf.WriteString("+\n")

	c.mu.Lock()
	defer c.mu.Unlock()
	if bytes.Equal(buf.Bytes(), c.last) {
		return nil
	}
	c.last = append(c.last[:0], buf.Bytes()...)
	_, err := c.w.Write(buf.Bytes())
	return err
}

func (c *Console) Halt() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = nil
	return nil
}

func on(src image.Image, x, y int) bool {
	return bool(image1bit.BitModel.Convert(src.At(x, y)).(image1bit.Bit))
}
