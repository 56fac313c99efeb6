package demo

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"wxdisplay/internal/clock"
	"wxdisplay/internal/display"
	"wxdisplay/internal/display/displaytest"
)

type circle struct{ x, y, r int }

type recordingSurface struct {
	*displaytest.Recorder
	circles []circle
}

func (s *recordingSurface) FillCircle(x, y, r int, on bool) {
	s.circles = append(s.circles, circle{x, y, r})
}

func TestBall_FirstSteps(t *testing.T) {
	b := NewBall()
	b.Step()
	if b.X != 6 || b.Y != 23 {
		t.Fatalf("after one step = (%d,%d); want (6,23)", b.X, b.Y)
	}
	for i := 0; i < 12; i++ {
		b.Step()
	}
	if b.Y != 59 || b.DY != -3 {
		t.Fatalf("at bottom = y %d dy %d; want 59, -3", b.Y, b.DY)
	}
}

func TestBall_StaysInBounds(t *testing.T) {
	b := NewBall()
	for i := 0; i < 5000; i++ {
		b.Step()
		if b.X < 4 || b.X > 124 {
			t.Fatalf("step %d: x = %d out of [4,124]", i, b.X)
		}
		if b.Y < 20 || b.Y > 59 {
			t.Fatalf("step %d: y = %d out of [20,59]", i, b.Y)
		}
	}
}

func TestDrawBall(t *testing.T) {
	s := &recordingSurface{Recorder: &displaytest.Recorder{}}
	if err := DrawBall(s, Ball{X: 6, Y: 23, R: 4}); err != nil {
		t.Fatalf("DrawBall: %v", err)
	}
	want := "X =   6      Y =  23\n____________________\n"
	if got := s.Last().Text; got != want {
		t.Errorf("text = %q; want %q", got, want)
	}
	if len(s.circles) != 1 || s.circles[0] != (circle{6, 23, 4}) {
		t.Errorf("circles = %v; want one at (6,23) r4", s.circles)
	}
}

func TestDrawBall_OnCanvas(t *testing.T) {
	c := display.NewCanvas(nil)
	if err := DrawBall(c, NewBall()); err != nil {
		t.Fatalf("DrawBall: %v", err)
	}
	if !c.Pixel(4, 20) {
		t.Error("ball centre not lit")
	}
	// underline row of the second text line
	if !c.Pixel(0, display.CellH+6) {
		t.Error("header underline not drawn")
	}
}

func TestRunBall_StopsOnCancel(t *testing.T) {
	s := &recordingSurface{Recorder: &displaytest.Recorder{}}
	clk := clock.NewFake(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunBall(ctx, s, clk)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunBall() = %v; want context.Canceled", err)
	}
	if got := len(s.Frames()); got != 1 {
		t.Errorf("frames = %d; want 1", got)
	}
}

func TestRunBall_FlushError(t *testing.T) {
	boom := errors.New("i2c nack")
	s := &recordingSurface{Recorder: &displaytest.Recorder{Err: boom}}
	err := RunBall(context.Background(), s, clock.NewFake(time.Unix(0, 0)))
	if !errors.Is(err, boom) {
		t.Fatalf("RunBall() = %v; want %v", err, boom)
	}
}

type levels struct {
	seq []bool
	i   int
}

func (l *levels) Pressed() bool {
	if l.i >= len(l.seq) {
		return false
	}
	v := l.seq[l.i]
	l.i++
	return v
}

func TestTextToggle(t *testing.T) {
	rec := &displaytest.Recorder{}
	tt := NewTextToggle(ToggleDebounce)
	start := time.Unix(0, 0)

	tests := []struct {
		name    string
		pressed bool
		at      time.Duration
		want    string
		size    int
	}{
		{"first press", true, 0, LargeText + "\n", 2},
		{"release", false, 50 * time.Millisecond, LargeText + "\n", 2},
		{"bounce 100ms after", true, 100 * time.Millisecond, LargeText + "\n", 2},
		{"release again", false, 120 * time.Millisecond, LargeText + "\n", 2},
		{"press after window", true, 160 * time.Millisecond, SmallText + "\n", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := &levels{seq: []bool{tc.pressed}}
			if err := tt.Poll(rec, in, start.Add(tc.at)); err != nil {
				t.Fatalf("Poll: %v", err)
			}
			last := rec.Last()
			if last.Text != tc.want || last.Size != tc.size {
				t.Errorf("last = %+v; want %q at size %d", last, tc.want, tc.size)
			}
		})
	}
}

func TestRunTextToggle(t *testing.T) {
	rec := &displaytest.Recorder{}
	clk := clock.NewFake(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := &levels{seq: []bool{false, true, true, false}}
	cc := &countdown{Fake: clk, n: len(in.seq), cancel: cancel}
	err := RunTextToggle(ctx, rec, in, cc, ToggleDebounce, 10*time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunTextToggle() = %v; want context.Canceled", err)
	}
	frames := rec.Frames()
	if len(frames) != 2 {
		t.Fatalf("frames = %d; want blank plus one toggle", len(frames))
	}
	if frames[0].Text != "" || frames[1].Text != LargeText+"\n" {
		t.Errorf("frames = %+v", frames)
	}
}

func TestDrawLargeText(t *testing.T) {
	rec := &displaytest.Recorder{}
	if err := DrawLargeText(rec); err != nil {
		t.Fatalf("DrawLargeText: %v", err)
	}
	want := "Top line  \nis orange.\nThe others\nare blue. \n"
	if got := rec.Last(); got.Text != want || got.Size != 2 {
		t.Errorf("last = %+v; want %q at size 2", got, want)
	}
}

func TestDrawLargeText_FitsPanel(t *testing.T) {
	for _, l := range LargeTextLines {
		if w := len(l) * display.CellW * 2; w > display.Width {
			t.Errorf("%q is %dpx wide; panel is %d", l, w, display.Width)
		}
	}
	if h := len(LargeTextLines) * display.CellH * 2; h > display.Height {
		t.Errorf("text is %dpx tall; panel is %d", h, display.Height)
	}
	c := display.NewCanvas(nil)
	if err := DrawLargeText(c); err != nil {
		t.Fatal(err)
	}
	if c.Cursor() != image.Pt(0, display.Height) {
		t.Errorf("cursor = %v; want %v", c.Cursor(), image.Pt(0, display.Height))
	}
}

func TestRunLargeText_Redraws(t *testing.T) {
	rec := &displaytest.Recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cc := &countdown{Fake: clock.NewFake(time.Unix(0, 0)), n: 3, cancel: cancel}

	if err := RunLargeText(ctx, rec, cc, 100*time.Millisecond); !errors.Is(err, context.Canceled) {
		t.Fatalf("RunLargeText() = %v; want context.Canceled", err)
	}
	if got := len(rec.Frames()); got != 4 {
		t.Errorf("frames = %d; want 4", got)
	}
}

// countdown cancels its context on the (n+1)th Sleep.
type countdown struct {
	*clock.Fake
	n      int
	cancel context.CancelFunc
}

func (c *countdown) Sleep(ctx context.Context, d time.Duration) error {
	c.n--
	if c.n < 0 {
		c.cancel()
	}
	return c.Fake.Sleep(ctx, d)
}
