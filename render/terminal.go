package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/phil-mansfield/barnes/geom"
	"github.com/phil-mansfield/barnes/particle"
)

const particleGlyph = '●'

// Terminal draws particles live in a terminal. Particles are coloured from
// blue to red by speed, relative to the fastest particle. The bottom row
// is a status line.
type Terminal struct {
	Domain geom.Boundary

	screen tcell.Screen
	quit chan struct{}
	once sync.Once
}

// NewTerminal initializes screen and starts listening for input. Pressing q,
// Esc or Ctrl-C closes the channel returned by Quit.
func NewTerminal(screen tcell.Screen, domain geom.Boundary) (*Terminal, error) {
	if err := screen.Init(); err != nil { return nil, err }
	screen.Clear()

	t := &Terminal{Domain: domain, screen: screen, quit: make(chan struct{})}
	go t.poll()
	return t, nil
}

// NewTerminalScreen creates a Terminal on the process's terminal.
func NewTerminalScreen(domain geom.Boundary) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil { return nil, err }
	return NewTerminal(screen, domain)
}

// Quit returns a channel which is closed once the user asks to quit.
func (t *Terminal) Quit() <-chan struct{} { return t.quit }

// Close restores the terminal.
func (t *Terminal) Close() { t.screen.Fini() }

func (t *Terminal) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil { return }
		if t.handleEvent(ev) {
			t.once.Do(func() { close(t.quit) })
		}
	}
}

// handleEvent returns true if ev is a request to quit.
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			return ev.Rune() == 'q' || ev.Rune() == 'Q'
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return false
}

// Cell returns the screen cell which pos falls in on a screen of the given
// size. ok is false for positions outside the domain.
func (t *Terminal) Cell(pos geom.Vec, width, height int) (x, y int, ok bool) {
	if !t.Domain.Contains(pos) || width <= 0 || height <= 0 {
		return 0, 0, false
	}
	fx := (pos.X - t.Domain.X) / t.Domain.Width
	fy := (pos.Y - t.Domain.Y) / t.Domain.Height

	x = int(fx * float64(width))
	y = height - 1 - int(fy*float64(height))
	if x >= width { x = width - 1 }
	if y < 0 { y = 0 }
	return x, y, true
}

// SpeedColor maps a speed in [0, max] onto a blue to red gradient.
func SpeedColor(speed, max float64) tcell.Color {
	f := 0.0
	if max > 0 { f = math.Min(speed/max, 1) }
	return tcell.NewRGBColor(int32(255*f), 64, int32(255*(1-f)))
}

// Draw replaces the screen's contents with ps.
func (t *Terminal) Draw(time float64, step int, ps []particle.Particle) {
	t.screen.Clear()
	width, height := t.screen.Size()

	maxSpeed := 0.0
	for i := range ps {
		maxSpeed = math.Max(maxSpeed, geom.Norm(ps[i].Vel))
	}

	for i := range ps {
		x, y, ok := t.Cell(ps[i].Pos, width, height-1)
		if !ok { continue }
		c := SpeedColor(geom.Norm(ps[i].Vel), maxSpeed)
		t.screen.SetContent(x, y, particleGlyph, nil,
			tcell.StyleDefault.Foreground(c))
	}

	status := fmt.Sprintf(" t = %.3f  step = %d  n = %d  [q] quit",
		time, step, len(ps))
	t.drawString(0, height-1, status, tcell.StyleDefault.Reverse(true))
	t.screen.Show()
}

func (t *Terminal) drawString(x, y int, str string, style tcell.Style) {
	width, _ := t.screen.Size()
	for _, r := range str {
		if x >= width { return }
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
