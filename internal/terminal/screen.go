package terminal

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/browsermotion/internal/input/key"
)

// KeyHandler receives converted keystrokes. Returning false stops Run.
type KeyHandler func(ev key.Event) bool

// Terminal owns a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	now    func() time.Time
}

// New wraps screen. Pass nil to open the real terminal.
func New(screen tcell.Screen) (*Terminal, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		screen = s
	}
	return &Terminal{screen: screen, now: time.Now}, nil
}

// Init initializes the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.Clear()
	return nil
}

// Fini restores the terminal.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

// Run polls key events and passes them to h until h returns false, ctx is
// done, or the screen is finalized. Resizes redraw the screen.
func (t *Terminal) Run(ctx context.Context, h KeyHandler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		// Wakes PollEvent.
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			if !h(KeyEvent(e, t.now())) {
				return nil
			}
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Sync()
			t.mu.Unlock()
		}
	}
}

// Draw replaces the screen contents with lines, one per row, clipped to the
// screen width.
func (t *Terminal) Draw(lines []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	width, height := t.screen.Size()
	for y, line := range lines {
		if y >= height {
			break
		}
		drawLine(t.screen, y, width, line)
	}
	t.screen.Show()
}

func drawLine(s tcell.Screen, y, width int, line string) {
	x := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if x+w > width {
			return
		}
		s.SetContent(x, y, runes[0], runes[1:], tcell.StyleDefault)
		x += w
	}
}
