package terrain

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCloseTimeout bounds how long Close waits for the paint window.
const DefaultCloseTimeout = 2 * time.Second

// Mode selects between adding and removing.
type Mode int

const (
	ModeFill Mode = iota
	ModeUnfill
)

func (m Mode) String() string {
	switch m {
	case ModeFill:
		return "Fill"
	case ModeUnfill:
		return "Unfill"
	default:
		return "Unknown"
	}
}

// SubMode selects what a stroke edits.
type SubMode int

const (
	SubModeAlpha SubMode = iota
	SubModePath
)

func (s SubMode) String() string {
	switch s {
	case SubModeAlpha:
		return "Alpha"
	case SubModePath:
		return "Path"
	default:
		return "Unknown"
	}
}

// Painter receives paint strokes. Each call returns how many cells changed.
type Painter interface {
	Paint(center mgl32.Vec3, layer int, b Brush) int
	Unpaint(center mgl32.Vec3, layer int, b Brush) int
	Block(center mgl32.Vec3, b Brush) int
	Unblock(center mgl32.Vec3, b Brush) int
}

// Window is the paint tool's own window, owned by the UI runtime.
type Window interface {
	// RequestClose asks the window to close and calls closed once it has.
	RequestClose(closed func())
	// ForceClose tears the window down without waiting.
	ForceClose()
}

// Input is one sample of the mouse.
type Input struct {
	Button         bool
	X, Y           int
	OverToolWindow bool
}

// PaintTool turns held-mouse movement into paint strokes.
type PaintTool struct {
	Mode         Mode
	SubMode      SubMode
	Brush        Brush
	Layer        int
	CloseTimeout time.Duration

	log *slog.Logger

	// mu guards the fields below; Close runs off the UI loop.
	mu      sync.Mutex
	painter Painter
	picker  Picker
	window  Window
	active  bool
	hasLast bool
	lastX   int
	lastY   int
}

func NewPaintTool(painter Painter, picker Picker, log *slog.Logger) *PaintTool {
	if log == nil {
		log = slog.Default()
	}
	return &PaintTool{
		Brush:        Brush{Radius: 4, Strength: 0.25, Falloff: true},
		Layer:        1,
		CloseTimeout: DefaultCloseTimeout,
		painter:      painter,
		picker:       picker,
		log:          log,
	}
}

// Open makes the tool active and attaches its window.
func (t *PaintTool) Open(w Window) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.window = w
	t.active = true
	t.hasLast = false
}

func (t *PaintTool) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Retarget points the tool at another terrain, as after loading a map.
func (t *PaintTool) Retarget(painter Painter, picker Picker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.painter = painter
	t.picker = picker
	t.hasLast = false
}

// Tick samples the mouse once and dispatches at most one stroke. It reports
// whether a stroke was dispatched.
func (t *PaintTool) Tick(in Input) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !in.Button {
		t.hasLast = false
		return false
	}
	if !t.active || in.OverToolWindow || t.painter == nil || t.picker == nil {
		return false
	}
	if t.hasLast && in.X == t.lastX && in.Y == t.lastY {
		return false
	}
	t.hasLast = true
	t.lastX, t.lastY = in.X, in.Y

	p, ok := t.picker.Pick(in.X, in.Y)
	if !ok {
		return false
	}

	var n int
	switch {
	case t.SubMode == SubModeAlpha && t.Mode == ModeFill:
		n = t.painter.Paint(p, t.Layer, t.Brush)
	case t.SubMode == SubModeAlpha:
		n = t.painter.Unpaint(p, t.Layer, t.Brush)
	case t.Mode == ModeFill:
		n = t.painter.Block(p, t.Brush)
	default:
		n = t.painter.Unblock(p, t.Brush)
	}
	t.log.Debug("paint stroke", "mode", t.Mode, "sub", t.SubMode, "x", p[0], "z", p[2], "changed", n)
	return true
}

// Close asks the window to close and waits for it to confirm. If it does not
// within CloseTimeout, or ctx ends first, the window is torn down by force and
// the wait error is returned.
func (t *PaintTool) Close(ctx context.Context) error {
	t.mu.Lock()
	t.active = false
	t.hasLast = false
	w := t.window
	t.window = nil
	t.mu.Unlock()
	if w == nil {
		return nil
	}

	timeout := t.CloseTimeout
	if timeout <= 0 {
		timeout = DefaultCloseTimeout
	}
	r := NewRendezvous()
	w.RequestClose(r.Signal)
	if err := r.Wait(ctx, timeout); err != nil {
		t.log.Warn("paint window close did not complete, forcing", "timeout", timeout, "err", err)
		w.ForceClose()
		return err
	}
	return nil
}

// Rendezvous is a single-use completion flag.
type Rendezvous struct {
	once sync.Once
	done chan struct{}
}

func NewRendezvous() *Rendezvous {
	return &Rendezvous{done: make(chan struct{})}
}

// Signal marks completion. Extra calls are ignored.
func (r *Rendezvous) Signal() {
	r.once.Do(func() { close(r.done) })
}

// Done is closed once Signal has been called.
func (r *Rendezvous) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until Signal, the timeout, or ctx, whichever comes first.
func (r *Rendezvous) Wait(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-r.done:
		return nil
	case <-timer.C:
		return ErrCloseTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
