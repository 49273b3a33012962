package terrain

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type screenPicker struct{ miss bool }

func (p screenPicker) Pick(sx, sy int) (mgl32.Vec3, bool) {
	if p.miss {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{float32(sx), 0, float32(sy)}, true
}

type recordingPainter struct {
	calls []string
}

func (r *recordingPainter) Paint(mgl32.Vec3, int, Brush) int {
	r.calls = append(r.calls, "paint")
	return 1
}

func (r *recordingPainter) Unpaint(mgl32.Vec3, int, Brush) int {
	r.calls = append(r.calls, "unpaint")
	return 1
}

func (r *recordingPainter) Block(mgl32.Vec3, Brush) int {
	r.calls = append(r.calls, "block")
	return 1
}

func (r *recordingPainter) Unblock(mgl32.Vec3, Brush) int {
	r.calls = append(r.calls, "unblock")
	return 1
}

type fakeWindow struct {
	confirm bool
	forced  bool
}

func (w *fakeWindow) RequestClose(closed func()) {
	if w.confirm {
		go closed()
	}
}

func (w *fakeWindow) ForceClose() { w.forced = true }

func TestPaintTickDedup(t *testing.T) {
	p := &recordingPainter{}
	tool := NewPaintTool(p, screenPicker{}, nil)
	tool.Open(&fakeWindow{confirm: true})

	assert.True(t, tool.Tick(Input{Button: true, X: 10, Y: 10}))
	assert.False(t, tool.Tick(Input{Button: true, X: 10, Y: 10}), "same position twice")
	assert.Len(t, p.calls, 1)

	assert.True(t, tool.Tick(Input{Button: true, X: 11, Y: 10}))
	assert.Len(t, p.calls, 2)

	assert.False(t, tool.Tick(Input{Button: true, X: 40, Y: 40, OverToolWindow: true}))
	assert.False(t, tool.Tick(Input{Button: false, X: 41, Y: 40, OverToolWindow: true}))
	assert.Len(t, p.calls, 2, "over the tool window never dispatches")

	// a fresh press at the previous spot paints again
	assert.False(t, tool.Tick(Input{Button: false, X: 11, Y: 10}))
	assert.True(t, tool.Tick(Input{Button: true, X: 11, Y: 10}))
	assert.Len(t, p.calls, 3)
}

func TestPaintTickRequiresActiveTool(t *testing.T) {
	p := &recordingPainter{}
	tool := NewPaintTool(p, screenPicker{}, nil)
	assert.False(t, tool.Tick(Input{Button: true, X: 1, Y: 1}))

	tool.Open(nil)
	require.NoError(t, tool.Close(context.Background()))
	assert.False(t, tool.Tick(Input{Button: true, X: 2, Y: 2}))
	assert.Empty(t, p.calls)
}

func TestPaintTickMissedPick(t *testing.T) {
	p := &recordingPainter{}
	tool := NewPaintTool(p, screenPicker{miss: true}, nil)
	tool.Open(nil)
	assert.False(t, tool.Tick(Input{Button: true, X: 3, Y: 3}))
	assert.Empty(t, p.calls)
}

func TestPaintTickDispatch(t *testing.T) {
	cases := []struct {
		mode Mode
		sub  SubMode
		want string
	}{
		{ModeFill, SubModeAlpha, "paint"},
		{ModeUnfill, SubModeAlpha, "unpaint"},
		{ModeFill, SubModePath, "block"},
		{ModeUnfill, SubModePath, "unblock"},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String()+tc.sub.String(), func(t *testing.T) {
			p := &recordingPainter{}
			tool := NewPaintTool(p, screenPicker{}, nil)
			tool.Mode, tool.SubMode = tc.mode, tc.sub
			tool.Open(nil)
			require.True(t, tool.Tick(Input{Button: true, X: 5, Y: 6}))
			assert.Equal(t, []string{tc.want}, p.calls)
		})
	}
}

func TestCloseConfirmed(t *testing.T) {
	w := &fakeWindow{confirm: true}
	tool := NewPaintTool(&recordingPainter{}, screenPicker{}, nil)
	tool.Open(w)
	require.NoError(t, tool.Close(context.Background()))
	assert.False(t, w.forced)
	assert.False(t, tool.Active())
}

func TestCloseTimeoutForcesTeardown(t *testing.T) {
	w := &fakeWindow{}
	tool := NewPaintTool(&recordingPainter{}, screenPicker{}, nil)
	tool.CloseTimeout = 20 * time.Millisecond
	tool.Open(w)

	start := time.Now()
	err := tool.Close(context.Background())
	assert.ErrorIs(t, err, ErrCloseTimeout)
	assert.True(t, w.forced)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCloseContextCancelled(t *testing.T) {
	w := &fakeWindow{}
	tool := NewPaintTool(&recordingPainter{}, screenPicker{}, nil)
	tool.CloseTimeout = time.Minute
	tool.Open(w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tool.Close(ctx), context.Canceled)
	assert.True(t, w.forced)
}

func TestRendezvousSignalTwice(t *testing.T) {
	r := NewRendezvous()
	r.Signal()
	r.Signal()
	require.NoError(t, r.Wait(context.Background(), time.Millisecond))
	select {
	case <-r.Done():
	default:
		t.Fatal("done not closed")
	}
}

func TestCloseWhileTicking(t *testing.T) {
	w := &fakeWindow{confirm: true}
	tool := NewPaintTool(&recordingPainter{}, screenPicker{}, nil)
	tool.Open(w)

	done := make(chan error, 1)
	go func() { done <- tool.Close(context.Background()) }()

	for x := 0; ; x++ {
		tool.Tick(Input{Button: true, X: x, Y: 1})
		if !tool.Active() {
			break
		}
	}
	require.NoError(t, <-done)
	assert.False(t, tool.Tick(Input{Button: true, X: -1, Y: -1}))
}
