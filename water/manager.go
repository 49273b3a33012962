package water

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Manager owns the live water parameters of a map and tells listeners when
// they change.
type Manager struct {
	params    Params
	listeners []func(Params)
	notifying bool
	log       *slog.Logger
}

func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{params: Defaults(), log: log}
}

// OnChange registers fn to run after every change.
func (m *Manager) OnChange(fn func(Params)) {
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) Params() Params {
	return m.params
}

// Apply replaces all parameters, clamping each to its range.
func (m *Manager) Apply(p Params) {
	p.Clamp()
	m.params = p
	m.notify()
}

func (m *Manager) Get(k Param) (float32, error) {
	return m.params.Get(k)
}

// Set writes one parameter and returns the clamped value stored.
func (m *Manager) Set(k Param, v float32) (float32, error) {
	prev, err := m.params.Get(k)
	if err != nil {
		return 0, err
	}
	got, err := m.params.Set(k, v)
	if err != nil {
		return 0, err
	}
	if got != prev {
		m.log.Debug("water param", "param", k, "value", got)
		m.notify()
	}
	return got, nil
}

func (m *Manager) Color(c Color) (mgl32.Vec4, error) {
	p := m.params.color(c)
	if p == nil {
		return mgl32.Vec4{}, fmt.Errorf("%w: color %d", ErrUnknownParam, int(c))
	}
	return *p, nil
}

// SetColor writes a color with each channel clamped to [0, 1].
func (m *Manager) SetColor(c Color, v mgl32.Vec4) error {
	p := m.params.color(c)
	if p == nil {
		return fmt.Errorf("%w: color %d", ErrUnknownParam, int(c))
	}
	v = clampColor(v)
	if *p == v {
		return nil
	}
	*p = v
	m.notify()
	return nil
}

// notify runs the listeners. Changes made by a listener are kept but do not
// notify again.
func (m *Manager) notify() {
	if m.notifying {
		return
	}
	m.notifying = true
	defer func() { m.notifying = false }()
	for _, fn := range m.listeners {
		fn(m.params)
	}
}
