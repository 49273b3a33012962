package water

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamRoundTrip(t *testing.T) {
	var p Params
	for _, k := range AllParams() {
		r := k.Range()
		want := float32((r.Min + r.Max) / 2)
		got, err := p.Set(k, want)
		require.NoError(t, err, k.String())
		assert.Equal(t, want, got)
		v, err := p.Get(k)
		require.NoError(t, err)
		assert.Equal(t, want, v, k.String())
	}
}

func TestParamClamp(t *testing.T) {
	p := Defaults()
	got, err := p.Set(ParamWindAngle, 400)
	require.NoError(t, err)
	assert.Equal(t, float32(360), got)

	got, err = p.Set(ParamSpecularPower, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(1), got)

	_, err = p.Set(Param(99), 1)
	assert.ErrorIs(t, err, ErrUnknownParam)
	assert.Equal(t, "Unknown", Param(99).String())
}

func TestParseParam(t *testing.T) {
	k, ok := ParseParam("waveheight")
	require.True(t, ok)
	assert.Equal(t, ParamWaveHeight, k)
	_, ok = ParseParam("tide")
	assert.False(t, ok)
}

func TestWindDirection(t *testing.T) {
	p := Params{WindAngle: 90}
	d := p.WindDirection()
	assert.InDelta(t, 0, d[0], 1e-6)
	assert.InDelta(t, 1, d[1], 1e-6)
}

func TestManagerNotifies(t *testing.T) {
	m := NewManager(nil)
	var seen []float32
	m.OnChange(func(p Params) { seen = append(seen, p.WaveHeight) })

	_, err := m.Set(ParamWaveHeight, 1.5)
	require.NoError(t, err)
	_, err = m.Set(ParamWaveHeight, 1.5)
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5}, seen, "unchanged value does not notify")

	require.NoError(t, m.SetColor(ColorWater, mgl32.Vec4{2, -1, 0.5, 1}))
	c, err := m.Color(ColorWater)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{1, 0, 0.5, 1}, c)
	assert.Len(t, seen, 2)
}

func TestManagerListenerDoesNotRecurse(t *testing.T) {
	m := NewManager(nil)
	calls := 0
	m.OnChange(func(p Params) {
		calls++
		_, _ = m.Set(ParamWindForce, p.WindForce+1)
	})
	_, err := m.Set(ParamWindForce, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, float32(4), m.Params().WindForce)
}

func TestManagerApplyClamps(t *testing.T) {
	m := NewManager(nil)
	p := Defaults()
	p.FresnelPower = 50
	p.SunColor = mgl32.Vec4{3, 3, 3, 3}
	m.Apply(p)
	assert.Equal(t, float32(10), m.Params().FresnelPower)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, m.Params().SunColor)
}
