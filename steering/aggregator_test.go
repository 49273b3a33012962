package steering

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetActiveLifecycle(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			g := NewAggregator()
			require.NoError(t, g.SetActive(k, true))
			require.NotNil(t, g.Behavior(k))
			first := g.Behavior(k)

			// idempotent: the existing instance survives a second enable
			require.NoError(t, g.SetActive(k, true))
			assert.Same(t, first, g.Behavior(k))

			require.NoError(t, g.SetActive(k, false))
			assert.Nil(t, g.Behavior(k))
			assert.False(t, g.Registry().Has(k))
			require.NoError(t, g.SetActive(k, false))
			assert.Equal(t, 0, g.Registry().Len())
		})
	}
}

func TestSetActiveUnknownKind(t *testing.T) {
	g := NewAggregator()
	assert.ErrorIs(t, g.SetActive(Kind(99), true), ErrUnknownKind)
	assert.ErrorIs(t, g.SetAttribute(Kind(-1), At(PropWeight), 1.0), ErrUnknownKind)
}

func TestSetAttributeInactiveIsNoop(t *testing.T) {
	for _, k := range Kinds() {
		g := NewAggregator()
		require.NoError(t, g.SetAttribute(k, At(PropWeight), 3.0), k.String())
		assert.False(t, g.Registry().Has(k), "%s must not be created implicitly", k)
		_, ok := g.GetAttribute(k, PropWeight)
		assert.False(t, ok)
	}
}

func TestAttributeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		kind  Kind
		path  Path
		value any
		want  any
	}{
		{"flee_panic", KindFlee, At(PropPanicDistance), float32(22.5), float32(22.5)},
		{"flee_panic_from_float64", KindFlee, At(PropPanicDistance), 7.0, float32(7)},
		{"seek_target", KindSeek, At(PropTarget), mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 3}},
		{"arrive_deceleration", KindArrive, At(PropDeceleration), 3, 3},
		{"follow_loop", KindFollowPath, At(PropLoop), true, true},
		{"wander_jitter", KindWander, At(PropWanderJitter), float32(12), float32(12)},
		{"turn_speed", KindTurnToFace, At(PropTurnSpeed), 2, float32(2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewAggregator()
			require.NoError(t, g.SetActive(tc.kind, true))
			require.NoError(t, g.SetAttribute(tc.kind, tc.path, tc.value))
			got, ok := g.GetAttribute(tc.kind, tc.path.Property)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVectorSubField(t *testing.T) {
	g := NewAggregator()
	require.NoError(t, g.SetActive(KindOffsetPursuit, true))
	require.NoError(t, g.SetAttribute(KindOffsetPursuit, At(PropOffset), mgl32.Vec3{1, 1, 1}))
	require.NoError(t, g.SetAttribute(KindOffsetPursuit, At(PropOffset).Sub(FieldY), 5.0))

	got, ok := g.GetAttribute(KindOffsetPursuit, PropOffset)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 5, 1}, got)
}

func TestSetAttributeFaults(t *testing.T) {
	g := NewAggregator()
	require.NoError(t, g.SetActive(KindSeek, true))

	assert.ErrorIs(t, g.SetAttribute(KindSeek, At("Tagret"), mgl32.Vec3{}), ErrUnknownAttribute)
	assert.ErrorIs(t, g.SetAttribute(KindSeek, At(PropWeight).Sub(FieldX), 1.0), ErrUnknownAttribute)
	assert.ErrorIs(t, g.SetAttribute(KindSeek, At(PropTarget).Sub("W"), 1.0), ErrUnknownAttribute)
	assert.ErrorIs(t, g.SetAttribute(KindSeek, At(PropTarget), "north"), ErrAttributeType)
	assert.ErrorIs(t, g.SetAttribute(KindSeek, At(PropWeight), true), ErrAttributeType)
}

func TestBinderWithoutSelection(t *testing.T) {
	var selected *Aggregator
	b := NewBinder(func() *Aggregator { return selected }, nil)

	require.NoError(t, b.SetBehaviorActive(KindWander, true))
	require.NoError(t, b.SetAttribute(KindWander, At(PropWeight), 2.0))
	_, ok := b.GetAttribute(KindWander, PropWeight)
	assert.False(t, ok)
	assert.False(t, b.IsActive(KindWander))

	selected = NewAggregator()
	require.NoError(t, b.SetBehaviorActive(KindWander, true))
	require.NoError(t, b.SetAttribute(KindWander, At(PropWeight), 2.0))
	v, ok := b.GetAttribute(KindWander, PropWeight)
	require.True(t, ok)
	assert.Equal(t, float32(2), v)
}

func TestBinderLogsFaultOnce(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	g := NewAggregator()
	require.NoError(t, g.SetActive(KindFlee, true))
	b := NewBinder(func() *Aggregator { return g }, log)

	err := b.SetAttribute(KindFlee, At("PanicDist"), 1.0)
	require.ErrorIs(t, err, ErrUnknownAttribute)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("level=WARN")))
}

func TestCalculateRespectsMaxForce(t *testing.T) {
	g := NewAggregator()
	require.NoError(t, g.SetActive(KindSeek, true))
	require.NoError(t, g.SetActive(KindFlee, true))
	require.NoError(t, g.SetAttribute(KindSeek, At(PropTarget), mgl32.Vec3{100, 0, 0}))
	require.NoError(t, g.SetAttribute(KindFlee, At(PropTarget), mgl32.Vec3{0, 0, 1}))

	a := &Agent{MaxSpeed: 10, MaxForce: 4}
	f := g.Calculate(a, &Environment{DT: 1.0 / 60})
	assert.InDelta(t, 4, f.Len(), 1e-4)
	assert.Zero(t, f[1])
}

func TestCalculateSeekPointsAtTarget(t *testing.T) {
	g := NewAggregator()
	require.NoError(t, g.SetActive(KindSeek, true))
	require.NoError(t, g.SetAttribute(KindSeek, At(PropTarget), mgl32.Vec3{10, 0, 0}))

	f := g.Calculate(&Agent{MaxSpeed: 5, MaxForce: 100}, nil)
	assert.InDelta(t, 5, f[0], 1e-4)
	assert.InDelta(t, 0, f[2], 1e-4)
}

func TestFleeOutsidePanicDistance(t *testing.T) {
	b := &Flee{Weight: 1, PanicDistance: 5, Target: mgl32.Vec3{20, 0, 0}}
	assert.Equal(t, mgl32.Vec3{}, b.Force(&Agent{MaxSpeed: 3}, nil))
	b.Target = mgl32.Vec3{1, 0, 0}
	f := b.Force(&Agent{MaxSpeed: 3}, nil)
	assert.Less(t, f[0], float32(0))
}

func TestFollowPathAdvances(t *testing.T) {
	b := &FollowPath{Weight: 1, WaypointSeekDistance: 1, Waypoints: []mgl32.Vec3{{0, 0, 0}, {10, 0, 0}}}
	a := &Agent{MaxSpeed: 2}
	b.Force(a, nil)
	assert.Equal(t, 1, b.Current())

	b.Loop = true
	a.Position = mgl32.Vec3{10, 0, 0}
	b.Force(a, nil)
	assert.Equal(t, 0, b.Current())
}

func TestObstacleAvoidancePushesAside(t *testing.T) {
	b := &ObstacleAvoidance{Weight: 1, DetectionLength: 4}
	a := &Agent{Heading: mgl32.Vec3{0, 0, 1}, MaxSpeed: 1, Radius: 0.5}
	env := &Environment{Obstacles: []Obstacle{{Position: mgl32.Vec3{0.2, 0, 2}, Radius: 1}}}
	f := b.Force(a, env)
	// obstacle sits just to world +X, so the push is towards -X
	assert.Less(t, f[0], float32(0))

	env.Obstacles[0].Position = mgl32.Vec3{0, 0, -3}
	assert.Equal(t, mgl32.Vec3{}, b.Force(a, env))
}

func TestObstacleAvoidanceWithoutDetectionBox(t *testing.T) {
	env := &Environment{Obstacles: []Obstacle{{Position: mgl32.Vec3{0.3, 0, 0.5}, Radius: 1}}}
	for _, tc := range []struct {
		name   string
		length float32
		vel    mgl32.Vec3
	}{
		{"zero_length_at_rest", 0, mgl32.Vec3{}},
		{"zero_length_moving", 0, mgl32.Vec3{0, 0, 1}},
		{"negative_length", -2, mgl32.Vec3{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := NewAggregator()
			require.NoError(t, g.SetActive(KindObstacleAvoidance, true))
			require.NoError(t, g.SetAttribute(KindObstacleAvoidance, At(PropDetectionLength), tc.length))

			a := &Agent{Heading: mgl32.Vec3{0, 0, 1}, Velocity: tc.vel, MaxSpeed: 1, MaxForce: 10, Radius: 0.5}
			f := g.Calculate(a, env)
			for i := range f {
				assert.False(t, math.IsNaN(float64(f[i])) || math.IsInf(float64(f[i]), 0), "force %v", f)
			}
			assert.Equal(t, mgl32.Vec3{}, f)
		})
	}
}

func TestWanderStaysOnCircle(t *testing.T) {
	b, err := New(KindWander)
	require.NoError(t, err)
	w := b.(*Wander)
	a := &Agent{Heading: mgl32.Vec3{1, 0, 0}}
	for i := 0; i < 50; i++ {
		w.Force(a, &Environment{DT: 0.1})
		assert.InDelta(t, w.WanderRadius, w.target.Len(), 1e-3)
	}
}

func TestExportApplyRoundTrip(t *testing.T) {
	g := NewAggregator()
	require.NoError(t, g.SetActive(KindArrive, true))
	require.NoError(t, g.SetAttribute(KindArrive, At(PropDeceleration), 3))
	require.NoError(t, g.SetAttribute(KindArrive, At(PropTarget), mgl32.Vec3{4, 0, 2}))
	require.NoError(t, g.SetActive(KindFollowPath, true))
	g.Behavior(KindFollowPath).(*FollowPath).Waypoints = []mgl32.Vec3{{1, 0, 1}, {2, 0, 2}}

	data, err := json.Marshal(g.Export())
	require.NoError(t, err)
	var cfgs []Config
	require.NoError(t, json.Unmarshal(data, &cfgs))

	h := NewAggregator()
	for _, c := range cfgs {
		require.NoError(t, h.Apply(c))
	}
	assert.Equal(t, []Kind{KindArrive, KindFollowPath}, h.Registry().Active())
	v, _ := h.GetAttribute(KindArrive, PropDeceleration)
	assert.Equal(t, 3, v)
	assert.Len(t, h.Behavior(KindFollowPath).(*FollowPath).Waypoints, 2)

	assert.ErrorIs(t, h.Apply(Config{Kind: "Teleport"}), ErrUnknownKind)
	assert.ErrorIs(t, h.Apply(Config{Kind: "Seek", Floats: map[string]float32{"Nope": 1}}), ErrUnknownAttribute)
}

func TestPropertiesAndParseKind(t *testing.T) {
	assert.Equal(t, []string{PropWeight, PropTarget, PropPanicDistance}, Properties(KindFlee))
	assert.True(t, IsVector(KindOffsetPursuit, PropOffset))
	assert.False(t, IsVector(KindFlee, PropPanicDistance))

	k, ok := ParseKind("obstacleavoidance")
	require.True(t, ok)
	assert.Equal(t, KindObstacleAvoidance, k)
	_, ok = ParseKind("Teleport")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Kind(42).String())
}
