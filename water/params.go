// Package water holds the water surface's rendering parameters and the
// manager the water form edits.
package water

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/milk9111/worldeditor/form"
)

var ErrUnknownParam = errors.New("water: unknown parameter")

// Params are the uniforms of the water shader. Colors are RGBA in [0, 1].
type Params struct {
	WindAngle        float32    `yaml:"wind_angle" json:"windAngle"`
	WindForce        float32    `yaml:"wind_force" json:"windForce"`
	WaveHeight       float32    `yaml:"wave_height" json:"waveHeight"`
	WaveLength       float32    `yaml:"wave_length" json:"waveLength"`
	WaveSpeed        float32    `yaml:"wave_speed" json:"waveSpeed"`
	FresnelBias      float32    `yaml:"fresnel_bias" json:"fresnelBias"`
	FresnelPower     float32    `yaml:"fresnel_power" json:"fresnelPower"`
	R0               float32    `yaml:"r0" json:"r0"`
	RefractionAmount float32    `yaml:"refraction_amount" json:"refractionAmount"`
	ReflectionAmount float32    `yaml:"reflection_amount" json:"reflectionAmount"`
	SpecularPower    float32    `yaml:"specular_power" json:"specularPower"`
	SunColor         mgl32.Vec4 `yaml:"sun_color" json:"sunColor"`
	WaterColor       mgl32.Vec4 `yaml:"water_color" json:"waterColor"`
}

// Defaults returns calm, slightly blue water.
func Defaults() Params {
	return Params{
		WindAngle:        45,
		WindForce:        2,
		WaveHeight:       0.3,
		WaveLength:       0.1,
		WaveSpeed:        0.02,
		FresnelBias:      0.328,
		FresnelPower:     5,
		R0:               0.02,
		RefractionAmount: 0.5,
		ReflectionAmount: 0.5,
		SpecularPower:    64,
		SunColor:         mgl32.Vec4{1, 0.95, 0.8, 1},
		WaterColor:       mgl32.Vec4{0.1, 0.3, 0.5, 1},
	}
}

// WindDirection is the unit ground-plane vector of WindAngle.
func (p Params) WindDirection() mgl32.Vec2 {
	r := mgl32.DegToRad(p.WindAngle)
	return mgl32.Vec2{float32(math.Cos(float64(r))), float32(math.Sin(float64(r)))}
}

// Param names one scalar water parameter.
type Param int

const (
	ParamWindAngle Param = iota
	ParamWindForce
	ParamWaveHeight
	ParamWaveLength
	ParamWaveSpeed
	ParamFresnelBias
	ParamFresnelPower
	ParamR0
	ParamRefractionAmount
	ParamReflectionAmount
	ParamSpecularPower
	paramCount
)

var paramNames = [paramCount]string{
	"WindAngle",
	"WindForce",
	"WaveHeight",
	"WaveLength",
	"WaveSpeed",
	"FresnelBias",
	"FresnelPower",
	"R0",
	"RefractionAmount",
	"ReflectionAmount",
	"SpecularPower",
}

var paramRanges = [paramCount]form.Range{
	{Min: 0, Max: 360},
	{Min: 0, Max: 20},
	{Min: 0, Max: 5},
	{Min: 0.001, Max: 1},
	{Min: 0, Max: 1},
	{Min: 0, Max: 1},
	{Min: 0, Max: 10},
	{Min: 0, Max: 1},
	{Min: 0, Max: 1},
	{Min: 0, Max: 1},
	{Min: 1, Max: 512},
}

func (p Param) String() string {
	if p < 0 || p >= paramCount {
		return "Unknown"
	}
	return paramNames[p]
}

// Range is the accepted interval of p.
func (p Param) Range() form.Range {
	if p < 0 || p >= paramCount {
		return form.Range{}
	}
	return paramRanges[p]
}

// AllParams lists every scalar parameter in form order.
func AllParams() []Param {
	out := make([]Param, paramCount)
	for i := range out {
		out[i] = Param(i)
	}
	return out
}

// ParseParam resolves a parameter by name, ignoring case.
func ParseParam(s string) (Param, bool) {
	for i, n := range paramNames {
		if strings.EqualFold(n, s) {
			return Param(i), true
		}
	}
	return 0, false
}

func (p *Params) field(k Param) *float32 {
	switch k {
	case ParamWindAngle:
		return &p.WindAngle
	case ParamWindForce:
		return &p.WindForce
	case ParamWaveHeight:
		return &p.WaveHeight
	case ParamWaveLength:
		return &p.WaveLength
	case ParamWaveSpeed:
		return &p.WaveSpeed
	case ParamFresnelBias:
		return &p.FresnelBias
	case ParamFresnelPower:
		return &p.FresnelPower
	case ParamR0:
		return &p.R0
	case ParamRefractionAmount:
		return &p.RefractionAmount
	case ParamReflectionAmount:
		return &p.ReflectionAmount
	case ParamSpecularPower:
		return &p.SpecularPower
	}
	return nil
}

// Get reads a scalar parameter.
func (p *Params) Get(k Param) (float32, error) {
	f := p.field(k)
	if f == nil {
		return 0, fmt.Errorf("%w: %d", ErrUnknownParam, int(k))
	}
	return *f, nil
}

// Set writes a scalar parameter clamped to its range and returns the stored
// value.
func (p *Params) Set(k Param, v float32) (float32, error) {
	f := p.field(k)
	if f == nil {
		return 0, fmt.Errorf("%w: %d", ErrUnknownParam, int(k))
	}
	*f = float32(k.Range().Clamp(float64(v)))
	return *f, nil
}

// Clamp limits every parameter to its range.
func (p *Params) Clamp() {
	for _, k := range AllParams() {
		f := p.field(k)
		*f = float32(k.Range().Clamp(float64(*f)))
	}
	p.SunColor = clampColor(p.SunColor)
	p.WaterColor = clampColor(p.WaterColor)
}

// Color names one of the color parameters.
type Color int

const (
	ColorSun Color = iota
	ColorWater
)

func (c Color) String() string {
	switch c {
	case ColorSun:
		return "SunColor"
	case ColorWater:
		return "WaterColor"
	default:
		return "Unknown"
	}
}

func (p *Params) color(c Color) *mgl32.Vec4 {
	switch c {
	case ColorSun:
		return &p.SunColor
	case ColorWater:
		return &p.WaterColor
	}
	return nil
}

func clampColor(c mgl32.Vec4) mgl32.Vec4 {
	for i := range c {
		c[i] = mgl32.Clamp(c[i], 0, 1)
	}
	return c
}
