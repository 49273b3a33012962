// Package material edits the procedural material parameters of a model,
// either for one model part or for all parts at once.
package material

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// AllParts addresses every part of a model.
const AllParts = -1

var (
	ErrUnknownParam = errors.New("material: unknown parameter")
	ErrParamType    = errors.New("material: wrong parameter type")
	ErrBadPart      = errors.New("material: part out of range")
)

// ParamKind names one material parameter.
type ParamKind int

const (
	Diffuse ParamKind = iota
	Specular
	Emissive
	SpecularPower
	BumpStrength
	NoiseScale
	Tiling
	kindCount
)

var kindNames = [kindCount]string{"Diffuse", "Specular", "Emissive", "SpecularPower", "BumpStrength", "NoiseScale", "Tiling"}

func (k ParamKind) String() string {
	if k < 0 || k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// IsColor reports whether k holds an RGBA color rather than a scalar.
func (k ParamKind) IsColor() bool {
	return k == Diffuse || k == Specular || k == Emissive
}

func Kinds() []ParamKind {
	out := make([]ParamKind, kindCount)
	for i := range out {
		out[i] = ParamKind(i)
	}
	return out
}

func ParseKind(s string) (ParamKind, bool) {
	for i, n := range kindNames {
		if strings.EqualFold(n, s) {
			return ParamKind(i), true
		}
	}
	return 0, false
}

// Part is the material of one model part.
type Part struct {
	Diffuse       mgl32.Vec4 `yaml:"diffuse" json:"diffuse"`
	Specular      mgl32.Vec4 `yaml:"specular" json:"specular"`
	Emissive      mgl32.Vec4 `yaml:"emissive" json:"emissive"`
	SpecularPower float32    `yaml:"specular_power" json:"specularPower"`
	BumpStrength  float32    `yaml:"bump_strength" json:"bumpStrength"`
	NoiseScale    float32    `yaml:"noise_scale" json:"noiseScale"`
	Tiling        float32    `yaml:"tiling" json:"tiling"`
}

func DefaultPart() Part {
	return Part{
		Diffuse:       mgl32.Vec4{0.8, 0.8, 0.8, 1},
		Specular:      mgl32.Vec4{0.2, 0.2, 0.2, 1},
		Emissive:      mgl32.Vec4{0, 0, 0, 1},
		SpecularPower: 16,
		BumpStrength:  1,
		NoiseScale:    1,
		Tiling:        1,
	}
}

func (p *Part) scalar(k ParamKind) *float32 {
	switch k {
	case SpecularPower:
		return &p.SpecularPower
	case BumpStrength:
		return &p.BumpStrength
	case NoiseScale:
		return &p.NoiseScale
	case Tiling:
		return &p.Tiling
	}
	return nil
}

func (p *Part) color(k ParamKind) *mgl32.Vec4 {
	switch k {
	case Diffuse:
		return &p.Diffuse
	case Specular:
		return &p.Specular
	case Emissive:
		return &p.Emissive
	}
	return nil
}

// Material is the per-part parameter set of one model.
type Material struct {
	Parts []Part `yaml:"parts" json:"parts"`
}

// New returns a material with parts default parts.
func New(parts int) *Material {
	if parts < 1 {
		parts = 1
	}
	m := &Material{Parts: make([]Part, parts)}
	for i := range m.Parts {
		m.Parts[i] = DefaultPart()
	}
	return m
}

// targets resolves part to the parts it addresses.
func (m *Material) targets(part int) ([]*Part, error) {
	if part == AllParts {
		out := make([]*Part, len(m.Parts))
		for i := range m.Parts {
			out[i] = &m.Parts[i]
		}
		return out, nil
	}
	if part < 0 || part >= len(m.Parts) {
		return nil, fmt.Errorf("%w: %d of %d", ErrBadPart, part, len(m.Parts))
	}
	return []*Part{&m.Parts[part]}, nil
}

func checkKind(k ParamKind, color bool) error {
	if k < 0 || k >= kindCount {
		return fmt.Errorf("%w: %d", ErrUnknownParam, int(k))
	}
	if k.IsColor() != color {
		return fmt.Errorf("%w: %s", ErrParamType, k)
	}
	return nil
}

// SetFloat writes a scalar parameter on part, or on every part for AllParts.
func (m *Material) SetFloat(k ParamKind, part int, v float32) error {
	if err := checkKind(k, false); err != nil {
		return err
	}
	parts, err := m.targets(part)
	if err != nil {
		return err
	}
	for _, p := range parts {
		*p.scalar(k) = v
	}
	return nil
}

// Float reads a scalar parameter. AllParts reads the first part.
func (m *Material) Float(k ParamKind, part int) (float32, error) {
	if err := checkKind(k, false); err != nil {
		return 0, err
	}
	if part == AllParts {
		part = 0
	}
	parts, err := m.targets(part)
	if err != nil {
		return 0, err
	}
	return *parts[0].scalar(k), nil
}

// SetColor writes a color parameter with channels clamped to [0, 1].
func (m *Material) SetColor(k ParamKind, part int, v mgl32.Vec4) error {
	if err := checkKind(k, true); err != nil {
		return err
	}
	parts, err := m.targets(part)
	if err != nil {
		return err
	}
	for i := range v {
		v[i] = mgl32.Clamp(v[i], 0, 1)
	}
	for _, p := range parts {
		*p.color(k) = v
	}
	return nil
}

// Color reads a color parameter. AllParts reads the first part.
func (m *Material) Color(k ParamKind, part int) (mgl32.Vec4, error) {
	if err := checkKind(k, true); err != nil {
		return mgl32.Vec4{}, err
	}
	if part == AllParts {
		part = 0
	}
	parts, err := m.targets(part)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	return *parts[0].color(k), nil
}

// Library holds the materials of every model type in a map, by model name.
type Library struct {
	byModel map[string]*Material
}

func NewLibrary() *Library {
	return &Library{byModel: make(map[string]*Material)}
}

// For returns the material of model, creating one with parts parts on first
// use.
func (l *Library) For(model string, parts int) *Material {
	if m, ok := l.byModel[model]; ok {
		return m
	}
	m := New(parts)
	l.byModel[model] = m
	return m
}

func (l *Library) Get(model string) (*Material, bool) {
	m, ok := l.byModel[model]
	return m, ok
}

func (l *Library) Put(model string, m *Material) {
	l.byModel[model] = m
}

// All returns the materials keyed by model name.
func (l *Library) All() map[string]*Material {
	return l.byModel
}
