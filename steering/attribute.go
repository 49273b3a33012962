package steering

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrUnknownKind      = errors.New("steering: unknown behavior kind")
	ErrUnknownAttribute = errors.New("steering: unknown attribute")
	ErrAttributeType    = errors.New("steering: attribute type mismatch")
)

// Property names shared by the behavior variants.
const (
	PropWeight           = "Weight"
	PropTarget           = "Target"
	PropPanicDistance    = "PanicDistance"
	PropDeceleration     = "Deceleration"
	PropThreatRange      = "ThreatRange"
	PropOffset           = "Offset"
	PropWanderRadius     = "WanderRadius"
	PropWanderDistance   = "WanderDistance"
	PropWanderJitter     = "WanderJitter"
	PropViewDistance     = "ViewDistance"
	PropDetectionLength  = "DetectionLength"
	PropHideDistance     = "HideDistance"
	PropWaypointSeekDist = "WaypointSeekDistance"
	PropLoop             = "Loop"
	PropTurnSpeed        = "TurnSpeed"
)

// Sub-field names for vector properties.
const (
	FieldX = "X"
	FieldY = "Y"
	FieldZ = "Z"
)

// Path addresses a property of a behavior and, for vector properties, an
// optional component.
type Path struct {
	Property string
	Field    string
}

// At returns a path to a whole property.
func At(property string) Path {
	return Path{Property: property}
}

// Sub returns a path to one component of a vector property.
func (p Path) Sub(field string) Path {
	return Path{Property: p.Property, Field: field}
}

func (p Path) String() string {
	if p.Field == "" {
		return p.Property
	}
	return p.Property + "." + p.Field
}

type attrType int

const (
	attrFloat attrType = iota
	attrInt
	attrBool
	attrVec3
)

// attribute binds a property name to a typed field of a concrete behavior.
// Exactly one pointer is set.
type attribute struct {
	name string
	typ  attrType
	f    *float32
	i    *int
	b    *bool
	v    *mgl32.Vec3
}

func floatAttr(name string, p *float32) attribute {
	return attribute{name: name, typ: attrFloat, f: p}
}

func intAttr(name string, p *int) attribute {
	return attribute{name: name, typ: attrInt, i: p}
}

func boolAttr(name string, p *bool) attribute {
	return attribute{name: name, typ: attrBool, b: p}
}

func vecAttr(name string, p *mgl32.Vec3) attribute {
	return attribute{name: name, typ: attrVec3, v: p}
}

func lookup(attrs []attribute, property string) (attribute, bool) {
	for _, a := range attrs {
		if a.name == property {
			return a, true
		}
	}
	return attribute{}, false
}

func setAttribute(attrs []attribute, path Path, value any) error {
	a, ok := lookup(attrs, path.Property)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, path)
	}
	if path.Field != "" {
		if a.typ != attrVec3 {
			return fmt.Errorf("%w: %s has no field %q", ErrUnknownAttribute, path.Property, path.Field)
		}
		idx, ok := fieldIndex(path.Field)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAttribute, path)
		}
		f, ok := toFloat32(value)
		if !ok {
			return fmt.Errorf("%w: %s wants a number, got %T", ErrAttributeType, path, value)
		}
		a.v[idx] = f
		return nil
	}

	switch a.typ {
	case attrFloat:
		f, ok := toFloat32(value)
		if !ok {
			return fmt.Errorf("%w: %s wants a number, got %T", ErrAttributeType, path, value)
		}
		*a.f = f
	case attrInt:
		n, ok := toInt(value)
		if !ok {
			return fmt.Errorf("%w: %s wants an integer, got %T", ErrAttributeType, path, value)
		}
		*a.i = n
	case attrBool:
		bv, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s wants a bool, got %T", ErrAttributeType, path, value)
		}
		*a.b = bv
	case attrVec3:
		vv, ok := value.(mgl32.Vec3)
		if !ok {
			return fmt.Errorf("%w: %s wants a vector, got %T", ErrAttributeType, path, value)
		}
		*a.v = vv
	}
	return nil
}

func getAttribute(attrs []attribute, property string) (any, bool) {
	a, ok := lookup(attrs, property)
	if !ok {
		return nil, false
	}
	switch a.typ {
	case attrFloat:
		return *a.f, true
	case attrInt:
		return *a.i, true
	case attrBool:
		return *a.b, true
	case attrVec3:
		return *a.v, true
	}
	return nil, false
}

func fieldIndex(field string) (int, bool) {
	switch field {
	case FieldX:
		return 0, true
	case FieldY:
		return 1, true
	case FieldZ:
		return 2, true
	}
	return 0, false
}

func toFloat32(v any) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(math.Round(n)), true
	case float32:
		return int(math.Round(float64(n))), true
	}
	return 0, false
}
