// Package console runs tengo scripts against the editor's selection, for
// batch edits that are tedious in the forms.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/milk9111/worldeditor/scene"
	"github.com/milk9111/worldeditor/steering"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

var ErrBadArgument = errors.New("console: bad argument")

// Instances is the instance selection the console's set_all works on.
type Instances interface {
	SelectedInstance() (*scene.Instance, string, bool)
	SetAll(attr scene.InstanceAttr, value float32) error
}

// ScriptSource finds named scripts.
type ScriptSource interface {
	LoadScript(name string) ([]byte, error)
}

// Console evaluates scripts. Each run sees these globals:
//
//	activate(kind, on)               toggle a behavior on the selected item
//	set_attr(kind, prop, field, v)   write a behavior attribute; field may be ""
//	get_attr(kind, prop)             read a behavior attribute or undefined
//	set_all(attr, v)                 Set All for Height, Angle or Scale
//	get_instance(attr)               read the selected instance or undefined
//	kinds()                          list behavior kind names
//	print(...)                       append a line to the output
type Console struct {
	Timeout time.Duration

	binder    *steering.Binder
	instances Instances
	scripts   ScriptSource
	log       *slog.Logger
	output    []string
}

func New(binder *steering.Binder, instances Instances, scripts ScriptSource, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{
		Timeout:   DefaultTimeout,
		binder:    binder,
		instances: instances,
		scripts:   scripts,
		log:       log,
	}
}

// Output returns the lines printed so far.
func (c *Console) Output() []string {
	return c.output
}

func (c *Console) ClearOutput() {
	c.output = nil
}

// Run compiles and runs src.
func (c *Console) Run(ctx context.Context, src string) error {
	script := tengo.NewScript([]byte(src))
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for name, fn := range c.globals() {
		if err := script.Add(name, fn); err != nil {
			return err
		}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := script.RunContext(ctx); err != nil {
		c.log.Warn("console: script failed", "err", err)
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

// RunScript runs a named script from the script source.
func (c *Console) RunScript(ctx context.Context, name string) error {
	if c.scripts == nil {
		return fmt.Errorf("console: no script source for %q", name)
	}
	src, err := c.scripts.LoadScript(name)
	if err != nil {
		return fmt.Errorf("console: load %s: %w", name, err)
	}
	return c.Run(ctx, string(src))
}

func (c *Console) globals() map[string]*tengo.UserFunction {
	return map[string]*tengo.UserFunction{
		"activate":     {Name: "activate", Value: c.activate},
		"set_attr":     {Name: "set_attr", Value: c.setAttr},
		"get_attr":     {Name: "get_attr", Value: c.getAttr},
		"set_all":      {Name: "set_all", Value: c.setAll},
		"get_instance": {Name: "get_instance", Value: c.getInstance},
		"kinds":        {Name: "kinds", Value: c.kinds},
		"print":        {Name: "print", Value: c.print},
	}
}

func (c *Console) activate(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 2 {
		return nil, tengo.ErrWrongNumArguments
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return nil, err
	}
	if err := c.binder.SetBehaviorActive(kind, !args[1].IsFalsy()); err != nil {
		return nil, err
	}
	return tengo.TrueValue, nil
}

func (c *Console) setAttr(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 4 {
		return nil, tengo.ErrWrongNumArguments
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return nil, err
	}
	prop := objectAsString(args[1])
	path := steering.At(prop)
	if field := objectAsString(args[2]); field != "" {
		path = path.Sub(field)
	}
	value := objectToAny(args[3])
	if value == nil {
		return nil, fmt.Errorf("%w: value for %s.%s", ErrBadArgument, kind, path)
	}
	if err := c.binder.SetAttribute(kind, path, value); err != nil {
		return nil, err
	}
	return tengo.TrueValue, nil
}

func (c *Console) getAttr(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 2 {
		return nil, tengo.ErrWrongNumArguments
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return nil, err
	}
	v, ok := c.binder.GetAttribute(kind, objectAsString(args[1]))
	if !ok {
		return tengo.UndefinedValue, nil
	}
	switch x := v.(type) {
	case float32:
		return &tengo.Float{Value: float64(x)}, nil
	case int:
		return &tengo.Int{Value: int64(x)}, nil
	case bool:
		if x {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	case mgl32.Vec3:
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: float64(x[0])},
			&tengo.Float{Value: float64(x[1])},
			&tengo.Float{Value: float64(x[2])},
		}}, nil
	}
	return tengo.UndefinedValue, nil
}

func (c *Console) setAll(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 2 {
		return nil, tengo.ErrWrongNumArguments
	}
	if c.instances == nil {
		return tengo.FalseValue, nil
	}
	attr, ok := scene.ParseInstanceAttr(objectAsString(args[0]))
	if !ok {
		return nil, fmt.Errorf("%w: attribute %s", ErrBadArgument, args[0])
	}
	v, ok := tengo.ToFloat64(args[1])
	if !ok {
		return nil, fmt.Errorf("%w: value %s", ErrBadArgument, args[1])
	}
	if err := c.instances.SetAll(attr, float32(v)); err != nil {
		return nil, err
	}
	return tengo.TrueValue, nil
}

func (c *Console) getInstance(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	attr, ok := scene.ParseInstanceAttr(objectAsString(args[0]))
	if !ok {
		return nil, fmt.Errorf("%w: attribute %s", ErrBadArgument, args[0])
	}
	if c.instances == nil {
		return tengo.UndefinedValue, nil
	}
	in, _, ok := c.instances.SelectedInstance()
	if !ok {
		return tengo.UndefinedValue, nil
	}
	return &tengo.Float{Value: float64(in.Get(attr))}, nil
}

func (c *Console) kinds(args ...tengo.Object) (tengo.Object, error) {
	arr := &tengo.Array{}
	for _, k := range steering.Kinds() {
		arr.Value = append(arr.Value, &tengo.String{Value: k.String()})
	}
	return arr, nil
}

func (c *Console) print(args ...tengo.Object) (tengo.Object, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = objectAsString(a)
	}
	c.output = append(c.output, strings.Join(parts, " "))
	return tengo.UndefinedValue, nil
}

func kindArg(obj tengo.Object) (steering.Kind, error) {
	name := objectAsString(obj)
	kind, ok := steering.ParseKind(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", steering.ErrUnknownKind, name)
	}
	return kind, nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

// objectToAny converts a script value to what the steering attributes
// accept. Arrays of three numbers become vectors.
func objectToAny(obj tengo.Object) any {
	switch v := obj.(type) {
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		if len(v.Value) != 3 {
			return nil
		}
		var out mgl32.Vec3
		for i, e := range v.Value {
			f, ok := tengo.ToFloat64(e)
			if !ok {
				return nil
			}
			out[i] = float32(f)
		}
		return out
	}
	return nil
}
