package form

// Control is one widget showing a field's value.
type Control[T any] interface {
	Set(v T)
}

// ControlFunc adapts a plain setter to Control.
type ControlFunc[T any] func(v T)

func (fn ControlFunc[T]) Set(v T) { fn(v) }

// Field binds one model value to any number of linked controls (a trackbar
// and a spinner, say).
type Field[T comparable] struct {
	form      *Form
	get       func() (T, bool)
	set       func(T) error
	normalize func(T) T

	controls []Control[T]
	quiet    []bool
	echo     []*T
	value    T
}

// Bind registers a field on f. get reports false when there is no value to
// show; set writes an edit back to the model.
func Bind[T comparable](f *Form, get func() (T, bool), set func(T) error) *Field[T] {
	fl := &Field[T]{form: f, get: get, set: set}
	f.add(fl)
	return fl
}

// Normalize installs a function applied to every user edit before it reaches
// the model, typically a clamp.
func (fl *Field[T]) Normalize(fn func(T) T) *Field[T] {
	fl.normalize = fn
	return fl
}

// Attach adds a control whose Set raises a change event, now or later, and
// returns its index for Edited.
func (fl *Field[T]) Attach(c Control[T]) int {
	return fl.attach(c, false)
}

// AttachQuiet adds a control that only reports user input, such as a text
// box that fires on submit. No echo is expected from its Set.
func (fl *Field[T]) AttachQuiet(c Control[T]) int {
	return fl.attach(c, true)
}

func (fl *Field[T]) attach(c Control[T], quiet bool) int {
	fl.controls = append(fl.controls, c)
	fl.quiet = append(fl.quiet, quiet)
	fl.echo = append(fl.echo, nil)
	return len(fl.controls) - 1
}

// Value is the last value synced in either direction.
func (fl *Field[T]) Value() T {
	return fl.value
}

// Edited is called from control i's change handler with the value it now
// shows.
func (fl *Field[T]) Edited(i int, v T) error {
	if i >= 0 && i < len(fl.echo) && fl.echo[i] != nil {
		want := *fl.echo[i]
		fl.echo[i] = nil
		if want == v {
			return nil
		}
	}
	if fl.form.state != Idle || fl.set == nil {
		return nil
	}
	if fl.get != nil {
		if _, ok := fl.get(); !ok {
			return nil
		}
	}

	in := v
	if fl.normalize != nil {
		v = fl.normalize(v)
	}
	_, err := fl.form.Push(func() error {
		if err := fl.set(v); err != nil {
			return err
		}
		fl.value = v
		for j := range fl.controls {
			if j == i && in == v {
				continue
			}
			fl.show(j, v)
		}
		return nil
	})
	return err
}

func (fl *Field[T]) refresh() {
	if fl.get == nil {
		return
	}
	v, ok := fl.get()
	if !ok {
		return
	}
	fl.value = v
	for j := range fl.controls {
		fl.show(j, v)
	}
}

func (fl *Field[T]) show(j int, v T) {
	if !fl.quiet[j] {
		echo := v
		fl.echo[j] = &echo
	}
	fl.controls[j].Set(v)
}
