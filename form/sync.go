// Package form keeps editor widgets and the selected model object in step
// without feedback loops.
//
// A Form cycles between three states. A selection change runs Refresh, which
// writes every bound field from the model while RefreshingFromModel; change
// events raised by those writes are swallowed. A user edit on one control of a
// Field runs while PropagatingToModel: the value is normalized (clamped),
// written to the model and mirrored into the field's other controls. Widgets
// that report programmatic changes later (deferred event queues) are handled
// with a one-shot expected-echo per control.
package form

// State is the form's sync phase.
type State int

const (
	Idle State = iota
	RefreshingFromModel
	PropagatingToModel
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case RefreshingFromModel:
		return "RefreshingFromModel"
	case PropagatingToModel:
		return "PropagatingToModel"
	default:
		return "Unknown"
	}
}

type refresher interface {
	refresh()
}

// Form groups the fields bound to one selected object.
type Form struct {
	state    State
	fields   []refresher
	selected func() bool
}

// New creates a form. selected reports whether there is an object to sync
// with; nil means always.
func New(selected func() bool) *Form {
	return &Form{selected: selected}
}

// State returns the current sync phase.
func (f *Form) State() State {
	return f.state
}

// HasSelection reports whether a bound object exists.
func (f *Form) HasSelection() bool {
	return f.selected == nil || f.selected()
}

// Refresh writes every field from the model. It does nothing without a
// selection or when called from inside another sync pass.
func (f *Form) Refresh() {
	if f.state != Idle || !f.HasSelection() {
		return
	}
	f.state = RefreshingFromModel
	defer func() { f.state = Idle }()
	for _, fl := range f.fields {
		fl.refresh()
	}
}

// Push runs fn as a user-originated model write. It is skipped while another
// sync pass is running or when nothing is selected, and reports whether fn ran.
func (f *Form) Push(fn func() error) (bool, error) {
	if f.state != Idle || !f.HasSelection() {
		return false, nil
	}
	f.state = PropagatingToModel
	defer func() { f.state = Idle }()
	return true, fn()
}

func (f *Form) add(r refresher) {
	f.fields = append(f.fields, r)
}
