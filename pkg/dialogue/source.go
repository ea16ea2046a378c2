package dialogue

// EventBinding is a host effect a script can trigger with `event:<index>`.
type EventBinding struct {
	Name          string `json:"name" yaml:"name"`
	FireOnLineEnd bool   `json:"fire_on_line_end" yaml:"fire_on_line_end"`
	// Effect runs when the binding fires. A nil effect still counts as fired.
	Effect func() `json:"-" yaml:"-"`
}

// Source is one dialogue that can be played: a compiled script plus the
// event bindings and lifecycle hooks supplied by the host.
type Source struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name,omitempty" yaml:"name,omitempty"`
	Script string         `json:"script" yaml:"script"` // script reference, resolved by the loader
	Events []EventBinding `json:"events,omitempty" yaml:"events,omitempty"`

	// Compiled is the script blob handed to the interpreter factory.
	Compiled []byte `json:"-" yaml:"-"`

	OnStart func() `json:"-" yaml:"-"`
	OnEnd   func() `json:"-" yaml:"-"`
}

// Bind attaches an effect to the first binding with the given name. It
// reports whether a binding was found.
func (s *Source) Bind(name string, effect func()) bool {
	for i := range s.Events {
		if s.Events[i].Name == name {
			s.Events[i].Effect = effect
			return true
		}
	}
	return false
}
