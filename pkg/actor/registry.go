package actor

import "github.com/jwebster45206/dialogue-engine/pkg/portrait"

// Registry tracks the actors present in a scene. At most one actor is
// active (highlighted as the current speaker) at a time.
type Registry struct {
	stage    Stage
	settings Settings
	actors   []*Actor
	active   *Actor
}

// NewRegistry creates an empty registry for a stage.
func NewRegistry(stage Stage, settings Settings) *Registry {
	return &Registry{
		stage:    stage,
		settings: settings,
	}
}

// Find returns the present actor with the exact name.
func (r *Registry) Find(name string) (*Actor, bool) {
	for _, a := range r.actors {
		if a.name == name {
			return a, true
		}
	}
	return nil, false
}

// ResolveOrCreate returns the actor for name, creating it when absent.
// Unknown names use the default portrait set; the new actor takes its
// identity from the set, so repeated unknown names resolve to one actor.
// With no portrait data at all, a placeholder set named after the character
// is used. The second return value reports whether an actor was created.
func (r *Registry) ResolveOrCreate(name string, data *portrait.Data) (*Actor, bool) {
	if a, ok := r.Find(name); ok {
		return a, false
	}

	set, _ := data.Resolve(name)
	if set == nil {
		set = &portrait.Set{CharacterName: name}
	}
	if a, ok := r.Find(set.CharacterName); ok {
		return a, false
	}

	a := New(set, r.stage, r.settings)
	r.actors = append(r.actors, a)
	return a, true
}

// SetActive makes a the only highlighted actor. No-op when a is nil or
// already active.
func (r *Registry) SetActive(a *Actor) {
	if a == nil || a == r.active {
		return
	}
	for _, other := range r.actors {
		other.Deactivate()
	}
	r.active = a
	a.Activate()
}

// Active returns the active actor, or nil.
func (r *Registry) Active() *Actor {
	return r.active
}

// Actors returns present actors in creation order.
func (r *Registry) Actors() []*Actor {
	return r.actors
}

// Len returns the number of present actors.
func (r *Registry) Len() int {
	return len(r.actors)
}

// Clear removes every actor.
func (r *Registry) Clear() {
	r.actors = nil
	r.active = nil
}

// Update advances every actor's animations.
func (r *Registry) Update() {
	for _, a := range r.actors {
		a.Update()
	}
}

// States snapshots every actor in creation order.
func (r *Registry) States() []State {
	states := make([]State, 0, len(r.actors))
	for _, a := range r.actors {
		states = append(states, a.State())
	}
	return states
}
