package dialogue

// Gate keeps an interaction from starting a dialogue while one it started
// is still running. A zero Gate is open.
type Gate struct {
	closed bool
}

// Open reports whether an interaction may start a dialogue.
func (g *Gate) Open() bool {
	return !g.closed
}

// Interact starts source on m when the gate is open. The gate closes until
// the session ends, chaining any OnEnd hook the source already has. It
// reports whether a session was started.
func (g *Gate) Interact(m *Manager, source *Source) (bool, error) {
	if g.closed {
		return false, nil
	}
	onEnd := source.OnEnd
	gated := *source
	gated.OnEnd = func() {
		g.closed = false
		if onEnd != nil {
			onEnd()
		}
	}
	g.closed = true
	if err := m.Initialize(&gated); err != nil {
		g.closed = false
		return false, err
	}
	return true, nil
}
