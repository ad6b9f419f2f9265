package networking

// Registry tracks active player connections in join order.
//
// The session automaton is the only writer, so the registry needs no
// locking: every mutation happens on the event-dispatch goroutine.
type Registry struct {
	conns []*PlayerConnection
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add tracks a freshly accepted, not yet established connection.
func (r *Registry) Add(pc *PlayerConnection) {
	r.conns = append(r.conns, pc)
}

// Remove closes and forgets the given connection.
func (r *Registry) Remove(pc *PlayerConnection) {
	for i, c := range r.conns {
		if c == pc {
			r.conns = append(r.conns[:i], r.conns[i+1:]...)
			pc.Close()
			return
		}
	}
}

// RemoveByID closes and forgets the established connection with the ID.
func (r *Registry) RemoveByID(id int) {
	if pc := r.Player(id); pc != nil {
		r.Remove(pc)
	}
}

// DisconnectAll closes and forgets every tracked connection.
func (r *Registry) DisconnectAll() {
	for _, c := range r.conns {
		c.Close()
	}
	r.conns = nil
}

// Established returns the established connections in join order.
func (r *Registry) Established() []*PlayerConnection {
	out := make([]*PlayerConnection, 0, len(r.conns))
	for _, c := range r.conns {
		if c.Established() {
			out = append(out, c)
		}
	}
	return out
}

// NumEstablished returns the number of established connections.
func (r *Registry) NumEstablished() int {
	n := 0
	for _, c := range r.conns {
		if c.Established() {
			n++
		}
	}
	return n
}

// Empty reports whether no connections remain at all.
func (r *Registry) Empty() bool {
	return len(r.conns) == 0
}

// Player returns the established connection with the given player ID.
func (r *Registry) Player(id int) *PlayerConnection {
	for _, c := range r.conns {
		if c.Established() && c.ID() == id {
			return c
		}
	}
	return nil
}

// GreatestPlayerID returns the highest player ID handed out so far, or
// InvalidPlayerID when nobody is established. IDs are assigned as
// GreatestPlayerID()+1 and are never reused within a session.
func (r *Registry) GreatestPlayerID() int {
	greatest := InvalidPlayerID
	for _, c := range r.conns {
		if c.Established() && c.ID() > greatest {
			greatest = c.ID()
		}
	}
	return greatest
}

// SendTo ships a message to the established connection with the ID.
func (r *Registry) SendTo(id int, msg Message) {
	if pc := r.Player(id); pc != nil {
		pc.SendMessage(msg)
	}
}

// Broadcast ships a message to every established connection except the
// listed player IDs.
func (r *Registry) Broadcast(msg Message, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, id := range except {
		skip[id] = true
	}
	for _, c := range r.Established() {
		if skip[c.ID()] {
			continue
		}
		c.SendMessage(msg)
	}
}
