package arbor

// Event is passed to node listeners. Which fields are set depends on Type.
type Event struct {
	Type   EventType
	Target *Node

	// Frame is set for EventEnterFrame.
	Frame *FrameContext

	// Pointer fields are set for the point* events.
	Pointer    *Pointer
	Over       bool
	Reconciler *PointerReconciler

	// Data carries a payload for application-defined events.
	Data any
}

// Listener handles a node event.
type Listener func(e *Event)

type listenerEntry struct {
	id   uint32
	fn   Listener
	once bool
}

// eventRegistry holds a node's listeners keyed by event name. The map is
// allocated on first registration so nodes without listeners stay small.
type eventRegistry struct {
	listeners map[EventType][]listenerEntry
	nextID    uint32
}

// ListenerHandle allows removing a registered listener.
type ListenerHandle struct {
	id    uint32
	node  *Node
	event EventType
}

// Remove unregisters the listener so it no longer fires. Removing during
// dispatch is safe; the in-flight dispatch still sees its snapshot.
func (h ListenerHandle) Remove() {
	if h.node == nil {
		return
	}
	h.node.events.remove(h.event, h.id)
}

func (r *eventRegistry) add(t EventType, fn Listener, once bool) uint32 {
	if r.listeners == nil {
		r.listeners = make(map[EventType][]listenerEntry)
	}
	r.nextID++
	r.listeners[t] = append(r.listeners[t], listenerEntry{id: r.nextID, fn: fn, once: once})
	return r.nextID
}

func (r *eventRegistry) remove(t EventType, id uint32) {
	s := r.listeners[t]
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = listenerEntry{}
			r.listeners[t] = s[:len(s)-1]
			return
		}
	}
}

// On registers fn for events of type t.
func (n *Node) On(t EventType, fn Listener) ListenerHandle {
	id := n.events.add(t, fn, false)
	return ListenerHandle{id: id, node: n, event: t}
}

// Once registers fn for the next event of type t only.
func (n *Node) Once(t EventType, fn Listener) ListenerHandle {
	id := n.events.add(t, fn, true)
	return ListenerHandle{id: id, node: n, event: t}
}

// Has reports whether at least one listener is registered for t.
func (n *Node) Has(t EventType) bool {
	return len(n.events.listeners[t]) > 0
}

// ClearListeners removes every listener for t.
func (n *Node) ClearListeners(t EventType) {
	delete(n.events.listeners, t)
}

// Fire dispatches e to this node's listeners for e.Type. e.Target is set to
// n. Listeners are called in registration order over a snapshot, so
// listeners may register or remove listeners while being dispatched.
func (n *Node) Fire(e *Event) {
	e.Target = n
	ls := n.events.listeners[e.Type]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]listenerEntry, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		if l.once {
			n.events.remove(e.Type, l.id)
		}
		l.fn(e)
	}
}

// Flare fires a bare event of type t.
func (n *Node) Flare(t EventType) {
	n.Fire(&Event{Type: t})
}
