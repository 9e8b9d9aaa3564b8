package dom

// Event is dispatched to listeners registered on a node.
type Event struct {
	// Type is the event name without any prefix (e.g. "click").
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listener is running.
	CurrentTarget *Node

	// Detail carries an arbitrary payload.
	Detail any

	stopped bool
}

// StopPropagation prevents the event from bubbling to ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Handler is an event listener.
type Handler func(*Event)

// AddEventListener registers handler for events of the given type.
func (n *Node) AddEventListener(eventType string, handler Handler) {
	if handler == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Handler)
	}
	n.listeners[eventType] = append(n.listeners[eventType], handler)
}

// ListenerCount returns the number of listeners for the event type.
func (n *Node) ListenerCount(eventType string) int {
	return len(n.listeners[eventType])
}

// Dispatch delivers an event to n and then bubbles it through its ancestors.
func (n *Node) Dispatch(eventType string, detail any) *Event {
	ev := &Event{Type: eventType, Target: n, Detail: detail}
	for cur := n; cur != nil && !ev.stopped; cur = cur.Parent {
		handlers := cur.listeners[eventType]
		if len(handlers) == 0 {
			continue
		}
		ev.CurrentTarget = cur
		for _, h := range append([]Handler(nil), handlers...) {
			h(ev)
		}
	}
	return ev
}
