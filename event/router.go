package event

// Handler processes specific event types.
// Consumers implement this interface to receive routed events.
type Handler interface {
	// HandleEvent processes a single event.
	// Called synchronously during the dispatch phase.
	HandleEvent(ev Event)

	// EventTypes returns the event types this handler processes.
	// The router uses this for registration; nil means all types.
	EventTypes() []Type
}

// Router dispatches events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
type Router struct {
	handlers map[Type][]Handler
	all      []Handler
	queue    *Queue
}

// NewRouter creates a router attached to the given queue.
func NewRouter(queue *Queue) *Router {
	return &Router{
		handlers: make(map[Type][]Handler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types.
func (r *Router) Register(handler Handler) {
	types := handler.EventTypes()
	if types == nil {
		r.all = append(r.all, handler)
		return
	}
	for _, t := range types {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes all pending events and routes to handlers.
// Events are processed in FIFO order.
func (r *Router) DispatchAll() {
	for _, ev := range r.queue.Consume() {
		for _, h := range r.all {
			h.HandleEvent(ev)
		}
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
	}
}

// HasHandlers returns true if any handlers are registered for the given type.
func (r *Router) HasHandlers(t Type) bool {
	return len(r.all) > 0 || len(r.handlers[t]) > 0
}
