package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureHandler struct {
	types []Type
	seen  []Event
}

func (h *captureHandler) HandleEvent(ev Event) { h.seen = append(h.seen, ev) }
func (h *captureHandler) EventTypes() []Type   { return h.types }

func TestRouterTypedDispatch(t *testing.T) {
	q := NewQueue()
	r := NewRouter(q)

	grasp := &captureHandler{types: []Type{TypeGraspBegin}}
	r.Register(grasp)

	q.Push(Event{Type: TypeHoverBegin})
	q.Push(Event{Type: TypeGraspBegin})
	r.DispatchAll()

	require.Len(t, grasp.seen, 1)
	assert.Equal(t, TypeGraspBegin, grasp.seen[0].Type)
}

func TestRouterAllHandlerSeesEverything(t *testing.T) {
	q := NewQueue()
	r := NewRouter(q)

	all := &captureHandler{}
	r.Register(all)

	q.Push(Event{Type: TypeHoverBegin})
	q.Push(Event{Type: TypeContactEnd})
	q.Push(Event{Type: TypeSuspensionBegin})
	r.DispatchAll()

	assert.Len(t, all.seen, 3)
}

// All-handlers run before type handlers, preserving FIFO within each.
func TestRouterDispatchOrder(t *testing.T) {
	q := NewQueue()
	r := NewRouter(q)

	var order []string
	r.Register(&funcHandler{fn: func(ev Event) { order = append(order, "all") }})
	r.Register(&funcHandler{types: []Type{TypeHoverBegin}, fn: func(ev Event) { order = append(order, "typed") }})

	q.Push(Event{Type: TypeHoverBegin})
	r.DispatchAll()

	assert.Equal(t, []string{"all", "typed"}, order)
}

func TestRouterHasHandlers(t *testing.T) {
	q := NewQueue()
	r := NewRouter(q)
	assert.False(t, r.HasHandlers(TypeGraspBegin))

	r.Register(&captureHandler{types: []Type{TypeGraspBegin}})
	assert.True(t, r.HasHandlers(TypeGraspBegin))
	assert.False(t, r.HasHandlers(TypeHoverBegin))

	r.Register(&captureHandler{})
	assert.True(t, r.HasHandlers(TypeHoverBegin))
}

type funcHandler struct {
	types []Type
	fn    func(Event)
}

func (h *funcHandler) HandleEvent(ev Event) { h.fn(ev) }
func (h *funcHandler) EventTypes() []Type   { return h.types }
