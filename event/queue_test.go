package event

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangible-xr/tangible/parameter"
)

func TestQueuePushConsumeFIFO(t *testing.T) {
	q := NewQueue()

	for i := 0; i < 5; i++ {
		q.Push(Event{Type: TypeHoverBegin, Tick: uint64(i)})
	}
	assert.Equal(t, 5, q.Len())

	out := q.Consume()
	require.Len(t, out, 5)
	for i, ev := range out {
		assert.Equal(t, uint64(i), ev.Tick)
	}
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Consume())
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewQueue()

	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(Event{Type: TypeContactBegin, Tick: uint64(i)})
	}

	out := q.Consume()
	require.Len(t, out, parameter.EventQueueSize)
	assert.Equal(t, uint64(10), out[0].Tick)
	assert.Equal(t, uint64(total-1), out[len(out)-1].Tick)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := uuid.New()
			for i := 0; i < perProducer; i++ {
				q.Push(Event{Type: TypeGraspBegin, Controller: id})
			}
		}()
	}
	wg.Wait()

	out := q.Consume()
	assert.Len(t, out, producers*perProducer)
}

func TestEventTypeStrings(t *testing.T) {
	assert.Equal(t, "hover_begin", TypeHoverBegin.String())
	assert.Equal(t, "grasp_end", TypeGraspEnd.String())
	assert.Equal(t, "suspension_begin", TypeSuspensionBegin.String())
	assert.Equal(t, "unknown", Type(9999).String())
}
