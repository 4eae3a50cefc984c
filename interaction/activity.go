package interaction

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/physics"
)

// activityQuery narrows the broad-phase candidate set down to eligible
// interactables for one state machine. Hover and grasp each own one with
// different ignore flags; radii are re-read from the manager every tick.
type activityQuery struct {
	manager *Manager
	ignore  Capability

	// extra is an optional caller-supplied predicate (hover only).
	extra func(Interactable) bool
}

// query resolves the candidate set around point. A missing point (ok
// false, i.e. untracked source) yields the empty set. Destroyed or
// unregistered colliders appearing transiently in the index are treated as
// non-matches, never faults.
func (q *activityQuery) query(point r3.Vec, ok bool, radius float64, mask physics.Layer) map[uuid.UUID]Interactable {
	if !ok || q.manager == nil || q.manager.index == nil {
		return nil
	}

	var out map[uuid.UUID]Interactable
	for _, col := range q.manager.index.QueryNearby(point, radius, mask) {
		if col == nil || col.Body() == nil {
			continue
		}
		obj, found := q.manager.InteractableForCollider(col)
		if !found {
			continue
		}
		if obj.Capabilities().Has(q.ignore) {
			continue
		}
		if q.extra != nil && !q.extra(obj) {
			continue
		}
		if out == nil {
			out = make(map[uuid.UUID]Interactable)
		}
		out[obj.ID()] = obj
	}
	return out
}
