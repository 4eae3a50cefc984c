package interaction

import (
	"math"

	"github.com/google/uuid"

	"github.com/tangible-xr/tangible/vmath"
)

// hoverState carries hover and primary-hover state across ticks.
type hoverState struct {
	hovered     map[uuid.UUID]Interactable
	hoveredPrev map[uuid.UUID]Interactable

	primary         Interactable
	primaryDistance float64
	primaryPointIdx int

	primaryPrev         Interactable
	primaryPrevDistance float64
	primaryPrevPointIdx int

	// Closest object and distance per hover point, rebuilt each tick.
	perPointObj  []Interactable
	perPointDist []float64

	// locked freezes resolution; bookkeeping still runs every tick.
	locked bool

	// Transition buffers for the polled API, valid for one tick.
	began, ended, stayed       []Interactable
	primaryBegan, primaryEnded Interactable
	primaryStayed              Interactable
}

func newHoverState() hoverState {
	return hoverState{
		hovered:         make(map[uuid.UUID]Interactable),
		hoveredPrev:     make(map[uuid.UUID]Interactable),
		primaryDistance: math.Inf(1),
		primaryPointIdx: -1,
	}
}

// fixedUpdateHover runs hover resolution and transition bookkeeping.
// Resolution is skipped while locked or with hover disabled; bookkeeping
// runs unconditionally so removed objects still surface end transitions.
func (c *Controller) fixedUpdateHover() {
	h := &c.hover

	switch {
	case !c.hoverEnabled:
		// Disabling hover ends everything on the next tick, even while
		// locked.
		h.hovered = make(map[uuid.UUID]Interactable)
		h.primary = nil
		h.primaryDistance = math.Inf(1)
		h.primaryPointIdx = -1
		c.variant.ClearWarp()
	case !h.locked:
		c.resolveHover()
	}

	c.hoverBookkeeping()
}

func (c *Controller) resolveHover() {
	h := &c.hover
	t := &c.manager.tuning

	origin, tracked := c.variant.QueryOrigin()
	candidates := c.hoverQuery.query(origin, tracked, t.HoverActivationRadius, c.manager.interactionMask)

	// Clear current-tick state before resolution.
	h.hovered = make(map[uuid.UUID]Interactable, len(candidates))
	h.primary = nil
	h.primaryDistance = math.Inf(1)
	h.primaryPointIdx = -1

	points := c.variant.PrimaryHoverPoints()
	if len(h.perPointObj) != len(points) {
		h.perPointObj = make([]Interactable, len(points))
		h.perPointDist = make([]float64, len(points))
	}
	for i := range points {
		h.perPointObj[i] = nil
		h.perPointDist[i] = math.Inf(1)
	}

	if !tracked {
		c.variant.ClearWarp()
		return
	}

	maxNewDistance := c.hysteresisThreshold()

	for id, obj := range candidates {
		h.hovered[id] = obj

		if obj.Capabilities().Has(IgnorePrimaryHover) {
			continue
		}

		warp := obj.Warp()
		for i, pt := range points {
			if !pt.Enabled() {
				continue
			}
			p := pt.Position()
			if warp != nil {
				p = warp.Unwarp(p)
			}
			d := obj.HoverDistance(p)

			if d < h.perPointDist[i] {
				h.perPointDist[i] = d
				h.perPointObj[i] = obj
			}
			if d < h.primaryDistance && (sameObject(obj, h.primaryPrev) || d < maxNewDistance) {
				h.primary = obj
				h.primaryDistance = d
				h.primaryPointIdx = i
			}
		}
	}

	// An object hovered in a warped space pulls the controller's physical
	// colliders into that space around the winning point. Losing the
	// warped primary drops the displacement.
	if h.primary != nil && h.primaryPointIdx >= 0 && h.primary.Warp() != nil {
		c.variant.UnwarpColliders(points[h.primaryPointIdx].Position(), h.primary.Warp())
	} else {
		c.variant.ClearWarp()
	}
}

// hysteresisThreshold computes the maximum distance at which a challenger
// may take primary hover from the incumbent. With no incumbent any
// distance qualifies; a very close incumbent locks entirely.
func (c *Controller) hysteresisThreshold() float64 {
	h := &c.hover
	t := &c.manager.tuning

	if h.primaryPrev == nil || h.primaryPrevPointIdx < 0 {
		return math.Inf(1)
	}
	points := c.variant.PrimaryHoverPoints()
	if h.primaryPrevPointIdx >= len(points) {
		return math.Inf(1)
	}

	p := points[h.primaryPrevPointIdx].Position()
	if warp := h.primaryPrev.Warp(); warp != nil {
		p = warp.Unwarp(p)
	}
	dPrev := h.primaryPrev.HoverDistance(p)

	if dPrev < t.PrimaryHoverLockDistance {
		return 0
	}
	scale := vmath.MapRange(dPrev,
		t.HysteresisDomainMin, t.HysteresisDomainMax,
		t.HysteresisRangeMin, t.HysteresisRangeMax)
	return scale * dPrev
}

// hoverBookkeeping diffs the current hovered set and primary hover against
// the previous tick and refreshes the polled transition buffers.
func (c *Controller) hoverBookkeeping() {
	h := &c.hover

	h.began = h.began[:0]
	h.ended = h.ended[:0]
	h.stayed = h.stayed[:0]

	for id, obj := range h.hovered {
		if _, was := h.hoveredPrev[id]; was {
			h.stayed = append(h.stayed, obj)
		} else {
			h.began = append(h.began, obj)
		}
	}
	for id, obj := range h.hoveredPrev {
		if _, still := h.hovered[id]; !still {
			h.ended = append(h.ended, obj)
		}
	}

	h.primaryBegan = nil
	h.primaryEnded = nil
	h.primaryStayed = nil
	switch {
	case sameObject(h.primary, h.primaryPrev):
		h.primaryStayed = h.primary
	default:
		h.primaryEnded = h.primaryPrev
		h.primaryBegan = h.primary
	}

	// Snapshot for the next tick.
	h.hoveredPrev = make(map[uuid.UUID]Interactable, len(h.hovered))
	for id, obj := range h.hovered {
		h.hoveredPrev[id] = obj
	}
	h.primaryPrev = h.primary
	h.primaryPrevDistance = h.primaryDistance
	h.primaryPrevPointIdx = h.primaryPointIdx
}

// sameObject compares interactables by identity, tolerating nils.
func sameObject(a, b Interactable) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}
