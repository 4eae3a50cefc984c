package interaction

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/internal/log"
)

// graspState is the single-slot grasp machine: empty or holding one
// object. Transition buffers are per-tick diffs against the previous
// tick, like hover and contact, so a synchronous release between ticks
// surfaces on the following tick.
type graspState struct {
	held     Interactable
	heldPrev Interactable

	// Previous-tick suspended object (nil when not suspended).
	susPrev Interactable

	// Transition buffers for the polled API, valid for one tick.
	began, ended Interactable
	suspBegan    Interactable
	suspEnded    Interactable
}

// fixedUpdateGrasp runs the release checks, the begin check, and the
// suspension reconciliation, then diffs against the previous tick.
func (c *Controller) fixedUpdateGrasp() {
	g := &c.grasp

	if !c.graspEnabled {
		if g.held != nil {
			c.releaseHeld(false)
		}
		c.graspBookkeeping()
		return
	}

	tracked := c.variant.Tracked()

	if g.held != nil {
		switch {
		case g.held.Capabilities().Has(IgnoreGrasp):
			// Forced release: the held object opted out mid-grasp.
			c.releaseHeld(true)
		case !c.manager.isRegistered(g.held.ID()):
			// Stale reference: the object vanished under us.
			c.releaseHeld(false)
		case tracked && !c.variant.CheckGraspHold(g.held):
			c.releaseHeld(false)
		}
	}

	if g.held == nil && tracked {
		c.checkGraspBegin()
	}

	c.updateSuspension(tracked)
	c.graspBookkeeping()
}

func (c *Controller) checkGraspBegin() {
	g := &c.grasp

	origin, ok := c.variant.QueryOrigin()
	candidateSet := c.graspQuery.query(origin, ok, c.manager.tuning.GraspActivationRadius, c.manager.interactionMask)
	if len(candidateSet) == 0 {
		return
	}

	candidates := make([]Interactable, 0, len(candidateSet))
	for _, obj := range candidateSet {
		candidates = append(candidates, obj)
	}

	obj, accepted := c.variant.CheckGraspBegin(candidates)
	if !accepted || obj == nil || obj.Capabilities().Has(IgnoreGrasp) {
		return
	}

	g.held = obj
	if n, ok := obj.(GraspNotifiee); ok {
		n.OnGraspBegin(c)
	}
	log.Debug("grasp begin", "controller", c.id, "object", obj.ID())
}

// releaseHeld empties the slot. forced releases fire the pre-release hook
// first; every release re-enters soft contact so the object does not pop
// away from the proxy bodies.
func (c *Controller) releaseHeld(forced bool) {
	g := &c.grasp
	held := g.held
	if held == nil {
		return
	}

	if n, ok := held.(GraspNotifiee); ok && forced {
		n.OnForcedRelease(c)
	}

	g.held = nil

	if sus, ok := held.(Suspendable); ok && sus.Suspended() {
		sus.SetSuspended(false)
	}

	c.enableSoftContact()

	if n, ok := held.(GraspNotifiee); ok {
		n.OnGraspEnd(c)
	}
	log.Debug("grasp end", "controller", c.id, "object", held.ID(), "forced", forced)
}

// updateSuspension reconciles the held object's suspended flag against
// {holding, tracked}. The object stores the flag; transitions fall out of
// the bookkeeping diff.
func (c *Controller) updateSuspension(tracked bool) {
	g := &c.grasp
	if g.held == nil {
		return
	}
	sus, ok := g.held.(Suspendable)
	if !ok {
		return
	}

	switch {
	case !tracked && !sus.Suspended():
		sus.SetSuspended(true)
	case tracked && sus.Suspended():
		sus.SetSuspended(false)
	}
}

// graspBookkeeping diffs slot and suspension state against the previous
// tick and refreshes the polled transition buffers.
func (c *Controller) graspBookkeeping() {
	g := &c.grasp

	g.began = nil
	g.ended = nil
	if !sameObject(g.held, g.heldPrev) {
		g.ended = g.heldPrev
		g.began = g.held
	}

	var curSus Interactable
	if g.held != nil {
		if sus, ok := g.held.(Suspendable); ok && sus.Suspended() {
			curSus = g.held
		}
	}
	g.suspBegan = nil
	g.suspEnded = nil
	switch {
	case curSus != nil && g.susPrev == nil:
		g.suspBegan = curSus
	case curSus == nil && g.susPrev != nil:
		g.suspEnded = g.susPrev
	}

	g.heldPrev = g.held
	g.susPrev = curSus
}

// ReleaseGrasp synchronously force-releases whatever is held. The slot is
// guaranteed empty on return; the same forced-release hook and
// end-of-grasp notification fire as for an in-tick forced release. The
// end transition surfaces on the next tick.
func (c *Controller) ReleaseGrasp() {
	c.releaseHeld(true)
}

// ReleaseObject force-releases obj if and only if this controller is
// holding it. Returns true when a release happened.
func (c *Controller) ReleaseObject(obj Interactable) bool {
	if obj == nil || !sameObject(c.grasp.held, obj) {
		return false
	}
	c.releaseHeld(true)
	return true
}

// IsGraspingObject reports whether the slot holds an object.
func (c *Controller) IsGraspingObject() bool {
	return c.grasp.held != nil
}

// GraspedObject returns the held object, or nil while empty.
func (c *Controller) GraspedObject() Interactable {
	return c.grasp.held
}

// GraspPoint returns the variant's manipulation point. Requesting it while
// not grasping is a reportable misuse: callers must check
// IsGraspingObject first.
func (c *Controller) GraspPoint() r3.Vec {
	if c.grasp.held == nil {
		log.Warn("GraspPoint requested while not grasping; check IsGraspingObject first",
			"controller", c.id)
		return r3.Vec{}
	}
	return c.variant.GraspPoint()
}
