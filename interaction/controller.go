package interaction

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Controller reconciles one tracked input source against the registered
// interactables, producing the hover, contact, and grasp state machines.
// All state mutates synchronously inside fixedUpdate; the orchestrator
// serializes access, so no locking is needed.
type Controller struct {
	id      uuid.UUID
	manager *Manager
	variant Variant

	hoverEnabled   bool
	contactEnabled bool
	graspEnabled   bool

	hover   hoverState
	contact contactState
	grasp   graspState

	hoverQuery activityQuery
	graspQuery activityQuery
}

func newController(m *Manager, v Variant) *Controller {
	c := &Controller{
		id:             uuid.New(),
		manager:        m,
		variant:        v,
		hoverEnabled:   true,
		contactEnabled: true,
		graspEnabled:   true,
		hover:          newHoverState(),
		contact:        newContactState(),
	}
	c.hoverQuery = activityQuery{manager: m, ignore: IgnoreHover, extra: m.hoverPredicate}
	c.graspQuery = activityQuery{manager: m, ignore: IgnoreGrasp}
	return c
}

// fixedUpdate runs one tick in the fixed subsystem order: hover activity
// query + resolution, contact driving, grasp activity query + resolution.
func (c *Controller) fixedUpdate(dt time.Duration) {
	c.fixedUpdateHover()
	c.fixedUpdateContact(dt)
	c.fixedUpdateGrasp()
}

// ID returns the controller's stable identity.
func (c *Controller) ID() uuid.UUID { return c.id }

// Kind returns the variant family (hand or device).
func (c *Controller) Kind() Kind { return c.variant.Kind() }

// Chirality returns the controller's handedness.
func (c *Controller) Chirality() Chirality { return c.variant.Chirality() }

// Tracked reports whether the underlying source currently has a pose.
func (c *Controller) Tracked() bool { return c.variant.Tracked() }

// Velocity is the tracked source's velocity this tick.
func (c *Controller) Velocity() r3.Vec { return c.variant.Velocity() }

// Feature toggles.

func (c *Controller) SetHoverEnabled(on bool)   { c.hoverEnabled = on }
func (c *Controller) SetContactEnabled(on bool) { c.contactEnabled = on }
func (c *Controller) SetGraspEnabled(on bool)   { c.graspEnabled = on }
func (c *Controller) HoverEnabled() bool        { return c.hoverEnabled }
func (c *Controller) ContactEnabled() bool      { return c.contactEnabled }
func (c *Controller) GraspEnabled() bool        { return c.graspEnabled }

// SetPrimaryHoverLocked freezes hover resolution: the hovered set and
// primary hover keep their current values until unlocked. Transition
// bookkeeping keeps running.
func (c *Controller) SetPrimaryHoverLocked(locked bool) {
	c.hover.locked = locked
}

// PrimaryHoverLocked reports the lock state.
func (c *Controller) PrimaryHoverLocked() bool {
	return c.hover.locked
}

// HoveredObjects returns the current hovered set.
func (c *Controller) HoveredObjects() []Interactable {
	out := make([]Interactable, 0, len(c.hover.hovered))
	for _, obj := range c.hover.hovered {
		out = append(out, obj)
	}
	return out
}

// IsHovering reports whether the hovered set is non-empty.
func (c *Controller) IsHovering() bool {
	return len(c.hover.hovered) > 0
}

// PrimaryHoveredObject returns the single best hover target, or nil.
func (c *Controller) PrimaryHoveredObject() Interactable {
	return c.hover.primary
}

// PrimaryHoverDistance is the winning hover distance, or +Inf with no
// primary hover.
func (c *Controller) PrimaryHoverDistance() float64 {
	if c.hover.primary == nil {
		return math.Inf(1)
	}
	return c.hover.primaryDistance
}

// PrimaryHoverPointIndex is the index of the winning hover point, or -1.
func (c *Controller) PrimaryHoverPointIndex() int {
	if c.hover.primary == nil {
		return -1
	}
	return c.hover.primaryPointIdx
}

// ContactingObjects returns the currently touched set.
func (c *Controller) ContactingObjects() []Interactable {
	out := make([]Interactable, 0, len(c.contact.contacted))
	for _, obj := range c.contact.contacted {
		out = append(out, obj)
	}
	return out
}

// SoftContactEnabled reports whether the contact driver is in the
// simplified trigger-collider mode.
func (c *Controller) SoftContactEnabled() bool {
	return c.contact.softContact
}

// Polled transition API. Each call returns the found flag and the output
// set for the current tick. The manager polls these once per tick after
// the internal update and fires listener callbacks at that point.

func (c *Controller) CheckHoverEnd() ([]Interactable, bool) {
	return c.hover.ended, len(c.hover.ended) > 0
}

func (c *Controller) CheckHoverBegin() ([]Interactable, bool) {
	return c.hover.began, len(c.hover.began) > 0
}

func (c *Controller) CheckHoverStay() ([]Interactable, bool) {
	return c.hover.stayed, len(c.hover.stayed) > 0
}

func (c *Controller) CheckPrimaryHoverEnd() (Interactable, bool) {
	return c.hover.primaryEnded, c.hover.primaryEnded != nil
}

func (c *Controller) CheckPrimaryHoverBegin() (Interactable, bool) {
	return c.hover.primaryBegan, c.hover.primaryBegan != nil
}

func (c *Controller) CheckPrimaryHoverStay() (Interactable, bool) {
	return c.hover.primaryStayed, c.hover.primaryStayed != nil
}

func (c *Controller) CheckContactEnd() ([]Interactable, bool) {
	return c.contact.ended, len(c.contact.ended) > 0
}

func (c *Controller) CheckContactBegin() ([]Interactable, bool) {
	return c.contact.began, len(c.contact.began) > 0
}

func (c *Controller) CheckContactStay() ([]Interactable, bool) {
	return c.contact.stayed, len(c.contact.stayed) > 0
}

func (c *Controller) CheckGraspEnd() (Interactable, bool) {
	return c.grasp.ended, c.grasp.ended != nil
}

func (c *Controller) CheckGraspBegin() (Interactable, bool) {
	return c.grasp.began, c.grasp.began != nil
}

func (c *Controller) CheckGraspHold() (Interactable, bool) {
	return c.grasp.held, c.grasp.held != nil
}

func (c *Controller) CheckSuspensionBegin() (Interactable, bool) {
	return c.grasp.suspBegan, c.grasp.suspBegan != nil
}

func (c *Controller) CheckSuspensionEnd() (Interactable, bool) {
	return c.grasp.suspEnded, c.grasp.suspEnded != nil
}

// close releases controller-owned resources: a pending soft-contact
// disable must never fire after the controller is gone.
func (c *Controller) close() {
	if c.contact.disablePending {
		c.manager.deferred.Cancel(c.contact.disableToken)
		c.contact.disablePending = false
	}
}
