package interaction

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/physics"
	"github.com/tangible-xr/tangible/vmath"
)

// Object is the stock Interactable: a sphere-ish rigid object with
// settable capability flags and a stored suspension flag. It satisfies the
// listener capabilities with optional callback hooks so consumers can
// subscribe without writing a full type.
type Object struct {
	id     uuid.UUID
	body   physics.Body
	radius float64
	caps   Capability
	warp   Warp

	suspended bool

	// Optional hooks; nil hooks are skipped.
	PrimaryHoverBeginHook func(c *Controller)
	PrimaryHoverStayHook  func(c *Controller)
	PrimaryHoverEndHook   func(c *Controller)
	GraspBeginHook        func(c *Controller)
	ForcedReleaseHook     func(c *Controller)
	GraspEndHook          func(c *Controller)
}

// NewObject creates an object backed by the given body with a spherical
// hover metric of the given radius.
func NewObject(body physics.Body, radius float64) *Object {
	return &Object{
		id:     uuid.New(),
		body:   body,
		radius: radius,
	}
}

func (o *Object) ID() uuid.UUID            { return o.id }
func (o *Object) Body() physics.Body       { return o.body }
func (o *Object) Capabilities() Capability { return o.caps }
func (o *Object) Warp() Warp               { return o.warp }

// SetCapabilities replaces the capability flags. Flipping an ignore flag
// while active surfaces as an end transition on the next tick.
func (o *Object) SetCapabilities(caps Capability) {
	o.caps = caps
}

// SetWarp associates the object with a spatial warp (nil for flat space).
func (o *Object) SetWarp(w Warp) {
	o.warp = w
}

// HoverDistance is the distance from point to the object's surface,
// clamped at zero inside the object.
func (o *Object) HoverDistance(point r3.Vec) float64 {
	if o.body == nil {
		return vmath.Dist(point, r3.Vec{})
	}
	d := vmath.Dist(point, o.body.Pose().Position) - o.radius
	if d < 0 {
		return 0
	}
	return d
}

func (o *Object) Suspended() bool     { return o.suspended }
func (o *Object) SetSuspended(s bool) { o.suspended = s }

func (o *Object) OnPrimaryHoverBegin(c *Controller) {
	if o.PrimaryHoverBeginHook != nil {
		o.PrimaryHoverBeginHook(c)
	}
}

func (o *Object) OnPrimaryHoverStay(c *Controller) {
	if o.PrimaryHoverStayHook != nil {
		o.PrimaryHoverStayHook(c)
	}
}

func (o *Object) OnPrimaryHoverEnd(c *Controller) {
	if o.PrimaryHoverEndHook != nil {
		o.PrimaryHoverEndHook(c)
	}
}

func (o *Object) OnGraspBegin(c *Controller) {
	if o.GraspBeginHook != nil {
		o.GraspBeginHook(c)
	}
}

func (o *Object) OnForcedRelease(c *Controller) {
	if o.ForcedReleaseHook != nil {
		o.ForcedReleaseHook(c)
	}
}

func (o *Object) OnGraspEnd(c *Controller) {
	if o.GraspEndHook != nil {
		o.GraspEndHook(c)
	}
}
