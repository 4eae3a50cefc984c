// Package interaction implements the per-tick controller core: activity
// queries, hover resolution with hysteresis, contact bone driving with a
// soft-contact fallback, and single-slot grasping with suspension.
package interaction

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/physics"
)

// Capability flags disqualify an object from individual state machines.
type Capability uint8

const (
	IgnoreHover Capability = 1 << iota
	IgnoreContact
	IgnoreGrasp
	IgnorePrimaryHover
)

// Has reports whether c contains every bit of mask.
func (c Capability) Has(mask Capability) bool {
	return c&mask == mask
}

// Warp is a spatial distortion an object may live in. Hover distances are
// measured in the object's undistorted space; contact bones are unwarped
// around the winning primary-hover point.
type Warp interface {
	// Unwarp maps a world-space point into the object's undistorted space.
	Unwarp(p r3.Vec) r3.Vec
}

// Interactable is an external entity a controller can hover, touch, and
// grasp. Implementations are registered with the Manager and referenced by
// lookup only: destruction or unregistration is tolerated everywhere and
// surfaces as end transitions.
type Interactable interface {
	ID() uuid.UUID
	Capabilities() Capability
	// HoverDistance measures the hover metric from a (possibly unwarped)
	// point to the object's surface.
	HoverDistance(point r3.Vec) float64
	// Body returns the object's rigid body, or nil while detached.
	Body() physics.Body
	// Warp returns the object's spatial warp, or nil in flat space.
	Warp() Warp
}

// PrimaryHoverListener is the delivery capability for primary-hover
// callbacks. Objects implementing only the bare Interactable interface
// still appear in polled sets but receive no direct calls.
type PrimaryHoverListener interface {
	OnPrimaryHoverBegin(c *Controller)
	OnPrimaryHoverStay(c *Controller)
	OnPrimaryHoverEnd(c *Controller)
}

// GraspNotifiee receives grasp lifecycle calls on the held object.
type GraspNotifiee interface {
	OnGraspBegin(c *Controller)
	// OnForcedRelease fires before a forced release (ignore-grasp flag
	// flipped while held, or an explicit ReleaseGrasp call).
	OnForcedRelease(c *Controller)
	OnGraspEnd(c *Controller)
}

// Suspendable objects own their suspension flag; the grasp resolver only
// signals transitions when a tracked/untracked edge occurs while holding.
type Suspendable interface {
	Suspended() bool
	SetSuspended(bool)
}
