// Package physics defines the contracts the interaction core consumes from
// a physics engine: rigid bodies, colliders, broad-phase queries, contact
// notifications, and the sphere-contact utility used by soft contact.
// SimWorld provides a minimal in-process implementation of all of them so
// the module runs and tests end-to-end without an external engine.
package physics

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/core"
)

// Layer is a collision layer bitmask.
type Layer uint32

// Well-known layers. Engines with their own layer schemes map these at
// registration time.
const (
	LayerDefault      Layer = 1 << 0
	LayerInteractable Layer = 1 << 1
	LayerContactBone  Layer = 1 << 2
)

// Has reports whether l contains every bit of mask.
func (l Layer) Has(mask Layer) bool {
	return l&mask == mask
}

// Body is a simulated rigid body.
type Body interface {
	Pose() core.Pose
	SetPose(core.Pose)
	// MoveRotation force-sets orientation without touching position.
	MoveRotation(q quat.Number)
	Velocity() r3.Vec
	SetVelocity(r3.Vec)
	Mass() float64
	SetMass(float64)
	Enabled() bool
	SetEnabled(bool)
}

// Collider is a convex shape attached to a body. The core only needs a
// bounding-sphere view of the shape.
type Collider interface {
	ID() uuid.UUID
	// Body returns the attached rigid body, or nil for a detached collider.
	Body() Body
	Layer() Layer
	SetLayer(Layer)
	Trigger() bool
	SetTrigger(bool)
	// Center is the collider's world-space center this tick.
	Center() r3.Vec
	// Radius is the bounding-sphere radius used by the broad phase.
	Radius() float64
}

// SpatialIndex is the broad-phase proximity query over colliders.
type SpatialIndex interface {
	// QueryNearby returns colliders whose bounding sphere intersects the
	// sphere (point, radius), filtered to layers matching mask.
	QueryNearby(point r3.Vec, radius float64, mask Layer) []Collider
}

// ContactListener receives collision enter/exit notifications for a
// collider it was registered against. trigger reports whether the contact
// was generated while either collider was in trigger mode.
type ContactListener interface {
	OnContactEnter(own, other Collider, trigger bool)
	OnContactExit(own, other Collider, trigger bool)
}

// ContactResult accumulates the outcome of synthesized sphere contacts.
type ContactResult struct {
	// Intersecting is true when the swept sphere currently overlaps any
	// solid collider.
	Intersecting bool
}

// SphereContactGenerator produces approximate contact forces for a moving
// sphere, used by the soft-contact fallback instead of rigid collision
// response.
type SphereContactGenerator interface {
	SphereContact(center r3.Vec, radius float64, velocity r3.Vec) ContactResult
}

// BodyFactory constructs bodies and colliders. Controller variants use it
// to build their contact bones lazily.
type BodyFactory interface {
	NewBody(pose core.Pose, mass float64) Body
	NewSphereCollider(b Body, radius float64, layer Layer) Collider
}
