package interaction

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/core"
	"github.com/tangible-xr/tangible/physics"
)

// Kind distinguishes the concrete controller families.
type Kind uint8

const (
	KindHand Kind = iota
	KindDevice
)

func (k Kind) String() string {
	switch k {
	case KindHand:
		return "hand"
	case KindDevice:
		return "device"
	default:
		return "unknown"
	}
}

// Chirality is the controller's handedness.
type Chirality uint8

const (
	Left Chirality = iota
	Right
)

func (ch Chirality) String() string {
	if ch == Left {
		return "left"
	}
	return "right"
}

// HoverPoint is one reference point compared against objects during
// primary-hover resolution. The collection a variant exposes is fixed in
// size after initialization; individual points may be disabled per tick.
type HoverPoint interface {
	Position() r3.Vec
	Enabled() bool
}

// ContactBone is one physically simulated proxy collider driven toward a
// tracked target pose each tick.
type ContactBone struct {
	Body     physics.Body
	Collider physics.Collider

	// Width is the bone's physical diameter, scaling its dead zone and
	// error fraction.
	Width float64

	// LastTarget is the previous resolved target position.
	LastTarget r3.Vec

	// MassFactor is inherited from the last object this bone touched.
	MassFactor float64
}

// Variant is the hook surface of a concrete controller. All hooks are pure
// functions of the variant's tracked state; the shared resolvers own every
// piece of cross-tick interaction state.
type Variant interface {
	Kind() Kind
	Chirality() Chirality

	// Tracked reports whether the underlying device currently has a pose.
	Tracked() bool

	// Velocity is the tracked source's velocity this tick.
	Velocity() r3.Vec

	// QueryOrigin returns the broad-phase query point; ok is false while
	// untracked, which yields empty candidate sets.
	QueryOrigin() (point r3.Vec, ok bool)

	// PrimaryHoverPoints returns the fixed hover-point collection.
	PrimaryHoverPoints() []HoverPoint

	// CreateContactBones constructs the proxy bodies and their common
	// parent. Returning an error is not a fault: the contact driver
	// retries every tick until construction succeeds.
	CreateContactBones() (bones []*ContactBone, parent physics.Body, err error)

	// ContactBoneTargets writes this tick's desired pose for every bone
	// into dst (len(dst) == len(bones)).
	ContactBoneTargets(dst []core.Pose)

	// CheckGraspBegin picks an object to grasp from the candidate set, or
	// ok=false to stay empty. Only consulted while the slot is empty.
	CheckGraspBegin(candidates []Interactable) (obj Interactable, ok bool)

	// CheckGraspHold reports whether the variant wants to keep holding.
	CheckGraspHold(held Interactable) bool

	// GraspPoint is the manipulation point while grasping.
	GraspPoint() r3.Vec

	// UnwarpColliders applies the inverse spatial warp to the variant's
	// physical colliders around the winning primary-hover point. The
	// pivot includes any displacement already in effect; implementations
	// recompute the offset from the raw tracked position so repeated
	// calls do not accumulate.
	UnwarpColliders(pivot r3.Vec, w Warp)

	// ClearWarp drops any active warp displacement. Called whenever
	// resolution ends without a warped primary hover.
	ClearWarp()
}
