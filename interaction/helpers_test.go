package interaction

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/core"
	"github.com/tangible-xr/tangible/engine"
	"github.com/tangible-xr/tangible/physics"
)

const testTick = 10 * time.Millisecond

type testPoint struct {
	pos     r3.Vec
	enabled bool
}

func (p *testPoint) Position() r3.Vec { return p.pos }
func (p *testPoint) Enabled() bool    { return p.enabled }

// testVariant is a fully scripted Variant: every hook reads plain fields
// so tests drive tracked state, hover points, bone targets, and grasp
// intent directly.
type testVariant struct {
	kind      Kind
	chirality Chirality
	tracked   bool
	velocity  r3.Vec
	origin    r3.Vec

	points []*testPoint

	bones     []*ContactBone
	parent    physics.Body
	createErr error

	targets []core.Pose

	graspTarget Interactable
	graspOK     bool
	holdOK      bool
	graspPoint  r3.Vec

	unwarpCalls    int
	clearWarpCalls int
}

func (v *testVariant) Kind() Kind           { return v.kind }
func (v *testVariant) Chirality() Chirality { return v.chirality }
func (v *testVariant) Tracked() bool        { return v.tracked }
func (v *testVariant) Velocity() r3.Vec     { return v.velocity }

func (v *testVariant) QueryOrigin() (r3.Vec, bool) {
	return v.origin, v.tracked
}

func (v *testVariant) PrimaryHoverPoints() []HoverPoint {
	out := make([]HoverPoint, len(v.points))
	for i, p := range v.points {
		out[i] = p
	}
	return out
}

func (v *testVariant) CreateContactBones() ([]*ContactBone, physics.Body, error) {
	if v.createErr != nil {
		return nil, nil, v.createErr
	}
	return v.bones, v.parent, nil
}

func (v *testVariant) ContactBoneTargets(dst []core.Pose) {
	copy(dst, v.targets)
}

func (v *testVariant) CheckGraspBegin(candidates []Interactable) (Interactable, bool) {
	if !v.graspOK {
		return nil, false
	}
	if v.graspTarget != nil {
		return v.graspTarget, true
	}
	return candidates[0], true
}

func (v *testVariant) CheckGraspHold(held Interactable) bool {
	return v.holdOK
}

func (v *testVariant) GraspPoint() r3.Vec {
	return v.graspPoint
}

func (v *testVariant) UnwarpColliders(pivot r3.Vec, w Warp) {
	v.unwarpCalls++
}

func (v *testVariant) ClearWarp() {
	v.clearWarpCalls++
}

// shiftWarp is a Warp displacing every point by a fixed offset.
type shiftWarp struct {
	offset r3.Vec
}

func (w *shiftWarp) Unwarp(p r3.Vec) r3.Vec {
	return r3.Add(p, w.offset)
}

// stubContacts replaces the physics sphere-contact generator with a fixed
// answer so debounce tests are deterministic.
type stubContacts struct {
	intersecting bool
}

func (s *stubContacts) SphereContact(center r3.Vec, radius float64, velocity r3.Vec) physics.ContactResult {
	return physics.ContactResult{Intersecting: s.intersecting}
}

// fixture wires a manager to a SimWorld body factory, a spatial hash, a
// mock clock, and stub contacts. Tests move bodies directly and call tick.
type fixture struct {
	t        *testing.T
	world    *physics.SimWorld
	hash     *engine.SpatialHash
	clock    *engine.MockTimeProvider
	contacts *stubContacts
	mgr      *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	world := physics.NewSimWorld()
	hash := engine.NewSpatialHash(0.25)
	clock := engine.NewMockTimeProvider(time.Unix(1000, 0))
	contacts := &stubContacts{}
	mgr := NewManager(ManagerConfig{
		Index:    hash,
		Contacts: contacts,
		Notifier: world,
		Clock:    clock,
		Tuning:   DefaultTuning(),
	})
	return &fixture{
		t:        t,
		world:    world,
		hash:     hash,
		clock:    clock,
		contacts: contacts,
		mgr:      mgr,
	}
}

// tick rebuilds the broad phase from the live colliders and runs one
// manager update.
func (f *fixture) tick() {
	f.hash.Rebuild(f.world.Colliders())
	f.mgr.FixedTick(testTick)
}

// addSphere registers a spherical interactable at pos.
func (f *fixture) addSphere(pos r3.Vec, radius float64) (*Object, physics.Collider) {
	body := f.world.NewBody(core.Pose{Position: pos, Rotation: quat.Number{Real: 1}}, 0.5)
	col := f.world.NewSphereCollider(body, radius, physics.LayerInteractable)
	obj := NewObject(body, radius)
	f.mgr.RegisterInteractable(obj, col)
	return obj, col
}

// moveSphere teleports an object's body.
func (f *fixture) moveSphere(obj *Object, pos r3.Vec) {
	pose := obj.Body().Pose()
	pose.Position = pos
	obj.Body().SetPose(pose)
}

// newBone builds one contact bone backed by SimWorld bodies.
func (f *fixture) newBone(pos r3.Vec, width float64) *ContactBone {
	body := f.world.NewBody(core.Pose{Position: pos, Rotation: quat.Number{Real: 1}}, 0.1)
	col := f.world.NewSphereCollider(body, width/2, physics.LayerContactBone)
	return &ContactBone{Body: body, Collider: col, Width: width, LastTarget: pos}
}

// newTrackedVariant builds a tracked variant with a single enabled hover
// point at the origin and no contact bones.
func newTrackedVariant() *testVariant {
	return &testVariant{
		kind:    KindDevice,
		tracked: true,
		holdOK:  true,
		points:  []*testPoint{{enabled: true}},
	}
}

// withBones attaches n contact bones at the origin and matching targets.
func (f *fixture) withBones(v *testVariant, n int, width float64) {
	v.parent = f.world.NewBody(core.IdentityPose(), 0.1)
	v.bones = make([]*ContactBone, n)
	v.targets = make([]core.Pose, n)
	for i := range v.bones {
		v.bones[i] = f.newBone(r3.Vec{}, width)
		v.targets[i] = core.IdentityPose()
	}
}

func containsObject(objs []Interactable, obj Interactable) bool {
	for _, o := range objs {
		if sameObject(o, obj) {
			return true
		}
	}
	return false
}
