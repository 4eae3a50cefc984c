package interaction

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/engine"
	"github.com/tangible-xr/tangible/parameter"
	"github.com/tangible-xr/tangible/physics"
)

func TestContactBonesRetryUntilCreated(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	v.createErr = errors.New("no skeleton yet")
	c := f.mgr.AddController(v)

	f.tick()
	f.tick()
	assert.False(t, c.contact.initialized)

	v.createErr = nil
	f.withBones(v, 2, 0.02)
	f.tick()
	require.True(t, c.contact.initialized)
	for _, bone := range v.bones {
		assert.Equal(t, physics.LayerContactBone, bone.Collider.Layer())
		assert.Equal(t, 1.0, bone.MassFactor)
	}
}

// First tracked tick after initialization starts in soft contact, and with
// nothing intersecting the debounce disables it after the delay.
func TestSoftContactDebounceDisables(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)

	f.tick()
	require.True(t, c.SoftContactEnabled())
	assert.True(t, v.bones[0].Collider.Trigger())

	// Not enough real time elapsed: still in soft contact.
	f.clock.Advance(parameter.SoftContactDisableDelay / 2)
	f.tick()
	assert.True(t, c.SoftContactEnabled())

	f.clock.Advance(parameter.SoftContactDisableDelay)
	f.tick()
	assert.False(t, c.SoftContactEnabled())
	assert.False(t, v.bones[0].Collider.Trigger())
}

// An intersection while the disable is pending cancels it; the timer must
// fully re-elapse after the sphere clears.
func TestSoftContactDebounceCancelOnIntersection(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)

	f.tick()
	require.True(t, c.SoftContactEnabled())

	f.contacts.intersecting = true
	f.clock.Advance(parameter.SoftContactDisableDelay / 2)
	f.tick()

	// The old deadline passing must not disable: it was cancelled.
	f.clock.Advance(parameter.SoftContactDisableDelay)
	f.tick()
	assert.True(t, c.SoftContactEnabled())

	f.contacts.intersecting = false
	f.tick()
	f.clock.Advance(parameter.SoftContactDisableDelay)
	f.tick()
	assert.False(t, c.SoftContactEnabled())
}

func TestNilContactGeneratorDegrades(t *testing.T) {
	world := physics.NewSimWorld()
	hash := engine.NewSpatialHash(0.25)
	clock := engine.NewMockTimeProvider(time.Unix(1000, 0))
	f := &fixture{
		t:     t,
		world: world,
		hash:  hash,
		clock: clock,
		mgr: NewManager(ManagerConfig{
			Index:    hash,
			Notifier: world,
			Clock:    clock,
			Tuning:   DefaultTuning(),
		}),
	}
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)

	// No generator means no intersections: the first-tick soft contact
	// must still run and time out instead of panicking.
	f.tick()
	require.True(t, c.SoftContactEnabled())

	f.clock.Advance(2 * parameter.SoftContactDisableDelay)
	f.tick()
	assert.False(t, c.SoftContactEnabled())
}

func (f *fixture) settleSoftContact(c *Controller) {
	f.tick()
	f.clock.Advance(parameter.SoftContactDisableDelay * 2)
	f.tick()
	if c.SoftContactEnabled() {
		f.t.Fatal("soft contact did not settle")
	}
}

// A target inside the dead zone zeroes the bone's velocity instead of
// micro-correcting.
func TestDeadzoneZeroesVelocity(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)
	f.settleSoftContact(c)

	bone := v.bones[0]
	bone.Body.SetVelocity(r3.Vec{X: 1})

	// Dead zone is 0.1 * width = 0.002.
	cur := bone.Body.Pose().Position
	v.targets[0].Position = r3.Add(cur, r3.Vec{X: 0.001})
	f.tick()

	assert.Equal(t, r3.Vec{}, bone.Body.Velocity())
	assert.Equal(t, cur, bone.LastTarget)
}

func TestBoneVelocityClamped(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)
	f.settleSoftContact(c)

	bone := v.bones[0]
	v.targets[0].Position = r3.Add(bone.Body.Pose().Position, r3.Vec{X: 50})
	f.tick()

	assert.InDelta(t, parameter.BoneVelocityMax, r3.Norm(bone.Body.Velocity()), 1e-9)
}

// Error fraction at rest scales mass down to the floor; fast motion scales
// it back up.
func TestMassScaling(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)
	f.settleSoftContact(c)

	bone := v.bones[0]

	// No error, no speed: mass factor 1 * 1.
	v.targets[0].Position = bone.Body.Pose().Position
	f.tick()
	assert.InDelta(t, 1.0, bone.Body.Mass(), 1e-9)

	// No error, fast hand: speed term saturates at 10.
	v.velocity = r3.Vec{X: 2}
	v.targets[0].Position = bone.Body.Pose().Position
	f.tick()
	assert.InDelta(t, 10.0, bone.Body.Mass(), 1e-9)
}

// A large tracking error at low speed flips the driver into soft contact.
func TestSoftContactEntryOnError(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)
	f.settleSoftContact(c)

	bone := v.bones[0]

	// Displace the body 0.07 from its last target: error fraction 3.5.
	pose := bone.Body.Pose()
	pose.Position = r3.Add(bone.LastTarget, r3.Vec{X: 0.07})
	bone.Body.SetPose(pose)
	v.velocity = r3.Vec{}
	f.tick()

	assert.True(t, c.SoftContactEnabled())
	assert.True(t, bone.Collider.Trigger())
}

// The same error at high speed stays in rigid mode: fast motion explains
// the error.
func TestNoSoftContactEntryAtSpeed(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)
	f.settleSoftContact(c)

	bone := v.bones[0]
	pose := bone.Body.Pose()
	pose.Position = r3.Add(bone.LastTarget, r3.Vec{X: 0.07})
	bone.Body.SetPose(pose)
	v.velocity = r3.Vec{X: 2}
	f.tick()

	assert.False(t, c.SoftContactEnabled())
}

func TestContactTransitions(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)
	f.settleSoftContact(c)

	obj, col := f.addSphere(r3.Vec{X: 0.5}, 0.05)

	c.NotifyContactEnter(v.bones[0].Collider, col, false)
	f.tick()
	began, ok := c.CheckContactBegin()
	require.True(t, ok)
	assert.True(t, containsObject(began, obj))
	assert.True(t, containsObject(c.ContactingObjects(), obj))

	f.tick()
	stayed, ok := c.CheckContactStay()
	require.True(t, ok)
	assert.True(t, containsObject(stayed, obj))

	c.NotifyContactExit(v.bones[0].Collider, col, false)
	f.tick()
	ended, ok := c.CheckContactEnd()
	require.True(t, ok)
	assert.True(t, containsObject(ended, obj))
	assert.Empty(t, c.ContactingObjects())
}

// The bone inherits its mass factor from the touched object's body.
func TestContactInheritsMassFactor(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)
	f.settleSoftContact(c)

	_, col := f.addSphere(r3.Vec{X: 0.5}, 0.05)
	c.NotifyContactEnter(v.bones[0].Collider, col, false)

	assert.InDelta(t, 0.5, v.bones[0].MassFactor, 1e-9)
}

func TestIgnoreContactFlipEndsContact(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)
	f.settleSoftContact(c)

	obj, col := f.addSphere(r3.Vec{X: 0.5}, 0.05)
	c.NotifyContactEnter(v.bones[0].Collider, col, false)
	f.tick()
	require.True(t, containsObject(c.ContactingObjects(), obj))

	obj.SetCapabilities(IgnoreContact)
	f.tick()
	ended, ok := c.CheckContactEnd()
	require.True(t, ok)
	assert.True(t, containsObject(ended, obj))
}

// Losing tracking ends every contact immediately and disables the proxy
// bodies; regaining tracking re-enters soft contact.
func TestTrackingLossEndsContacts(t *testing.T) {
	f := newFixture(t)
	v := newTrackedVariant()
	f.withBones(v, 1, 0.02)
	c := f.mgr.AddController(v)
	f.settleSoftContact(c)

	obj, col := f.addSphere(r3.Vec{X: 0.5}, 0.05)
	c.NotifyContactEnter(v.bones[0].Collider, col, false)
	f.tick()
	require.True(t, containsObject(c.ContactingObjects(), obj))

	v.tracked = false
	f.tick()
	ended, ok := c.CheckContactEnd()
	require.True(t, ok)
	assert.True(t, containsObject(ended, obj))
	assert.False(t, v.bones[0].Body.Enabled())

	v.tracked = true
	f.tick()
	assert.True(t, v.bones[0].Body.Enabled())
	assert.True(t, c.SoftContactEnabled())
}
