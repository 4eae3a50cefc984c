package physics

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/core"
	"github.com/tangible-xr/tangible/vmath"
)

// SimBody is SimWorld's rigid body. Integration is kinematic: position
// advances by velocity each step, rotation is whatever was last set.
type SimBody struct {
	pose    core.Pose
	vel     r3.Vec
	mass    float64
	enabled bool
}

func (b *SimBody) Pose() core.Pose      { return b.pose }
func (b *SimBody) SetPose(p core.Pose)  { b.pose = p }
func (b *SimBody) Velocity() r3.Vec     { return b.vel }
func (b *SimBody) SetVelocity(v r3.Vec) { b.vel = v }
func (b *SimBody) Mass() float64        { return b.mass }
func (b *SimBody) SetMass(m float64)    { b.mass = m }
func (b *SimBody) Enabled() bool        { return b.enabled }
func (b *SimBody) SetEnabled(on bool)   { b.enabled = on }

func (b *SimBody) MoveRotation(q quat.Number) {
	b.pose.Rotation = q
}

// SimCollider is a sphere collider attached to a SimBody.
type SimCollider struct {
	id      uuid.UUID
	body    *SimBody
	offset  r3.Vec // body-local center
	radius  float64
	layer   Layer
	trigger bool
}

func (c *SimCollider) ID() uuid.UUID     { return c.id }
func (c *SimCollider) Layer() Layer      { return c.layer }
func (c *SimCollider) SetLayer(l Layer)  { c.layer = l }
func (c *SimCollider) Trigger() bool     { return c.trigger }
func (c *SimCollider) SetTrigger(t bool) { c.trigger = t }
func (c *SimCollider) Radius() float64   { return c.radius }

func (c *SimCollider) Body() Body {
	if c.body == nil {
		return nil
	}
	return c.body
}

func (c *SimCollider) Center() r3.Vec {
	if c.body == nil {
		return c.offset
	}
	return c.body.pose.TransformPoint(c.offset)
}

type pairKey struct {
	a, b uuid.UUID
}

func makePairKey(a, b uuid.UUID) pairKey {
	if bytes.Compare(b[:], a[:]) < 0 {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// SimWorld is a minimal kinematic physics world with sphere colliders.
// It implements BodyFactory, SphereContactGenerator, and synthesizes
// contact enter/exit notifications from overlap diffing each step.
type SimWorld struct {
	bodies    []*SimBody
	colliders []*SimCollider
	listeners map[uuid.UUID]ContactListener
	pairs     map[pairKey]bool // overlapping pairs last step -> trigger flag
}

// NewSimWorld creates an empty world.
func NewSimWorld() *SimWorld {
	return &SimWorld{
		listeners: make(map[uuid.UUID]ContactListener),
		pairs:     make(map[pairKey]bool),
	}
}

// NewBody creates an enabled body at the given pose.
func (w *SimWorld) NewBody(pose core.Pose, mass float64) Body {
	b := &SimBody{pose: pose, mass: mass, enabled: true}
	w.bodies = append(w.bodies, b)
	return b
}

// NewSphereCollider attaches a sphere collider centered on the body origin.
// b must originate from this world.
func (w *SimWorld) NewSphereCollider(b Body, radius float64, layer Layer) Collider {
	sb, _ := b.(*SimBody)
	c := &SimCollider{
		id:     uuid.New(),
		body:   sb,
		radius: radius,
		layer:  layer,
	}
	w.colliders = append(w.colliders, c)
	return c
}

// RemoveCollider detaches a collider from the world. Pending overlap pairs
// involving it surface as exit notifications on the next step.
func (w *SimWorld) RemoveCollider(col Collider) {
	for i, c := range w.colliders {
		if c.ID() == col.ID() {
			w.colliders = append(w.colliders[:i], w.colliders[i+1:]...)
			break
		}
	}
	delete(w.listeners, col.ID())
}

// Notify registers a contact listener for a collider.
func (w *SimWorld) Notify(col Collider, l ContactListener) {
	w.listeners[col.ID()] = l
}

// Colliders returns the live collider set for broad-phase rebuilds.
func (w *SimWorld) Colliders() []Collider {
	out := make([]Collider, len(w.colliders))
	for i, c := range w.colliders {
		out[i] = c
	}
	return out
}

// Step integrates enabled bodies and dispatches contact transitions.
func (w *SimWorld) Step(dt time.Duration) {
	secs := dt.Seconds()
	for _, b := range w.bodies {
		if !b.enabled {
			continue
		}
		b.pose.Position = r3.Add(b.pose.Position, r3.Scale(secs, b.vel))
	}
	w.dispatchContacts()
}

func (w *SimWorld) colliderActive(c *SimCollider) bool {
	return c.body == nil || c.body.enabled
}

func (w *SimWorld) dispatchContacts() {
	current := make(map[pairKey][2]*SimCollider, len(w.pairs))
	for i := 0; i < len(w.colliders); i++ {
		for j := i + 1; j < len(w.colliders); j++ {
			a, b := w.colliders[i], w.colliders[j]
			if a.body != nil && a.body == b.body {
				continue
			}
			if !w.colliderActive(a) || !w.colliderActive(b) {
				continue
			}
			if vmath.Dist(a.Center(), b.Center()) < a.radius+b.radius {
				current[makePairKey(a.id, b.id)] = [2]*SimCollider{a, b}
			}
		}
	}

	for key, pair := range current {
		if _, was := w.pairs[key]; !was {
			trigger := pair[0].trigger || pair[1].trigger
			w.notifyPair(pair[0], pair[1], trigger, true)
		}
	}
	for key := range w.pairs {
		if _, still := current[key]; !still {
			a := w.colliderByID(key.a)
			b := w.colliderByID(key.b)
			if a != nil && b != nil {
				w.notifyPair(a, b, w.pairs[key], false)
			}
		}
	}

	w.pairs = make(map[pairKey]bool, len(current))
	for key, pair := range current {
		w.pairs[key] = pair[0].trigger || pair[1].trigger
	}
}

func (w *SimWorld) colliderByID(id uuid.UUID) *SimCollider {
	for _, c := range w.colliders {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (w *SimWorld) notifyPair(a, b *SimCollider, trigger, enter bool) {
	if l, ok := w.listeners[a.id]; ok {
		if enter {
			l.OnContactEnter(a, b, trigger)
		} else {
			l.OnContactExit(a, b, trigger)
		}
	}
	if l, ok := w.listeners[b.id]; ok {
		if enter {
			l.OnContactEnter(b, a, trigger)
		} else {
			l.OnContactExit(b, a, trigger)
		}
	}
}

// SphereContact implements the soft-contact utility: it reports whether the
// sphere overlaps any solid non-bone collider and nudges overlapping
// dynamic bodies apart along the contact normal.
func (w *SimWorld) SphereContact(center r3.Vec, radius float64, velocity r3.Vec) ContactResult {
	var res ContactResult
	for _, c := range w.colliders {
		if c.trigger || c.layer.Has(LayerContactBone) || !w.colliderActive(c) {
			continue
		}
		d := vmath.Dist(center, c.Center())
		overlap := radius + c.radius - d
		if overlap <= 0 {
			continue
		}
		res.Intersecting = true
		if c.body == nil {
			continue
		}
		normal := vmath.SafeNormalize(r3.Sub(c.Center(), center))
		pose := c.body.pose
		pose.Position = r3.Add(pose.Position, r3.Scale(overlap, normal))
		c.body.pose = pose
		// Blend a share of the sphere velocity into the pushed body so
		// soft-contacted objects follow the hand instead of popping.
		c.body.vel = r3.Add(r3.Scale(0.5, c.body.vel), r3.Scale(0.5, velocity))
	}
	return res
}
