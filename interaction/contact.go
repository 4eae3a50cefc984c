package interaction

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/core"
	"github.com/tangible-xr/tangible/engine"
	"github.com/tangible-xr/tangible/internal/log"
	"github.com/tangible-xr/tangible/parameter"
	"github.com/tangible-xr/tangible/physics"
	"github.com/tangible-xr/tangible/vmath"
)

// contactState carries the contact driver's cross-tick state.
type contactState struct {
	initialized bool
	bones       []*ContactBone
	parent      physics.Body
	targets     []core.Pose

	softContact    bool
	disableToken   engine.TaskToken
	disablePending bool

	// Per-object touching-bone counters fed by collision notifications.
	touching     map[uuid.UUID]int
	touchingObjs map[uuid.UUID]Interactable

	contacted     map[uuid.UUID]Interactable
	contactedPrev map[uuid.UUID]Interactable

	began, ended, stayed []Interactable

	wasTracked bool

	// Last-tick bone positions for finite-difference soft-contact velocity.
	lastBonePositions []r3.Vec
}

func newContactState() contactState {
	return contactState{
		touching:      make(map[uuid.UUID]int),
		touchingObjs:  make(map[uuid.UUID]Interactable),
		contacted:     make(map[uuid.UUID]Interactable),
		contactedPrev: make(map[uuid.UUID]Interactable),
	}
}

// fixedUpdateContact advances every contact bone toward its tracked target
// and maintains the touched-object transition sets.
func (c *Controller) fixedUpdateContact(dt time.Duration) {
	s := &c.contact

	if c.contactEnabled {
		if !s.initialized {
			c.tryInitContact()
		}
		if s.initialized {
			c.driveContactBones(dt)
		}
	}

	c.contactBookkeeping()
}

// tryInitContact attempts proxy-body construction. Failure is not an
// error: the driver retries every tick until the variant succeeds.
func (c *Controller) tryInitContact() {
	s := &c.contact

	bones, parent, err := c.variant.CreateContactBones()
	if err != nil || len(bones) == 0 || parent == nil {
		return
	}

	s.bones = bones
	s.parent = parent
	s.targets = make([]core.Pose, len(bones))
	s.lastBonePositions = make([]r3.Vec, len(bones))

	for i, bone := range bones {
		bone.Collider.SetLayer(c.manager.contactLayer)
		if bone.MassFactor == 0 {
			bone.MassFactor = 1
		}
		p := bone.Body.Pose().Position
		bone.LastTarget = p
		s.lastBonePositions[i] = p
		c.manager.observeBone(c, bone)
	}

	s.initialized = true
	s.wasTracked = false
	log.Debug("contact bones initialized",
		"controller", c.id, "bones", len(bones))
}

func (c *Controller) driveContactBones(dt time.Duration) {
	s := &c.contact
	t := &c.manager.tuning
	tracked := c.variant.Tracked()

	if !tracked {
		if s.wasTracked {
			c.setBonesEnabled(false)
		}
		s.wasTracked = false
		return
	}

	if !s.wasTracked {
		c.setBonesEnabled(true)
		// Regained tracking re-enters soft contact to avoid pop artifacts
		// from bones teleporting into objects.
		c.enableSoftContact()
	}
	s.wasTracked = true

	c.variant.ContactBoneTargets(s.targets)
	speed := r3.Norm(c.variant.Velocity())
	secs := dt.Seconds()
	if secs <= 0 {
		secs = parameter.TickInterval.Seconds()
	}

	for i, bone := range s.bones {
		target := s.targets[i]

		// Force-set rotation: prevents rolling friction bleeding velocity
		// off round colliders.
		bone.Body.MoveRotation(target.Rotation)

		cur := bone.Body.Pose().Position
		errorFraction := vmath.Dist(bone.LastTarget, cur) / bone.Width

		massScale := vmath.Clamp(1-2*errorFraction, parameter.MassScaleErrorMin, parameter.MassScaleErrorMax) *
			vmath.Clamp(10*speed, parameter.MassScaleSpeedMin, parameter.MassScaleSpeedMax)
		bone.Body.SetMass(massScale * bone.MassFactor)

		if !s.softContact && errorFraction >= t.SoftContactErrorFraction && speed < t.SoftContactSpeedGate {
			c.enableSoftContact()
			// Velocity correction is skipped for this bone this tick.
			continue
		}

		deadzone := t.DeadzoneWidthFraction * bone.Width
		delta := r3.Sub(target.Position, cur)
		mag := r3.Norm(delta)
		if mag <= deadzone {
			bone.Body.SetVelocity(r3.Vec{})
			bone.LastTarget = cur
			continue
		}

		shrunk := r3.Scale((mag-deadzone)/mag, delta)
		bone.LastTarget = r3.Add(cur, shrunk)
		dir := vmath.SafeNormalize(shrunk)
		v := vmath.Clamp(r3.Norm(shrunk)/secs, 0, t.BoneVelocityMax)
		bone.Body.SetVelocity(r3.Scale(v, dir))
	}

	if s.softContact {
		c.updateSoftContact(secs)
	}
}

func (c *Controller) setBonesEnabled(on bool) {
	s := &c.contact
	if s.parent != nil {
		s.parent.SetEnabled(on)
	}
	for _, bone := range s.bones {
		bone.Body.SetEnabled(on)
	}
}

// updateSoftContact synthesizes sphere contacts at each bone and arms or
// cancels the debounced disable depending on whether anything intersects.
func (c *Controller) updateSoftContact(secs float64) {
	s := &c.contact
	t := &c.manager.tuning

	anyIntersecting := false
	for i, bone := range s.bones {
		pos := bone.Body.Pose().Position
		// Without a generator no intersections are observed and soft
		// contact times out through the debounce.
		if c.manager.contacts != nil {
			vel := r3.Scale(1/secs, r3.Sub(pos, s.lastBonePositions[i]))
			res := c.manager.contacts.SphereContact(pos, t.SoftContactSphereRadius, vel)
			anyIntersecting = anyIntersecting || res.Intersecting
		}
		s.lastBonePositions[i] = pos
	}

	if anyIntersecting {
		if s.disablePending {
			c.manager.deferred.Cancel(s.disableToken)
			s.disablePending = false
		}
		return
	}

	// Re-triggering while a disable is already pending is a no-op.
	if !s.disablePending {
		s.disablePending = true
		s.disableToken = c.manager.deferred.Schedule(t.SoftContactDisableDelay, func() {
			s.disablePending = false
			c.disableSoftContact()
		})
	}
}

// enableSoftContact switches all bone colliders to trigger mode. Enabling
// cancels any pending disable; enabling while already enabled only renews
// the cancel.
func (c *Controller) enableSoftContact() {
	s := &c.contact

	if s.disablePending {
		c.manager.deferred.Cancel(s.disableToken)
		s.disablePending = false
	}
	if s.softContact || !s.initialized {
		return
	}

	s.softContact = true
	for i, bone := range s.bones {
		bone.Collider.SetTrigger(true)
		s.lastBonePositions[i] = bone.Body.Pose().Position
	}
	log.Debug("soft contact enabled", "controller", c.id)
}

func (c *Controller) disableSoftContact() {
	s := &c.contact
	if !s.softContact {
		return
	}
	s.softContact = false
	for _, bone := range s.bones {
		bone.Collider.SetTrigger(false)
	}
	log.Debug("soft contact disabled", "controller", c.id)
}

// NotifyContactEnter records a collision-enter for one of this
// controller's bones. trigger tags contacts generated in trigger mode.
func (c *Controller) NotifyContactEnter(own, other physics.Collider, trigger bool) {
	obj, ok := c.manager.InteractableForCollider(other)
	if !ok {
		return
	}
	s := &c.contact
	s.touching[obj.ID()]++
	s.touchingObjs[obj.ID()] = obj

	// The bone inherits a mass factor from whatever it last touched so a
	// heavy hand does not launch light objects.
	if bone := c.boneFor(own); bone != nil {
		if b := obj.Body(); b != nil && b.Mass() > 0 {
			bone.MassFactor = b.Mass()
		}
	}
}

// NotifyContactExit records a collision-exit for one of this controller's
// bones.
func (c *Controller) NotifyContactExit(own, other physics.Collider, trigger bool) {
	obj, ok := c.manager.InteractableForCollider(other)
	if !ok {
		return
	}
	s := &c.contact
	s.touching[obj.ID()]--
	if s.touching[obj.ID()] <= 0 {
		delete(s.touching, obj.ID())
		delete(s.touchingObjs, obj.ID())
	}
}

func (c *Controller) boneFor(col physics.Collider) *ContactBone {
	for _, bone := range c.contact.bones {
		if bone.Collider.ID() == col.ID() {
			return bone
		}
	}
	return nil
}

// contactBookkeeping recomputes began/ended/stay sets from the touching
// counters, pruning objects that became invalid, flipped ignore-contact,
// or whose controller lost tracking (immediate end for all).
func (c *Controller) contactBookkeeping() {
	s := &c.contact

	active := c.contactEnabled && c.variant.Tracked()
	cur := make(map[uuid.UUID]Interactable)
	if active {
		for id := range s.touching {
			obj := s.touchingObjs[id]
			if obj == nil ||
				!c.manager.isRegistered(obj.ID()) ||
				obj.Capabilities().Has(IgnoreContact) {
				delete(s.touching, id)
				delete(s.touchingObjs, id)
				continue
			}
			cur[id] = obj
		}
	} else {
		for id := range s.touching {
			delete(s.touching, id)
			delete(s.touchingObjs, id)
		}
	}

	s.began = s.began[:0]
	s.ended = s.ended[:0]
	s.stayed = s.stayed[:0]

	for id, obj := range cur {
		if _, was := s.contactedPrev[id]; was {
			s.stayed = append(s.stayed, obj)
		} else {
			s.began = append(s.began, obj)
		}
	}
	for id, obj := range s.contactedPrev {
		if _, still := cur[id]; !still {
			s.ended = append(s.ended, obj)
		}
	}

	s.contacted = cur
	s.contactedPrev = make(map[uuid.UUID]Interactable, len(cur))
	for id, obj := range cur {
		s.contactedPrev[id] = obj
	}
}
