package interaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/tangible-xr/tangible/engine"
	"github.com/tangible-xr/tangible/event"
	"github.com/tangible-xr/tangible/internal/log"
	"github.com/tangible-xr/tangible/physics"
)

// ContactNotifier registers a listener for a collider's collision
// enter/exit notifications. The physics engine implements this.
type ContactNotifier interface {
	Notify(col physics.Collider, l physics.ContactListener)
}

// ManagerConfig wires the external collaborators into a Manager.
type ManagerConfig struct {
	Index    physics.SpatialIndex
	Contacts physics.SphereContactGenerator
	Notifier ContactNotifier

	// Clock is the real-time clock for the soft-contact debounce.
	// Defaults to the monotonic system clock.
	Clock engine.TimeProvider

	Tuning Tuning

	// InteractionMask filters broad-phase results; ContactLayer is
	// assigned to every contact bone after initialization.
	InteractionMask physics.Layer
	ContactLayer    physics.Layer

	// HoverPredicate is an optional extra hover eligibility filter.
	HoverPredicate func(Interactable) bool
}

// Manager owns the interactable registry and the controller set, and runs
// every controller once per fixed tick. It implements engine.Ticker.
type Manager struct {
	index    physics.SpatialIndex
	contacts physics.SphereContactGenerator
	notifier ContactNotifier
	clock    engine.TimeProvider
	deferred *engine.Deferred

	queue  *event.Queue
	router *event.Router

	tuning          Tuning
	interactionMask physics.Layer
	contactLayer    physics.Layer
	hoverPredicate  func(Interactable) bool

	objects    map[uuid.UUID]Interactable
	byCollider map[uuid.UUID]Interactable

	controllers []*Controller

	tick uint64
}

// NewManager creates a manager from the given collaborators.
func NewManager(cfg ManagerConfig) *Manager {
	clock := cfg.Clock
	if clock == nil {
		clock = engine.NewMonotonicTimeProvider()
	}
	mask := cfg.InteractionMask
	if mask == 0 {
		mask = physics.LayerInteractable
	}
	layer := cfg.ContactLayer
	if layer == 0 {
		layer = physics.LayerContactBone
	}

	queue := event.NewQueue()
	return &Manager{
		index:           cfg.Index,
		contacts:        cfg.Contacts,
		notifier:        cfg.Notifier,
		clock:           clock,
		deferred:        engine.NewDeferred(clock),
		queue:           queue,
		router:          event.NewRouter(queue),
		tuning:          cfg.Tuning,
		interactionMask: mask,
		contactLayer:    layer,
		hoverPredicate:  cfg.HoverPredicate,
		objects:         make(map[uuid.UUID]Interactable),
		byCollider:      make(map[uuid.UUID]Interactable),
	}
}

// RegisterInteractable adds an object and its colliders to the registry.
func (m *Manager) RegisterInteractable(obj Interactable, colliders ...physics.Collider) {
	m.objects[obj.ID()] = obj
	for _, col := range colliders {
		m.byCollider[col.ID()] = obj
	}
}

// UnregisterInteractable removes an object. Controllers observe the
// removal as end transitions on their next tick.
func (m *Manager) UnregisterInteractable(obj Interactable) {
	delete(m.objects, obj.ID())
	for id, o := range m.byCollider {
		if sameObject(o, obj) {
			delete(m.byCollider, id)
		}
	}
}

// InteractableForCollider resolves a raw collider to its registered
// object. Unknown colliders simply miss.
func (m *Manager) InteractableForCollider(col physics.Collider) (Interactable, bool) {
	if col == nil {
		return nil, false
	}
	obj, ok := m.byCollider[col.ID()]
	return obj, ok
}

func (m *Manager) isRegistered(id uuid.UUID) bool {
	_, ok := m.objects[id]
	return ok
}

// AddController creates a controller around the given variant and begins
// updating it every tick.
func (m *Manager) AddController(v Variant) *Controller {
	c := newController(m, v)
	m.controllers = append(m.controllers, c)
	log.Info("controller registered",
		"controller", c.id, "kind", v.Kind().String(), "chirality", v.Chirality().String())
	return c
}

// RemoveController detaches a controller, cancelling any deferred work it
// still owns.
func (m *Manager) RemoveController(c *Controller) {
	for i, other := range m.controllers {
		if other == c {
			m.controllers = append(m.controllers[:i], m.controllers[i+1:]...)
			break
		}
	}
	c.close()
}

// Controllers returns the registered controller set.
func (m *Manager) Controllers() []*Controller {
	return m.controllers
}

// ControllerByChirality returns the first controller with the given
// handedness.
func (m *Manager) ControllerByChirality(ch Chirality) (*Controller, bool) {
	for _, c := range m.controllers {
		if c.Chirality() == ch {
			return c, true
		}
	}
	return nil, false
}

// SetHoverActivationRadius retunes the hover broad-phase radius; it is
// re-read every tick.
func (m *Manager) SetHoverActivationRadius(r float64) {
	m.tuning.HoverActivationRadius = r
}

// HoverActivationRadius returns the live hover radius.
func (m *Manager) HoverActivationRadius() float64 {
	return m.tuning.HoverActivationRadius
}

// SetGraspActivationRadius retunes the grasp broad-phase radius.
func (m *Manager) SetGraspActivationRadius(r float64) {
	m.tuning.GraspActivationRadius = r
}

// GraspActivationRadius returns the live grasp radius.
func (m *Manager) GraspActivationRadius() float64 {
	return m.tuning.GraspActivationRadius
}

// Subscribe registers an event handler for interaction transitions.
func (m *Manager) Subscribe(h event.Handler) {
	m.router.Register(h)
}

// boneListener adapts engine contact callbacks onto a controller.
type boneListener struct {
	c *Controller
}

func (l boneListener) OnContactEnter(own, other physics.Collider, trigger bool) {
	l.c.NotifyContactEnter(own, other, trigger)
}

func (l boneListener) OnContactExit(own, other physics.Collider, trigger bool) {
	l.c.NotifyContactExit(own, other, trigger)
}

// observeBone wires a bone's collision notifications to its controller.
func (m *Manager) observeBone(c *Controller, bone *ContactBone) {
	if m.notifier == nil {
		return
	}
	m.notifier.Notify(bone.Collider, boneListener{c})
}

// FixedTick runs one fixed-timestep update: deferred work first, then
// every controller in registration order, then event emission.
func (m *Manager) FixedTick(dt time.Duration) {
	m.tick++
	m.deferred.Advance(m.clock.Now())

	for _, c := range m.controllers {
		c.fixedUpdate(dt)
	}
	for _, c := range m.controllers {
		m.emit(c)
	}
	m.router.DispatchAll()
}

// Tick returns the number of completed fixed updates.
func (m *Manager) Tick() uint64 {
	return m.tick
}

// emit polls one controller's transition buffers and publishes events.
// Edge events go to the queue; stay notifications only reach direct
// listeners to keep the queue from flooding. End-of-old-primary-hover is
// always published before begin-of-new.
func (m *Manager) emit(c *Controller) {
	if ended, ok := c.CheckHoverEnd(); ok {
		for _, obj := range ended {
			m.push(event.TypeHoverEnd, c, obj)
		}
	}
	if began, ok := c.CheckHoverBegin(); ok {
		for _, obj := range began {
			m.push(event.TypeHoverBegin, c, obj)
		}
	}

	if obj, ok := c.CheckPrimaryHoverEnd(); ok {
		m.push(event.TypePrimaryHoverEnd, c, obj)
		if l, lok := obj.(PrimaryHoverListener); lok {
			l.OnPrimaryHoverEnd(c)
		}
	}
	if obj, ok := c.CheckPrimaryHoverBegin(); ok {
		m.push(event.TypePrimaryHoverBegin, c, obj)
		if l, lok := obj.(PrimaryHoverListener); lok {
			l.OnPrimaryHoverBegin(c)
		}
	}
	if obj, ok := c.CheckPrimaryHoverStay(); ok {
		if l, lok := obj.(PrimaryHoverListener); lok {
			l.OnPrimaryHoverStay(c)
		}
	}

	if ended, ok := c.CheckContactEnd(); ok {
		for _, obj := range ended {
			m.push(event.TypeContactEnd, c, obj)
		}
	}
	if began, ok := c.CheckContactBegin(); ok {
		for _, obj := range began {
			m.push(event.TypeContactBegin, c, obj)
		}
	}

	if obj, ok := c.CheckGraspEnd(); ok {
		m.push(event.TypeGraspEnd, c, obj)
	}
	if obj, ok := c.CheckGraspBegin(); ok {
		m.push(event.TypeGraspBegin, c, obj)
	}
	if obj, ok := c.CheckSuspensionBegin(); ok {
		m.push(event.TypeSuspensionBegin, c, obj)
	}
	if obj, ok := c.CheckSuspensionEnd(); ok {
		m.push(event.TypeSuspensionEnd, c, obj)
	}
}

func (m *Manager) push(t event.Type, c *Controller, obj Interactable) {
	ev := event.Event{Type: t, Controller: c.id, Tick: m.tick}
	if obj != nil {
		ev.Object = obj.ID()
	}
	m.queue.Push(ev)
}
