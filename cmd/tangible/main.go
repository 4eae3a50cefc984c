// Command tangible runs a headless interaction simulation: a scripted 6DOF
// device approaches, touches, grasps, and releases a sphere, with every
// transition logged and optionally streamed over websocket telemetry.
package main

import (
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/config"
	"github.com/tangible-xr/tangible/core"
	"github.com/tangible-xr/tangible/engine"
	"github.com/tangible-xr/tangible/event"
	"github.com/tangible-xr/tangible/interaction"
	"github.com/tangible-xr/tangible/internal/log"
	"github.com/tangible-xr/tangible/physics"
	"github.com/tangible-xr/tangible/telemetry"
)

func main() {
	log.Init(os.Getenv("TANGIBLE_LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	world := physics.NewSimWorld()
	hash := engine.NewSpatialHash(cfg.Engine.CellSize)

	manager := interaction.NewManager(interaction.ManagerConfig{
		Index:    hash,
		Contacts: world,
		Notifier: world,
		Tuning:   cfg.Tuning(),
	})

	// One grabbable sphere in front of the device's sweep.
	ballBody := world.NewBody(core.Pose{Position: r3.Vec{Z: 0.5}}, 0.3)
	ballCol := world.NewSphereCollider(ballBody, 0.05, physics.LayerInteractable)
	ball := interaction.NewObject(ballBody, 0.05)
	ball.GraspBeginHook = func(c *interaction.Controller) {
		log.Info("ball grasped", "controller", c.ID())
	}
	ball.GraspEndHook = func(c *interaction.Controller) {
		log.Info("ball released", "controller", c.ID())
	}
	manager.RegisterInteractable(ball, ballCol)

	source := &scriptedDevice{}
	device := interaction.NewDeviceVariant(source, interaction.Right, world, physics.LayerContactBone)
	manager.AddController(device)

	manager.Subscribe(consoleSink{})

	if cfg.Telemetry.Enabled {
		hub := telemetry.NewHub()
		manager.Subscribe(hub)
		core.Go(hub.Run)
		core.Go(func() {
			log.Info("telemetry listening", "addr", cfg.Telemetry.Addr)
			if err := http.ListenAndServe(cfg.Telemetry.Addr, hub); err != nil {
				log.Error("telemetry server stopped", "error", err)
			}
		})
	}

	sim := &simulation{world: world, hash: hash, manager: manager, source: source}
	scheduler := engine.NewClockScheduler(sim, engine.NewMonotonicTimeProvider(), cfg.Engine.TickInterval)
	scheduler.Start()
	log.Info("simulation running", "tick_interval", cfg.Engine.TickInterval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	scheduler.Stop()
	log.Info("simulation stopped", "ticks", scheduler.TickCount())
}

// simulation composes the per-tick pipeline: integrate physics, rebuild the
// broad phase, advance the scripted input, then run the interaction core.
type simulation struct {
	world   *physics.SimWorld
	hash    *engine.SpatialHash
	manager *interaction.Manager
	source  *scriptedDevice

	elapsed time.Duration
}

func (s *simulation) FixedTick(dt time.Duration) {
	s.elapsed += dt
	s.source.advance(s.elapsed, dt)
	s.world.Step(dt)
	s.hash.Rebuild(s.world.Colliders())
	s.manager.FixedTick(dt)
}

// scriptedDevice swings toward the ball, squeezes the grip for two seconds,
// then backs off and repeats on a ten second cycle.
type scriptedDevice struct {
	pose     core.Pose
	velocity r3.Vec
	grip     float64
}

func (d *scriptedDevice) advance(elapsed, dt time.Duration) {
	t := math.Mod(elapsed.Seconds(), 10)

	// Ease in toward the ball over 4s, dwell, ease back out.
	var z float64
	switch {
	case t < 4:
		z = 0.45 * (t / 4)
	case t < 7:
		z = 0.45
	default:
		z = 0.45 * (1 - (t-7)/3)
	}

	prev := d.pose.Position
	d.pose = core.Pose{Position: r3.Vec{Z: z}, Rotation: core.IdentityPose().Rotation}
	d.velocity = r3.Scale(1/dt.Seconds(), r3.Sub(d.pose.Position, prev))

	if t > 4.5 && t < 6.5 {
		d.grip = 1
	} else {
		d.grip = 0
	}
}

func (d *scriptedDevice) Tracked() bool        { return true }
func (d *scriptedDevice) Pose() core.Pose      { return d.pose }
func (d *scriptedDevice) Velocity() r3.Vec     { return d.velocity }
func (d *scriptedDevice) GripStrength() float64 { return d.grip }

// consoleSink logs every transition event.
type consoleSink struct{}

func (consoleSink) HandleEvent(ev event.Event) {
	log.Debug("event", "type", ev.Type.String(), "object", ev.Object, "tick", ev.Tick)
}

func (consoleSink) EventTypes() []event.Type { return nil }
