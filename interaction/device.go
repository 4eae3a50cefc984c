package interaction

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/core"
	"github.com/tangible-xr/tangible/physics"
)

// DeviceSource feeds a DeviceVariant with tracked 6DOF controller state.
type DeviceSource interface {
	Tracked() bool
	Pose() core.Pose
	Velocity() r3.Vec
	// GripStrength is the normalized grip axis in [0, 1].
	GripStrength() float64
}

const (
	deviceGripBeginStrength = 0.8
	deviceGripHoldStrength  = 0.6

	deviceBoneWidth   = 0.05
	deviceBoneMass    = 0.2
	deviceMaxGraspGap = 0.15

	// deviceGraspOffset pushes the grasp point forward of the grip pose,
	// roughly where a held object would sit.
	deviceGraspOffset = 0.06
)

var errDeviceUntracked = errors.New("interaction: device untracked, bone deferred")

// DeviceVariant is the 6DOF controller flavor: a single hover point at the
// device tip, a single contact bone, and grip-axis grasping.
type DeviceVariant struct {
	source    DeviceSource
	chirality Chirality
	factory   physics.BodyFactory
	layer     physics.Layer

	point *deviceHoverPoint
	bone  *ContactBone

	warpOffset r3.Vec
}

// NewDeviceVariant builds a device variant over the given source.
func NewDeviceVariant(source DeviceSource, chirality Chirality, factory physics.BodyFactory, boneLayer physics.Layer) *DeviceVariant {
	v := &DeviceVariant{
		source:    source,
		chirality: chirality,
		factory:   factory,
		layer:     boneLayer,
	}
	v.point = &deviceHoverPoint{device: v}
	return v
}

func (d *DeviceVariant) Kind() Kind           { return KindDevice }
func (d *DeviceVariant) Chirality() Chirality { return d.chirality }
func (d *DeviceVariant) Tracked() bool        { return d.source.Tracked() }
func (d *DeviceVariant) Velocity() r3.Vec     { return d.source.Velocity() }

func (d *DeviceVariant) QueryOrigin() (r3.Vec, bool) {
	if !d.source.Tracked() {
		return r3.Vec{}, false
	}
	return d.tip(), true
}

// tip is the device pose pushed forward along its facing axis.
func (d *DeviceVariant) tip() r3.Vec {
	pose := d.source.Pose()
	forward := core.RotateVec(pose.Rotation, r3.Vec{Z: 1})
	return r3.Add(pose.Position, r3.Scale(deviceGraspOffset, forward))
}

type deviceHoverPoint struct {
	device *DeviceVariant
}

func (p *deviceHoverPoint) Position() r3.Vec {
	return r3.Add(p.device.tip(), p.device.warpOffset)
}

func (p *deviceHoverPoint) Enabled() bool {
	return p.device.source.Tracked()
}

func (d *DeviceVariant) PrimaryHoverPoints() []HoverPoint {
	return []HoverPoint{d.point}
}

func (d *DeviceVariant) CreateContactBones() ([]*ContactBone, physics.Body, error) {
	if !d.source.Tracked() {
		return nil, nil, errDeviceUntracked
	}

	pose := d.source.Pose()
	parent := d.factory.NewBody(pose, deviceBoneMass)
	body := d.factory.NewBody(pose, deviceBoneMass)
	col := d.factory.NewSphereCollider(body, deviceBoneWidth/2, d.layer)
	d.bone = &ContactBone{
		Body:       body,
		Collider:   col,
		Width:      deviceBoneWidth,
		LastTarget: pose.Position,
	}
	return []*ContactBone{d.bone}, parent, nil
}

func (d *DeviceVariant) ContactBoneTargets(dst []core.Pose) {
	pose := d.source.Pose()
	pose.Position = r3.Add(pose.Position, d.warpOffset)
	for i := range dst {
		dst[i] = pose
	}
}

func (d *DeviceVariant) CheckGraspBegin(candidates []Interactable) (Interactable, bool) {
	if d.source.GripStrength() < deviceGripBeginStrength {
		return nil, false
	}
	point := d.GraspPoint()

	var best Interactable
	bestDist := deviceMaxGraspGap
	for _, obj := range candidates {
		if dist := obj.HoverDistance(point); dist < bestDist {
			best, bestDist = obj, dist
		}
	}
	return best, best != nil
}

func (d *DeviceVariant) CheckGraspHold(held Interactable) bool {
	return d.source.GripStrength() >= deviceGripHoldStrength
}

func (d *DeviceVariant) GraspPoint() r3.Vec {
	return d.tip()
}

func (d *DeviceVariant) UnwarpColliders(pivot r3.Vec, w Warp) {
	raw := r3.Sub(pivot, d.warpOffset)
	next := r3.Sub(w.Unwarp(raw), raw)
	delta := r3.Sub(next, d.warpOffset)
	d.warpOffset = next
	if delta == (r3.Vec{}) || d.bone == nil {
		return
	}
	pose := d.bone.Body.Pose()
	pose.Position = r3.Add(pose.Position, delta)
	d.bone.Body.SetPose(pose)
}

func (d *DeviceVariant) ClearWarp() {
	if d.warpOffset == (r3.Vec{}) {
		return
	}
	if d.bone != nil {
		pose := d.bone.Body.Pose()
		pose.Position = r3.Sub(pose.Position, d.warpOffset)
		d.bone.Body.SetPose(pose)
	}
	d.warpOffset = r3.Vec{}
}
