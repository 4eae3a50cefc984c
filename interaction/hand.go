package interaction

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/core"
	"github.com/tangible-xr/tangible/physics"
)

// HandSource feeds a HandVariant with tracked skeletal data. Implementations
// wrap whatever tracking runtime is in use.
type HandSource interface {
	Tracked() bool
	// Palm is the tracked palm pose.
	Palm() core.Pose
	Velocity() r3.Vec
	// Fingertips returns the tracked fingertip positions, thumb first. The
	// slice length must stay constant across ticks.
	Fingertips() []r3.Vec
	// PinchStrength is the normalized thumb-to-index pinch in [0, 1].
	PinchStrength() float64
}

// Pinch thresholds for the grasp hooks, hysteretic so a held pinch does not
// chatter at the boundary.
const (
	handPinchBeginStrength = 0.85
	handPinchHoldStrength  = 0.65

	handBoneWidth   = 0.018
	handBoneMass    = 0.1
	handMaxGraspGap = 0.1
)

var errHandUntracked = errors.New("interaction: hand untracked, bones deferred")

// HandVariant is the tracked-hand controller flavor: one hover point per
// fingertip, one contact bone per fingertip plus the palm, and pinch-driven
// grasping.
type HandVariant struct {
	source    HandSource
	chirality Chirality
	factory   physics.BodyFactory
	layer     physics.Layer

	points []*handHoverPoint
	bones  []*ContactBone

	// warpOffset is the displacement applied by the last unwarp, refreshed
	// whenever the primary hover pivot moves.
	warpOffset r3.Vec
}

// NewHandVariant builds a hand variant over the given source. Contact bones
// are created lazily once tracking is available.
func NewHandVariant(source HandSource, chirality Chirality, factory physics.BodyFactory, boneLayer physics.Layer) *HandVariant {
	return &HandVariant{
		source:    source,
		chirality: chirality,
		factory:   factory,
		layer:     boneLayer,
	}
}

func (h *HandVariant) Kind() Kind           { return KindHand }
func (h *HandVariant) Chirality() Chirality { return h.chirality }
func (h *HandVariant) Tracked() bool        { return h.source.Tracked() }
func (h *HandVariant) Velocity() r3.Vec     { return h.source.Velocity() }

func (h *HandVariant) QueryOrigin() (r3.Vec, bool) {
	if !h.source.Tracked() {
		return r3.Vec{}, false
	}
	return h.source.Palm().Position, true
}

type handHoverPoint struct {
	hand *HandVariant
	idx  int
}

func (p *handHoverPoint) Position() r3.Vec {
	tips := p.hand.source.Fingertips()
	if p.idx >= len(tips) {
		return r3.Vec{}
	}
	return r3.Add(tips[p.idx], p.hand.warpOffset)
}

func (p *handHoverPoint) Enabled() bool {
	return p.hand.source.Tracked() && p.idx < len(p.hand.source.Fingertips())
}

func (h *HandVariant) PrimaryHoverPoints() []HoverPoint {
	if h.points == nil {
		n := len(h.source.Fingertips())
		if n == 0 {
			n = 5
		}
		h.points = make([]*handHoverPoint, n)
		for i := range h.points {
			h.points[i] = &handHoverPoint{hand: h, idx: i}
		}
	}
	out := make([]HoverPoint, len(h.points))
	for i, p := range h.points {
		out[i] = p
	}
	return out
}

// CreateContactBones builds one bone per fingertip plus a palm bone. It
// fails while untracked so the caller retries next tick.
func (h *HandVariant) CreateContactBones() ([]*ContactBone, physics.Body, error) {
	if !h.source.Tracked() {
		return nil, nil, errHandUntracked
	}

	palm := h.source.Palm()
	parent := h.factory.NewBody(palm, handBoneMass)

	tips := h.source.Fingertips()
	h.bones = make([]*ContactBone, 0, len(tips)+1)
	for _, tip := range tips {
		h.bones = append(h.bones, h.newBone(core.Pose{Position: tip, Rotation: palm.Rotation}, handBoneWidth))
	}
	// Palm bone is wider than a fingertip.
	h.bones = append(h.bones, h.newBone(palm, handBoneWidth*3))

	return h.bones, parent, nil
}

func (h *HandVariant) newBone(pose core.Pose, width float64) *ContactBone {
	body := h.factory.NewBody(pose, handBoneMass)
	col := h.factory.NewSphereCollider(body, width/2, h.layer)
	return &ContactBone{
		Body:       body,
		Collider:   col,
		Width:      width,
		LastTarget: pose.Position,
	}
}

func (h *HandVariant) ContactBoneTargets(dst []core.Pose) {
	palm := h.source.Palm()
	tips := h.source.Fingertips()
	for i := range dst {
		if i < len(tips) {
			dst[i] = core.Pose{Position: r3.Add(tips[i], h.warpOffset), Rotation: palm.Rotation}
			continue
		}
		dst[i] = core.Pose{Position: r3.Add(palm.Position, h.warpOffset), Rotation: palm.Rotation}
	}
}

// CheckGraspBegin starts a grasp when the pinch closes near a candidate.
func (h *HandVariant) CheckGraspBegin(candidates []Interactable) (Interactable, bool) {
	if h.source.PinchStrength() < handPinchBeginStrength {
		return nil, false
	}
	point := h.GraspPoint()

	var best Interactable
	bestDist := handMaxGraspGap
	for _, obj := range candidates {
		if d := obj.HoverDistance(point); d < bestDist {
			best, bestDist = obj, d
		}
	}
	return best, best != nil
}

func (h *HandVariant) CheckGraspHold(held Interactable) bool {
	return h.source.PinchStrength() >= handPinchHoldStrength
}

// GraspPoint is the midpoint of thumb and index fingertips, falling back to
// the palm for degenerate skeletons.
func (h *HandVariant) GraspPoint() r3.Vec {
	tips := h.source.Fingertips()
	if len(tips) < 2 {
		return h.source.Palm().Position
	}
	return r3.Scale(0.5, r3.Add(tips[0], tips[1]))
}

// UnwarpColliders shifts every bone by the pivot's warp displacement so the
// physical hand follows the visually warped space. The offset is derived
// from the raw pivot and bones move only by its change since the last call.
func (h *HandVariant) UnwarpColliders(pivot r3.Vec, w Warp) {
	raw := r3.Sub(pivot, h.warpOffset)
	next := r3.Sub(w.Unwarp(raw), raw)
	delta := r3.Sub(next, h.warpOffset)
	h.warpOffset = next
	if delta == (r3.Vec{}) {
		return
	}
	for _, bone := range h.bones {
		pose := bone.Body.Pose()
		pose.Position = r3.Add(pose.Position, delta)
		bone.Body.SetPose(pose)
	}
}

// ClearWarp undoes the active displacement and returns the bones to the
// tracked skeleton's space.
func (h *HandVariant) ClearWarp() {
	if h.warpOffset == (r3.Vec{}) {
		return
	}
	for _, bone := range h.bones {
		pose := bone.Body.Pose()
		pose.Position = r3.Sub(pose.Position, h.warpOffset)
		bone.Body.SetPose(pose)
	}
	h.warpOffset = r3.Vec{}
}
