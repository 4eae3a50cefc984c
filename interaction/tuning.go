package interaction

import (
	"time"

	"github.com/tangible-xr/tangible/parameter"
)

// Tuning collects the numeric knobs of the interaction core. Defaults come
// from the parameter package; the orchestrator may override them at
// construction and retune the activation radii live every tick.
type Tuning struct {
	// Broad-phase activation radii.
	HoverActivationRadius float64
	GraspActivationRadius float64

	// Primary-hover hysteresis curve and incumbent lock.
	HysteresisDomainMin      float64
	HysteresisDomainMax      float64
	HysteresisRangeMin       float64
	HysteresisRangeMax       float64
	PrimaryHoverLockDistance float64

	// Contact driver.
	DeadzoneWidthFraction    float64
	BoneVelocityMax          float64
	SoftContactErrorFraction float64
	SoftContactSpeedGate     float64
	SoftContactSphereRadius  float64
	SoftContactDisableDelay  time.Duration
}

// DefaultTuning returns the package defaults.
func DefaultTuning() Tuning {
	return Tuning{
		HoverActivationRadius:    parameter.HoverActivationRadius,
		GraspActivationRadius:    parameter.GraspActivationRadius,
		HysteresisDomainMin:      parameter.HysteresisDomainMin,
		HysteresisDomainMax:      parameter.HysteresisDomainMax,
		HysteresisRangeMin:       parameter.HysteresisRangeMin,
		HysteresisRangeMax:       parameter.HysteresisRangeMax,
		PrimaryHoverLockDistance: parameter.PrimaryHoverLockDistance,
		DeadzoneWidthFraction:    parameter.DeadzoneWidthFraction,
		BoneVelocityMax:          parameter.BoneVelocityMax,
		SoftContactErrorFraction: parameter.SoftContactErrorFraction,
		SoftContactSpeedGate:     parameter.SoftContactSpeedGate,
		SoftContactSphereRadius:  parameter.SoftContactSphereRadius,
		SoftContactDisableDelay:  parameter.SoftContactDisableDelay,
	}
}
