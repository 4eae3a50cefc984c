package parameter

import "time"

// Hover resolution tuning.
//
// The hysteresis curve maps the incumbent primary-hover distance through
// [HysteresisDomainMin, HysteresisDomainMax] -> [HysteresisRangeMin,
// HysteresisRangeMax]; values outside the domain clamp to the endpoints.
// The result scales the incumbent distance to produce the maximum distance
// at which a challenger may steal primary hover. These endpoints are tuning
// values preserved from long-lived defaults, not derived constants.
const (
	HysteresisDomainMin = 0.009
	HysteresisDomainMax = 0.018
	HysteresisRangeMin  = 0.4
	HysteresisRangeMax  = 0.95

	// PrimaryHoverLockDistance locks the incumbent outright: below this
	// distance no challenger can take primary hover until the incumbent
	// leaves the hovered set.
	PrimaryHoverLockDistance = 0.008
)

// Contact driver tuning.
const (
	// DeadzoneWidthFraction scales a bone's width into its positional
	// dead zone; within it the bone's velocity is zeroed.
	DeadzoneWidthFraction = 0.1

	// Mass scaling bounds for the error-fraction term and the speed term.
	MassScaleErrorMin = 0.1
	MassScaleErrorMax = 1.0
	MassScaleSpeedMin = 1.0
	MassScaleSpeedMax = 10.0

	// BoneVelocityMax clamps the corrective velocity magnitude (m/s).
	BoneVelocityMax = 100.0

	// Soft contact engages when a bone's position error exceeds
	// SoftContactErrorFraction bone-widths while the controller moves
	// slower than SoftContactSpeedGate (m/s).
	SoftContactErrorFraction = 3.0
	SoftContactSpeedGate     = 1.5

	// SoftContactSphereRadius is the synthesized contact sphere radius (m).
	SoftContactSphereRadius = 0.04
)

// SoftContactDisableDelay debounces soft-contact disable against the
// real-time clock; renewed intersection before expiry cancels the disable.
const SoftContactDisableDelay = 300 * time.Millisecond

// Activity query defaults.
const (
	// GraspActivationRadius is intentionally a fixed default distinct from
	// the configurable hover activation radius.
	GraspActivationRadius = 1.0

	// HoverActivationRadius is the default broad-phase hover radius; the
	// orchestrator may override it live every tick.
	HoverActivationRadius = 0.2
)
