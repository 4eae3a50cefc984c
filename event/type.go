// Package event carries interaction state transitions from the per-tick
// core to external consumers. The queue is an MPSC ring; the router
// dispatches to handlers in registration order, which is what preserves
// the end-before-begin ordering guarantee for primary hover.
package event

import "github.com/google/uuid"

// Type enumerates interaction transition events. The core pushes edge
// transitions only; the stay/hold values (TypeHoverStay,
// TypePrimaryHoverStay, TypeContactStay, TypeGraspHold) are reserved for
// producers that relay per-tick listener callbacks onto a queue, and keep
// the wire values grouped begin/stay/end per machine.
type Type uint16

const (
	TypeNone Type = iota

	TypeHoverBegin
	TypeHoverStay
	TypeHoverEnd

	TypePrimaryHoverBegin
	TypePrimaryHoverStay
	TypePrimaryHoverEnd

	TypeContactBegin
	TypeContactStay
	TypeContactEnd

	TypeGraspBegin
	TypeGraspHold
	TypeGraspEnd

	TypeSuspensionBegin
	TypeSuspensionEnd
)

var typeNames = map[Type]string{
	TypeNone:              "none",
	TypeHoverBegin:        "hover_begin",
	TypeHoverStay:         "hover_stay",
	TypeHoverEnd:          "hover_end",
	TypePrimaryHoverBegin: "primary_hover_begin",
	TypePrimaryHoverStay:  "primary_hover_stay",
	TypePrimaryHoverEnd:   "primary_hover_end",
	TypeContactBegin:      "contact_begin",
	TypeContactStay:       "contact_stay",
	TypeContactEnd:        "contact_end",
	TypeGraspBegin:        "grasp_begin",
	TypeGraspHold:         "grasp_hold",
	TypeGraspEnd:          "grasp_end",
	TypeSuspensionBegin:   "suspension_begin",
	TypeSuspensionEnd:     "suspension_end",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Event is one interaction transition on one controller/object pair.
type Event struct {
	Type       Type
	Controller uuid.UUID
	Object     uuid.UUID // zero for controller-only events
	Tick       uint64
}
