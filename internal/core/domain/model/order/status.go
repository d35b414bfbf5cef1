package order

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// ErrStatusIsFinal is the cause attached when a transition away from a terminal status
// is attempted.
var ErrStatusIsFinal = errors.New("order status is final")

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	           ┌──> Confirmed ──┬──> Delivered
//	Pending ───┤       ▲  │     │
//	           │       └──┘     └──> Rejected
//	           ├──> Rejected
//	           └──> Delivered
//
// A seller may move a non-terminal order to any of Confirmed, Rejected or Delivered.
// Rejected and Delivered are terminal: no transition leaves them. Pending is only
// ever assigned at creation.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every placed order.
	Pending

	// Confirmed indicates the seller accepted the order; the order is in flight.
	Confirmed

	// Rejected indicates the seller declined the order. Terminal.
	Rejected

	// Delivered indicates the order reached the buyer. Terminal.
	Delivered
)

// getStatusStrings returns the wire names of all statuses, used in persistence,
// HTTP payloads and pub/sub events.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Confirmed: "CONFIRMED",
		Rejected:  "REJECTED",
		Delivered: "DELIVERED",
	}
}

// ParseStatus converts a wire name into a Status. Matching is case-insensitive and
// ignores surrounding whitespace.
//
// Returns:
//   - the matching Status
//   - a ValueIsInvalidError for any name that is not one of the four lifecycle states
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks that the Status is one of the four lifecycle states.
func (s Status) Validate() error {
	if s < Pending || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "UNKNOWN" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return getStatusStrings()[Unknown]
}

// IsTerminal reports whether no transition may leave this status.
func (s Status) IsTerminal() bool {
	return s == Rejected || s == Delivered
}

// ValidateTarget checks that s may be requested by a seller as a new status.
// Only Confirmed, Rejected and Delivered are accepted; Pending is reserved for creation.
func (s Status) ValidateTarget() error {
	if s != Confirmed && s != Rejected && s != Delivered {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid target status", s.String()),
		)
	}
	return nil
}

// TransitionTo returns target if the order may move from s to target.
//
// Rules:
//   - target must pass ValidateTarget
//   - s must be a valid, non-terminal status
//
// Repeating the current status (Confirmed -> Confirmed) is allowed.
//
// Example:
//
//	next, err := order.Pending.TransitionTo(order.Confirmed) // Confirmed, nil
//	_, err = order.Delivered.TransitionTo(order.Rejected)     // error wrapping ErrStatusIsFinal
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.ValidateTarget(); err != nil {
		return Unknown, err
	}

	if err := s.Validate(); err != nil {
		return Unknown, err
	}

	if s.IsTerminal() {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot move from %s to %s: %w", s, target, ErrStatusIsFinal),
		)
	}

	return target, nil
}
