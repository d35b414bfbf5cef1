package tracking

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// TotalSteps is the number of position updates of every tracking session.
const TotalSteps = 15

var (
	// ErrSessionIsNotConstructed is returned when a Session was not created via NewSession.
	ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession constructor")
	// ErrSessionIsDelivered is returned by Advance once the final step was emitted.
	ErrSessionIsDelivered = errors.New("tracking session already delivered")
)

// Session simulates a courier moving in a straight line from an origin city to the
// delivery destination in a fixed number of equal steps.
//
// Lifecycle:
//
//	active (0 ≤ step < totalSteps) ──Advance──> ... ──Advance──> delivered (step == totalSteps)
//
// Each Advance moves the position by one step delta, (destination − origin) / totalSteps.
// The final Advance lands exactly on the destination so accumulated floating point
// error never leaks into the last reported position.
//
// Session is not safe for concurrent use; the tracking registry serializes access.
type Session struct {
	orderID     kernel.UUID
	origin      Origin
	destination kernel.GeoPoint

	lat, lng         float64
	latStep, lngStep float64

	step       int
	totalSteps int

	isConstructed bool
}

// Position is one emitted courier position.
type Position struct {
	OrderID kernel.UUID
	Point   kernel.GeoPoint
	City    string
	// Step is 1-based: the first emitted position has Step 1.
	Step int
	// Final is true for the position that reaches the destination.
	Final bool
}

// NewSession validates inputs and computes the step deltas.
//
// Parameters:
//   - orderID: the tracked order
//   - origin: departure city
//   - destination: delivery point
//   - totalSteps: number of steps, must be positive (TotalSteps in production)
func NewSession(orderID kernel.UUID, origin Origin, destination kernel.GeoPoint, totalSteps int) (*Session, error) {
	var joined error
	if err := orderID.Validate(); err != nil {
		joined = errors.Join(joined, err)
	}
	if err := origin.Validate(); err != nil {
		joined = errors.Join(joined, err)
	}
	if err := destination.Validate(); err != nil {
		joined = errors.Join(joined, err)
	}
	if totalSteps < 1 {
		joined = errors.Join(joined, errs.NewValueIsInvalidErrorWithCause(
			"total steps", fmt.Errorf("%d is not greater than 0", totalSteps)))
	}
	if joined != nil {
		return nil, joined
	}

	start := origin.Point()
	return &Session{
		orderID:       orderID,
		origin:        origin,
		destination:   destination,
		lat:           start.Lat(),
		lng:           start.Lng(),
		latStep:       (destination.Lat() - start.Lat()) / float64(totalSteps),
		lngStep:       (destination.Lng() - start.Lng()) / float64(totalSteps),
		totalSteps:    totalSteps,
		isConstructed: true,
	}, nil
}

// Validate ensures the session was built by NewSession.
func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

// OrderID returns the tracked order.
func (s *Session) OrderID() kernel.UUID { return s.orderID }

// Origin returns the departure city.
func (s *Session) Origin() Origin { return s.origin }

// Destination returns the delivery point.
func (s *Session) Destination() kernel.GeoPoint { return s.destination }

// Step returns how many positions were emitted so far.
func (s *Session) Step() int { return s.step }

// TotalSteps returns the number of positions the session emits in total.
func (s *Session) TotalSteps() int { return s.totalSteps }

// Delta returns the per-step latitude and longitude increments.
func (s *Session) Delta() (float64, float64) { return s.latStep, s.lngStep }

// IsDelivered reports whether the final position was emitted.
func (s *Session) IsDelivered() bool { return s.step >= s.totalSteps }

// Advance moves the courier by one step and returns the new position.
// It returns ErrSessionIsDelivered once all steps were taken.
func (s *Session) Advance() (Position, error) {
	if err := s.Validate(); err != nil {
		return Position{}, err
	}
	if s.IsDelivered() {
		return Position{}, ErrSessionIsDelivered
	}

	s.step++
	if s.step == s.totalSteps {
		s.lat, s.lng = s.destination.Lat(), s.destination.Lng()
	} else {
		s.lat += s.latStep
		s.lng += s.lngStep
	}

	point, err := kernel.NewGeoPoint(s.lat, s.lng)
	if err != nil {
		return Position{}, err
	}

	return Position{
		OrderID: s.orderID,
		Point:   point,
		City:    s.origin.Name(),
		Step:    s.step,
		Final:   s.IsDelivered(),
	}, nil
}
