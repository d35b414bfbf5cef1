package tracking

import (
	"errors"
	"math/rand/v2"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrOriginIsNotConstructed is returned when an Origin was not created via NewOrigin.
var ErrOriginIsNotConstructed = errors.New("Origin must be created via NewOrigin constructor")

// Origin is a named reference location a simulated courier departs from.
type Origin struct {
	name  string
	point kernel.GeoPoint
	guard guard.ConstructorGuard
}

// NewOrigin builds an Origin; the name must not be blank.
func NewOrigin(name string, point kernel.GeoPoint) (Origin, error) {
	var joined error
	if strings.TrimSpace(name) == "" {
		joined = errs.NewValueIsRequiredError("origin name")
	}
	if err := point.Validate(); err != nil {
		joined = errors.Join(joined, err)
	}
	if joined != nil {
		return Origin{}, joined
	}

	return Origin{name: name, point: point, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the origin was built by NewOrigin.
func (o Origin) Validate() error {
	return o.guard.Validate(ErrOriginIsNotConstructed)
}

// Name returns the city name reported with every courier position.
func (o Origin) Name() string {
	return o.name
}

// Point returns the departure position.
func (o Origin) Point() kernel.GeoPoint {
	return o.point
}

// referenceCities is the fixed pool couriers depart from.
var referenceCities = []struct {
	name     string
	lat, lng float64
}{
	{"Bengaluru", 12.9716, 77.5946},
	{"Mumbai", 19.0760, 72.8777},
	{"Delhi", 28.6139, 77.2090},
	{"Chennai", 13.0827, 80.2707},
	{"Hyderabad", 17.3850, 78.4867},
	{"Kolkata", 22.5726, 88.3639},
	{"Pune", 18.5204, 73.8567},
	{"Ahmedabad", 23.0225, 72.5714},
	{"Jaipur", 26.9124, 75.7873},
	{"Kochi", 9.9312, 76.2673},
}

// ReferenceOrigins returns the fixed pool of departure cities.
func ReferenceOrigins() []Origin {
	origins := make([]Origin, 0, len(referenceCities))
	for _, c := range referenceCities {
		point, err := kernel.NewGeoPoint(c.lat, c.lng)
		if err != nil {
			panic(err) // the table above is static
		}
		origin, err := NewOrigin(c.name, point)
		if err != nil {
			panic(err)
		}
		origins = append(origins, origin)
	}
	return origins
}

// OriginPicker chooses where a new courier departs from.
type OriginPicker interface {
	Pick() Origin
}

// OriginPickerFunc adapts a function to OriginPicker.
type OriginPickerFunc func() Origin

// Pick implements OriginPicker.
func (f OriginPickerFunc) Pick() Origin {
	return f()
}

// RandomOriginPicker picks uniformly at random from a fixed pool.
type RandomOriginPicker struct {
	origins []Origin
}

// NewRandomOriginPicker returns a picker over origins, which must not be empty.
func NewRandomOriginPicker(origins []Origin) (*RandomOriginPicker, error) {
	if len(origins) == 0 {
		return nil, errs.NewValueIsRequiredError("origins")
	}
	for _, o := range origins {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	return &RandomOriginPicker{origins: origins}, nil
}

// Pick implements OriginPicker.
func (p *RandomOriginPicker) Pick() Origin {
	return p.origins[rand.IntN(len(p.origins))] //nolint:gosec // simulation only
}
