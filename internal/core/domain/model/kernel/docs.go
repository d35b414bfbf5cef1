// Package kernel provides the domain primitives shared by the order and tracking
// models.
//
// The package includes:
//   - UUID: identifier value object for orders, products and users
//   - GeoPoint: validated latitude/longitude position used for delivery destinations
//     and courier positions
//
// Both types are immutable and have invalid zero values; use their constructors.
package kernel
