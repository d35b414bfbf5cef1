// Package tracking models the simulated courier of an in-flight order.
//
// A Session departs from an Origin picked from a fixed pool of reference cities and
// walks toward the buyer's destination in TotalSteps equal steps. Sessions are
// ephemeral: they live in process memory only and are not resumed after a restart.
package tracking
