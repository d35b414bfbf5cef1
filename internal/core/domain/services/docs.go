// Package services contains domain services: business logic that spans several
// domain objects and does not belong to a single aggregate.
//
// OrderComposer builds an Order from requested items and the catalog products they
// resolved to, enforcing the single-seller rule.
package services
