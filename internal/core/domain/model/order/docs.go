// Package order provides the Order aggregate of the marketplace: a buyer's purchase
// of one or more line items from a single seller, tracked through a fixed status
// lifecycle.
//
// The package includes:
//   - Order: the aggregate root holding parties, line items, total and status
//   - LineItem: a product position with an immutable unit price snapshot
//   - Status: the lifecycle state machine
//
// Key business rules:
//   - Orders are created Pending with a total computed once from their items
//   - Only the order's seller may change its status
//   - Sellers may set Confirmed, Rejected or Delivered on a non-terminal order
//   - Rejected and Delivered are terminal
package order
