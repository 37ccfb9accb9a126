// Package resolver turns declarative controller/action maps into ordered
// (label, reference) items an editor can select from.
//
// # Algorithm
//
// Controllers are visited in declaration order. Each controller key is
// mapped to a concrete identifier by naming convention and looked up in the
// ControllerCatalog; actions are split, checked, filtered against the
// exclusion list and expanded with their sub-actions.
//
// # Skip policy
//
// Nothing in this package returns an error. Unknown controllers, unknown
// actions, excluded actions and controllers outside the configured scope are
// skipped and the rest of the map is still resolved. Each skip is logged at
// debug level when a logger is configured (WithLogger).
//
// # Concurrency
//
// Resolver holds no mutable state. Resolve is safe for concurrent use as long
// as the catalog is (catalog.Memory is).
package resolver
