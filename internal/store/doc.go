// Package store provides SQLite-backed persistence for controller catalogs
// and resolution runs.
//
// The store holds:
//   - Catalog snapshots: controllers, actions, aliases and plugin registrations
//   - Resolution runs: one append-only record per resolved field
//
// # Ordering
//
// Rows carry a seq INTEGER assigned at write time. Reads order by seq, never
// by wall time, so a snapshot loads back in the order it was saved.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Params, plugin action lists and resolved items are stored as canonical JSON
// produced by ir.MarshalCanonical.
package store
