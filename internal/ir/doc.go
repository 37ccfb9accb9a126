// Package ir provides the plain data types shared by every fluxactions package.
//
// This package contains type definitions and a few pure helpers only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Controller and action declaration order is significant, so ActionSpec
//     is an ordered slice, never a map
//   - All JSON tags use snake_case
//   - Content hashes use RFC 8785 canonical JSON (see canonical.go)
package ir
