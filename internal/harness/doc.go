// Package harness provides conformance testing for controller-action fields.
//
// A scenario names one or more CUE spec directories and a field declared in
// them. The harness compiles the specs, resolves the field against the
// compiled catalog, records the run in an in-memory store and checks the
// resulting items.
//
// # Scenario Format
//
//	name: exclusion
//	description: "Excluded actions are dropped"
//	specs:
//	  - ../../../../testdata/specs/flux
//	field: main
//	separator: "|"            # optional override
//	expect:                   # optional, exact item list
//	  - label: "Fake Action"
//	    reference: "Content->fake"
//	assertions:
//	  - type: contains
//	    reference: "Content->render"
//	  - type: not_contains
//	    reference: "Content->fake"
//	  - type: count
//	    count: 1
//	  - type: order
//	    references: ["Content->render", "Page->show"]
//	  - type: label_prefix
//	    reference: "Content->fakeWithRequiredArgument"
//	    prefix: "*"
//
// Spec paths are relative to the scenario file.
//
// # Deterministic Testing
//
// Run IDs come from testutil.SequentialIDGenerator and every scenario uses a
// fresh in-memory store, so golden snapshots are identical across runs.
package harness
