// Package catalog describes which controllers and actions exist.
//
// The resolver never inspects code. It asks a ControllerCatalog whether a
// controller identifier exists and what its actions look like. Memory is the
// in-process implementation; store.Store persists and reloads one.
package catalog

// ActionMetadata is what the resolver needs to know about one action.
type ActionMetadata struct {
	// HumanName is the annotated short description. Empty means none.
	HumanName string
	// RequiresArgument is true when at least one parameter has no default.
	RequiresArgument bool
}

// ControllerCatalog answers existence and metadata questions.
// Implementations must be safe for concurrent reads.
type ControllerCatalog interface {
	Exists(controllerID string) bool
	HasAction(controllerID, action string) bool
	// ActionMetadata returns the zero value for unknown actions.
	ActionMetadata(controllerID, action string) ActionMetadata
}

// Revisioned is implemented by catalogs that can change after construction.
// Revision increases on every mutation.
type Revisioned interface {
	Revision() uint64
}
