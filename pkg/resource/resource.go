// Package resource defines the descriptor that wires a resource controller
// into the HTTP surface.
//
// Each resource package builds one Resource value listing its standard
// capability handlers (any subset of list/create/read/update/delete) and its
// custom operations. The registry package mounts the descriptors; it never
// touches the store, so a descriptor is the only coupling between a resource
// and the router.
package resource

import "net/http"

// AccessPolicy controls whether the auth gate runs before a binding.
type AccessPolicy int

const (
	// Public bindings run without authentication.
	Public AccessPolicy = iota

	// RequiresAuth bindings run behind the auth gate; the gate
	// short-circuits with 401 before the handler executes.
	RequiresAuth
)

func (p AccessPolicy) String() string {
	if p == RequiresAuth {
		return "requires-auth"
	}
	return "public"
}

// Operation is a custom binding relative to the resource base path, e.g.
// POST /{id}/publish. Access is decided per operation, independent of the
// resource-level StandardAccess, so a resource can mix public reads with
// authenticated writes.
type Operation struct {
	Method  string
	Pattern string // relative to the base path, gorilla/mux syntax
	Access  AccessPolicy
	Handler http.Handler
}

// Resource describes one controller to the route assembler.
//
// Standard capability handlers are optional; only non-nil handlers are
// bound, so a resource may be read-only or expose custom operations alone.
// StandardAccess applies to every standard binding of the resource.
type Resource struct {
	// Name identifies the resource. When BasePath is empty the base path
	// is derived from it (kebab-cased, lower-cased).
	Name string

	// BasePath overrides the derived base path. Must be unique across all
	// registered resources; URL-segment syntax, may contain mux variables
	// (e.g. "/articles/{articleId}/comments").
	BasePath string

	// StandardAccess is the access policy for all standard capability
	// bindings below.
	StandardAccess AccessPolicy

	List   http.Handler // GET    /
	Create http.Handler // POST   /
	Read   http.Handler // GET    /{id}
	Update http.Handler // PUT    /{id}
	Delete http.Handler // DELETE /{id}

	// Custom operations are registered before the standard bindings, in
	// slice order. First-registered wins on an exact verb+pattern
	// collision.
	Custom []Operation
}
