// Package registry assembles resource descriptors into the mounted HTTP
// surface under the /api prefix.
//
// Mount is called exactly once at process startup. All descriptors are
// validated before anything is bound, so a configuration error (duplicate
// base path, missing auth wiring) leaves no partial API surface behind.
//
// Registration order is a visible contract: custom operations are bound
// before the standard capabilities of their resource, and resources are
// bound in enumeration order. gorilla/mux matches routes in registration
// order, so first-registered wins on an exact verb+pattern collision.
package registry

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"

	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// APIPrefix is the common prefix all resources are mounted under.
const APIPrefix = "/api"

// Gate wraps a handler so authentication runs first and short-circuits
// before the handler on failure.
type Gate interface {
	Wrap(next http.Handler) http.Handler
}

// standardBinding pairs a capability with its fixed verb and sub-path.
type standardBinding struct {
	name    string
	method  string
	pattern string
	handler func(*resource.Resource) http.Handler
}

var standardBindings = []standardBinding{
	{"list", http.MethodGet, "/", func(r *resource.Resource) http.Handler { return r.List }},
	{"create", http.MethodPost, "/", func(r *resource.Resource) http.Handler { return r.Create }},
	{"read", http.MethodGet, "/{id}", func(r *resource.Resource) http.Handler { return r.Read }},
	{"update", http.MethodPut, "/{id}", func(r *resource.Resource) http.Handler { return r.Update }},
	{"delete", http.MethodDelete, "/{id}", func(r *resource.Resource) http.Handler { return r.Delete }},
}

// Mount validates all descriptors and binds them onto router under
// APIPrefix. On a configuration error nothing is mounted and the returned
// error matches apperr.ErrConfiguration; callers treat it as fatal.
func Mount(router *mux.Router, gate Gate, log hclog.Logger, resources ...*resource.Resource) error {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	paths, err := validate(gate, resources)
	if err != nil {
		return err
	}

	api := router.PathPrefix(APIPrefix).Subrouter()
	api.StrictSlash(true)

	for i, res := range resources {
		base := paths[i]

		// Custom operations first. Within the original surface this is
		// what lets GET /{id}/revisions win over the standard GET /{id}.
		for _, op := range res.Custom {
			h := op.Handler
			if op.Access == resource.RequiresAuth {
				h = gate.Wrap(h)
			}
			api.Handle(join(base, op.Pattern), h).Methods(op.Method)
			log.Debug("registered custom operation",
				"resource", res.Name,
				"method", op.Method,
				"path", join(base, op.Pattern),
				"access", op.Access.String(),
			)
		}

		for _, b := range standardBindings {
			h := b.handler(res)
			if h == nil {
				continue
			}
			if res.StandardAccess == resource.RequiresAuth {
				h = gate.Wrap(h)
			}
			api.Handle(join(base, b.pattern), h).Methods(b.method)
			log.Debug("registered standard capability",
				"resource", res.Name,
				"capability", b.name,
				"method", b.method,
				"path", join(base, b.pattern),
				"access", res.StandardAccess.String(),
			)
		}

		log.Info("mounted resource",
			"resource", res.Name,
			"base_path", APIPrefix+base,
			"custom_operations", len(res.Custom),
		)
	}

	return nil
}

// validate resolves every base path and collects all configuration errors
// before anything is bound. Returns the resolved base path per resource.
func validate(gate Gate, resources []*resource.Resource) ([]string, error) {
	var result *multierror.Error

	paths := make([]string, len(resources))
	seen := make(map[string]string, len(resources))

	for i, res := range resources {
		if res.Name == "" && res.BasePath == "" {
			result = multierror.Append(result, fmt.Errorf(
				"resource %d has neither a name nor a base path", i))
			continue
		}

		base := BasePath(res)
		paths[i] = base

		if prev, ok := seen[base]; ok {
			result = multierror.Append(result, fmt.Errorf(
				"duplicate base path %q (resources %q and %q)", base, prev, res.Name))
		} else {
			seen[base] = res.Name
		}

		if gate == nil && needsGate(res) {
			result = multierror.Append(result, fmt.Errorf(
				"resource %q requires authentication but no gate is wired", res.Name))
		}

		for _, op := range res.Custom {
			if op.Handler == nil {
				result = multierror.Append(result, fmt.Errorf(
					"resource %q: custom operation %s %s has no handler",
					res.Name, op.Method, op.Pattern))
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, apperr.E(apperr.ErrConfiguration, "resource registration failed: %v", err)
	}
	return paths, nil
}

// BasePath resolves the base path of a descriptor: the explicit value if
// supplied, else the kebab-cased, lower-cased resource name.
func BasePath(res *resource.Resource) string {
	if res.BasePath != "" {
		return res.BasePath
	}
	return "/" + strings.ToLower(strcase.ToKebab(res.Name))
}

func needsGate(res *resource.Resource) bool {
	if res.StandardAccess == resource.RequiresAuth {
		for _, b := range standardBindings {
			if b.handler(res) != nil {
				return true
			}
		}
	}
	for _, op := range res.Custom {
		if op.Access == resource.RequiresAuth {
			return true
		}
	}
	return false
}

// join glues a sub-path pattern onto a base path without doubling slashes.
// A bare "/" pattern binds the base path itself.
func join(base, pattern string) string {
	if pattern == "" || pattern == "/" {
		return base
	}
	return base + pattern
}
