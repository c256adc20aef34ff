// Package api builds the resource descriptors for the HTTP surface.
//
// Each file constructs one resource: its standard capability handlers, its
// custom operations and their access policies. The registry package mounts
// the descriptors; handlers reach the store only through the handle passed
// in via server.Server.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"

	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
)

// messageResponse is the confirmation envelope for deletes and other
// operations that do not return a body.
type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondErr maps err onto the taxonomy's HTTP status and logs dependency
// failures at error level, user-correctable ones at debug.
func respondErr(log hclog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	} else {
		log.Debug("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	respondJSON(w, status, messageResponse{Message: userMessage(err, status)})
}

// userMessage strips wrapped detail from dependency failures so raw store
// errors never leak to the client.
func userMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return "service unavailable"
	}
	return err.Error()
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.E(apperr.ErrValidation, "invalid request body")
	}
	return nil
}

// pathVar returns a raw mux path variable.
func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// pathUUID parses a mux path variable as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.E(apperr.ErrValidation, "invalid %s %q", name, raw)
	}
	return id, nil
}

// storeErr translates store failures into the error taxonomy.
func storeErr(err error, format string, args ...interface{}) error {
	if models.IsNotFound(err) {
		return apperr.E(apperr.ErrNotFound, format, args...)
	}
	return fmt.Errorf("%s: %v: %w", fmt.Sprintf(format, args...), err, apperr.ErrUnavailable)
}

// validationErr wraps model validation failures so they surface as 400s.
func validationErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrValidation) {
		return err
	}
	return apperr.E(apperr.ErrValidation, "%v", err)
}
