package api

import (
	"net/http"

	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// TagRequest carries the tag name for create and rename.
type TagRequest struct {
	Name string `json:"name"`
}

// TagsResource builds the tags resource. The tag name is unique; a
// duplicate create surfaces as a validation failure rather than a
// dependency error.
func TagsResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("tags")

	list := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tags, err := models.AllTags(srv.DB.WithContext(r.Context()))
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing tags"))
			return
		}
		respondJSON(w, http.StatusOK, tags)
	})

	read := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var tag models.Tag
		if err := tag.Get(srv.DB.WithContext(r.Context()), id); err != nil {
			respondErr(log, w, r, storeErr(err, "tag %s", id))
			return
		}
		respondJSON(w, http.StatusOK, tag)
	})

	create := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req TagRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}
		tag := models.Tag{Name: req.Name}
		if err := tag.Create(srv.DB.WithContext(r.Context())); err != nil {
			if models.IsUniqueViolation(err) {
				respondErr(log, w, r, apperr.E(apperr.ErrValidation, "tag %q already exists", req.Name))
				return
			}
			respondErr(log, w, r, validationErr(err))
			return
		}
		log.Info("created tag", "tag_id", tag.ID, "name", tag.Name)
		respondJSON(w, http.StatusCreated, tag)
	})

	update := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var req TagRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}
		db := srv.DB.WithContext(r.Context())
		var tag models.Tag
		if err := tag.Get(db, id); err != nil {
			respondErr(log, w, r, storeErr(err, "tag %s", id))
			return
		}
		if err := tag.Rename(db, req.Name); err != nil {
			if models.IsUniqueViolation(err) {
				respondErr(log, w, r, apperr.E(apperr.ErrValidation, "tag %q already exists", req.Name))
				return
			}
			respondErr(log, w, r, validationErr(err))
			return
		}
		respondJSON(w, http.StatusOK, tag)
	})

	del := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var tag models.Tag
		if err := tag.Delete(srv.DB.WithContext(r.Context()), id); err != nil {
			respondErr(log, w, r, storeErr(err, "tag %s", id))
			return
		}
		log.Info("deleted tag", "tag_id", id)
		respondJSON(w, http.StatusOK, messageResponse{Message: "tag removed"})
	})

	return &resource.Resource{
		Name:           "tags",
		StandardAccess: resource.RequiresAuth,
		List:           list,
		Create:         create,
		Read:           read,
		Update:         update,
		Delete:         del,
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/", Access: resource.Public, Handler: list},
			{Method: http.MethodPost, Pattern: "/", Access: resource.RequiresAuth, Handler: create},
			{Method: http.MethodGet, Pattern: "/{id}", Access: resource.Public, Handler: read},
		},
	}
}
