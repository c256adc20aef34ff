package api

import (
	"net/http"

	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// SectionRequest carries the section name for create and rename.
type SectionRequest struct {
	Name string `json:"name"`
}

// SectionsResource builds the sections resource. Same access shape as
// articles: public reads, auth-gated writes.
func SectionsResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("sections")

	list := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sections, err := models.AllSections(srv.DB.WithContext(r.Context()))
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing sections"))
			return
		}
		respondJSON(w, http.StatusOK, sections)
	})

	read := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var section models.Section
		if err := section.Get(srv.DB.WithContext(r.Context()), id); err != nil {
			respondErr(log, w, r, storeErr(err, "section %s", id))
			return
		}
		respondJSON(w, http.StatusOK, section)
	})

	create := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SectionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}
		section := models.Section{Name: req.Name}
		if err := section.Create(srv.DB.WithContext(r.Context())); err != nil {
			respondErr(log, w, r, validationErr(err))
			return
		}
		log.Info("created section", "section_id", section.ID)
		respondJSON(w, http.StatusCreated, section)
	})

	update := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var req SectionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}
		db := srv.DB.WithContext(r.Context())
		var section models.Section
		if err := section.Get(db, id); err != nil {
			respondErr(log, w, r, storeErr(err, "section %s", id))
			return
		}
		if err := section.Rename(db, req.Name); err != nil {
			respondErr(log, w, r, validationErr(err))
			return
		}
		respondJSON(w, http.StatusOK, section)
	})

	del := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var section models.Section
		if err := section.Delete(srv.DB.WithContext(r.Context()), id); err != nil {
			respondErr(log, w, r, storeErr(err, "section %s", id))
			return
		}
		log.Info("deleted section", "section_id", id)
		respondJSON(w, http.StatusOK, messageResponse{Message: "section removed"})
	})

	return &resource.Resource{
		Name:           "sections",
		StandardAccess: resource.RequiresAuth,
		List:           list,
		Create:         create,
		Read:           read,
		Update:         update,
		Delete:         del,
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/", Access: resource.Public, Handler: list},
			{Method: http.MethodGet, Pattern: "/{id}", Access: resource.Public, Handler: read},
		},
	}
}
