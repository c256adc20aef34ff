package api

import (
	"net/http"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"

	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// SearchResource builds the advanced article search. Filters combine
// with AND; an empty query returns everything.
func SearchResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("search")

	advanced := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := models.ArticleFilter{TitleContains: q.Get("title")}

		if raw := q.Get("tag"); raw != "" {
			tagID, err := uuid.Parse(raw)
			if err != nil {
				respondErr(log, w, r, apperr.E(apperr.ErrValidation, "invalid tag %q", raw))
				return
			}
			filter.TagID = &tagID
		}
		if raw := q.Get("createdFrom"); raw != "" {
			t, err := dateparse.ParseAny(raw)
			if err != nil {
				respondErr(log, w, r, apperr.E(apperr.ErrValidation, "invalid createdFrom %q", raw))
				return
			}
			filter.CreatedFrom = &t
		}
		if raw := q.Get("createdTo"); raw != "" {
			t, err := dateparse.ParseAny(raw)
			if err != nil {
				respondErr(log, w, r, apperr.E(apperr.ErrValidation, "invalid createdTo %q", raw))
				return
			}
			filter.CreatedTo = &t
		}

		articles, err := models.SearchArticles(srv.DB.WithContext(r.Context()), filter)
		if err != nil {
			respondErr(log, w, r, storeErr(err, "searching articles"))
			return
		}
		respondJSON(w, http.StatusOK, articles)
	})

	return &resource.Resource{
		Name: "search",
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/advanced", Access: resource.Public, Handler: advanced},
		},
	}
}
