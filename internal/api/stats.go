package api

import (
	"net/http"

	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

const statsLimit = 5

// statsOverview is the aggregate counters payload.
type statsOverview struct {
	Articles int64 `json:"articles"`
}

// StatsResource builds the public read-only statistics surface.
func StatsResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("stats")

	overview := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count, err := models.CountArticles(srv.DB.WithContext(r.Context()))
		if err != nil {
			respondErr(log, w, r, storeErr(err, "counting articles"))
			return
		}
		respondJSON(w, http.StatusOK, statsOverview{Articles: count})
	})

	topArticles := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articles, err := models.TopArticlesByViews(srv.DB.WithContext(r.Context()), statsLimit)
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing top articles"))
			return
		}
		respondJSON(w, http.StatusOK, articles)
	})

	recentChanges := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articles, err := models.RecentlyUpdatedArticles(srv.DB.WithContext(r.Context()), statsLimit)
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing recent changes"))
			return
		}
		respondJSON(w, http.StatusOK, articles)
	})

	return &resource.Resource{
		Name: "stats",
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/", Access: resource.Public, Handler: overview},
			{Method: http.MethodGet, Pattern: "/top-articles", Access: resource.Public, Handler: topArticles},
			{Method: http.MethodGet, Pattern: "/recent-changes", Access: resource.Public, Handler: recentChanges},
		},
	}
}
