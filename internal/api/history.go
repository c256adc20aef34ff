package api

import (
	"net/http"

	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// HistoryResource builds public read access to revision snapshots,
// oldest first.
func HistoryResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("history")

	forArticle := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articleID, err := pathUUID(r, "articleId")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		records, err := models.HistoryForArticle(srv.DB.WithContext(r.Context()), articleID)
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing history for article %s", articleID))
			return
		}
		respondJSON(w, http.StatusOK, records)
	})

	detail := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		historyID, err := pathUUID(r, "historyId")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var record models.ArticleHistory
		if err := record.Get(srv.DB.WithContext(r.Context()), historyID); err != nil {
			respondErr(log, w, r, storeErr(err, "history record %s", historyID))
			return
		}
		respondJSON(w, http.StatusOK, record)
	})

	return &resource.Resource{
		Name: "history",
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/{articleId}", Access: resource.Public, Handler: forArticle},
			{Method: http.MethodGet, Pattern: "/detail/{historyId}", Access: resource.Public, Handler: detail},
		},
	}
}
