package api

import (
	"net/http"

	"github.com/wikiforge/wiki-api/internal/auth"
	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// AttachmentCreateRequest links an already-uploaded file to an article.
type AttachmentCreateRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// AttachmentsResource builds the attachment list nested under an
// article. Only the article's author may attach files.
func AttachmentsResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("attachments")

	list := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articleID, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var article models.Article
		if err := article.Get(srv.DB.WithContext(r.Context()), articleID); err != nil {
			respondErr(log, w, r, storeErr(err, "article %s", articleID))
			return
		}
		respondJSON(w, http.StatusOK, article.Attachments)
	})

	create := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articleID, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var req AttachmentCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}
		if req.URL == "" {
			respondErr(log, w, r, apperr.E(apperr.ErrValidation, "url is required"))
			return
		}

		db := srv.DB.WithContext(r.Context())
		var article models.Article
		if err := article.Get(db, articleID); err != nil {
			respondErr(log, w, r, storeErr(err, "article %s", articleID))
			return
		}
		principal, _ := auth.PrincipalFromContext(r.Context())
		if article.UserID != nil && (principal == nil || *article.UserID != principal.UserID) {
			respondErr(log, w, r, apperr.E(apperr.ErrValidation, "only the article author can attach files"))
			return
		}

		att := models.Attachment{URL: req.URL, Filename: req.Filename}
		if err := article.AddAttachment(db, &att); err != nil {
			respondErr(log, w, r, storeErr(err, "attaching file to article %s", articleID))
			return
		}
		log.Info("added attachment", "article_id", articleID, "attachment_id", att.ID)
		respondJSON(w, http.StatusCreated, att)
	})

	return &resource.Resource{
		Name:           "attachments",
		BasePath:       "/articles/{id}/attachments",
		StandardAccess: resource.RequiresAuth,
		List:           list,
		Create:         create,
	}
}
