package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/wikiforge/wiki-api/internal/auth"
	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/internal/versioning"
	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// ArticleCreateRequest is the create payload. Title and content are
// required; status defaults to draft.
type ArticleCreateRequest struct {
	Title       string                     `json:"title"`
	Content     string                     `json:"content"`
	SectionID   *uuid.UUID                 `json:"sectionId,omitempty"`
	Tags        []uuid.UUID                `json:"tags,omitempty"`
	Attachments []ArticleAttachmentRequest `json:"attachments,omitempty"`
	Status      string                     `json:"status,omitempty"`
}

// ArticleAttachmentRequest is an attachment reference supplied inline.
type ArticleAttachmentRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ArticlePatchRequest contains the article fields that may be updated.
// Only non-nil fields are applied; everything else is left untouched.
type ArticlePatchRequest struct {
	Title     *string      `json:"title,omitempty"`
	Content   *string      `json:"content,omitempty"`
	SectionID *uuid.UUID   `json:"sectionId,omitempty"`
	Tags      *[]uuid.UUID `json:"tags,omitempty"`
	Status    *string      `json:"status,omitempty"`
}

// restoreResponse wraps restore/draft/publish confirmations.
type articleResponse struct {
	Message string          `json:"message"`
	Article *models.Article `json:"article"`
}

// ArticlesResource builds the articles resource.
//
// Reads are public, writes require authentication. The public list/read
// bindings are registered as custom operations ahead of the auth-gated
// standard bindings, so on the shared GET / and GET /{id} patterns the
// public handlers win by registration order.
func ArticlesResource(srv server.Server, engine *versioning.Engine) *resource.Resource {
	log := srv.Logger.Named("articles")

	list := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articles, err := models.AllArticles(srv.DB.WithContext(r.Context()))
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing articles"))
			return
		}
		respondJSON(w, http.StatusOK, articles)
	})

	read := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var article models.Article
		if err := article.Get(srv.DB.WithContext(r.Context()), id); err != nil {
			respondErr(log, w, r, storeErr(err, "article %s", id))
			return
		}
		respondJSON(w, http.StatusOK, article)
	})

	create := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ArticleCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}

		db := srv.DB.WithContext(r.Context())
		tags, err := models.TagsByIDs(db, req.Tags)
		if err != nil {
			respondErr(log, w, r, storeErr(err, "resolving tags"))
			return
		}

		article := models.Article{
			Title:     req.Title,
			Content:   req.Content,
			SectionID: req.SectionID,
			Tags:      tags,
			Status:    req.Status,
		}
		if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
			article.UserID = &principal.UserID
		}
		for _, att := range req.Attachments {
			article.Attachments = append(article.Attachments, models.Attachment{
				URL:      att.URL,
				Filename: att.Filename,
			})
		}

		if err := article.Create(db); err != nil {
			respondErr(log, w, r, validationErr(err))
			return
		}
		log.Info("created article", "article_id", article.ID, "status", article.Status)
		respondJSON(w, http.StatusCreated, article)
	})

	update := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var req ArticlePatchRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}

		upd := versioning.ArticleUpdate{Fields: map[string]interface{}{}}
		if req.Title != nil {
			upd.Fields["title"] = *req.Title
		}
		if req.Content != nil {
			upd.Fields["content"] = *req.Content
		}
		if req.SectionID != nil {
			upd.Fields["section_id"] = *req.SectionID
		}
		if req.Status != nil {
			if *req.Status != models.ArticleStatusDraft && *req.Status != models.ArticleStatusPublished {
				respondErr(log, w, r, apperr.E(apperr.ErrValidation, "invalid status %q", *req.Status))
				return
			}
			upd.Fields["status"] = *req.Status
		}
		if req.Tags != nil {
			tags, err := models.TagsByIDs(srv.DB.WithContext(r.Context()), *req.Tags)
			if err != nil {
				respondErr(log, w, r, storeErr(err, "resolving tags"))
				return
			}
			upd.Tags = &tags
		}

		article, err := engine.Update(r.Context(), id, upd)
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, article)
	})

	del := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var article models.Article
		if err := article.Delete(srv.DB.WithContext(r.Context()), id); err != nil {
			respondErr(log, w, r, storeErr(err, "article %s", id))
			return
		}
		log.Info("deleted article", "article_id", id)
		respondJSON(w, http.StatusOK, messageResponse{Message: "article removed"})
	})

	restore := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		historyID, err := pathUUID(r, "historyId")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		article, err := engine.Restore(r.Context(), id, historyID)
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, articleResponse{Message: "article restored", Article: article})
	})

	saveDraft := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		article, err := engine.SaveDraft(r.Context(), id)
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, articleResponse{Message: "article saved as draft", Article: article})
	})

	publish := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		article, err := engine.Publish(r.Context(), id)
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, articleResponse{Message: "article published", Article: article})
	})

	revisions := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		records, err := engine.Revisions(r.Context(), id)
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, records)
	})

	views := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		db := srv.DB.WithContext(r.Context())
		if err := models.IncrementViews(db, id); err != nil {
			respondErr(log, w, r, storeErr(err, "article %s", id))
			return
		}
		var article models.Article
		if err := article.Get(db, id); err != nil {
			respondErr(log, w, r, storeErr(err, "article %s", id))
			return
		}
		respondJSON(w, http.StatusOK, article)
	})

	return &resource.Resource{
		Name:           "articles",
		StandardAccess: resource.RequiresAuth,
		List:           list,
		Create:         create,
		Read:           read,
		Update:         update,
		Delete:         del,
		Custom: []resource.Operation{
			{Method: http.MethodPost, Pattern: "/{id}/restore/{historyId}", Access: resource.RequiresAuth, Handler: restore},
			{Method: http.MethodPost, Pattern: "/{id}/draft", Access: resource.RequiresAuth, Handler: saveDraft},
			{Method: http.MethodPut, Pattern: "/{id}/publish", Access: resource.RequiresAuth, Handler: publish},
			{Method: http.MethodGet, Pattern: "/{id}/revisions", Access: resource.RequiresAuth, Handler: revisions},
			{Method: http.MethodPost, Pattern: "/{id}/views", Access: resource.Public, Handler: views},
			// Public reads win over the auth-gated standard bindings on
			// the same patterns because custom operations register first.
			{Method: http.MethodGet, Pattern: "/", Access: resource.Public, Handler: list},
			{Method: http.MethodGet, Pattern: "/{id}", Access: resource.Public, Handler: read},
		},
	}
}
