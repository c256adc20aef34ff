package api

import (
	"fmt"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/wikiforge/wiki-api/internal/auth"
	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// CommentCreateRequest is the payload for comments and replies.
type CommentCreateRequest struct {
	Content string `json:"content"`
}

// CommentVoteRequest selects the vote direction.
type CommentVoteRequest struct {
	Direction string `json:"direction"` // "up" or "down"
}

// CommentsResource builds the comment thread nested under an article.
// Every operation requires authentication.
func CommentsResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("comments")

	list := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articleID, err := pathUUID(r, "articleId")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		comments, err := models.TopLevelComments(srv.DB.WithContext(r.Context()), articleID)
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing comments for article %s", articleID))
			return
		}
		respondJSON(w, http.StatusOK, comments)
	})

	create := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articleID, err := pathUUID(r, "articleId")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var req CommentCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}

		db := srv.DB.WithContext(r.Context())
		var article models.Article
		if err := article.Get(db, articleID); err != nil {
			respondErr(log, w, r, storeErr(err, "article %s", articleID))
			return
		}

		comment := models.Comment{ArticleID: articleID, Content: req.Content}
		principal, _ := auth.PrincipalFromContext(r.Context())
		if principal != nil {
			comment.UserID = &principal.UserID
		}
		if err := comment.Create(db); err != nil {
			respondErr(log, w, r, validationErr(err))
			return
		}

		notifyArticleOwner(db, log, &article, principal)

		respondJSON(w, http.StatusCreated, comment)
	})

	replies := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		commentID, err := pathUUID(r, "commentId")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		db := srv.DB.WithContext(r.Context())
		var parent models.Comment
		if err := parent.Get(db, commentID); err != nil {
			respondErr(log, w, r, storeErr(err, "comment %s", commentID))
			return
		}
		list, err := models.Replies(db, commentID)
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing replies to comment %s", commentID))
			return
		}
		respondJSON(w, http.StatusOK, list)
	})

	reply := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		articleID, err := pathUUID(r, "articleId")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		commentID, err := pathUUID(r, "commentId")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var req CommentCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}

		db := srv.DB.WithContext(r.Context())
		var parent models.Comment
		if err := parent.Get(db, commentID); err != nil {
			respondErr(log, w, r, storeErr(err, "comment %s", commentID))
			return
		}

		comment := models.Comment{
			ArticleID: articleID,
			Content:   req.Content,
			ParentID:  &commentID,
		}
		if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
			comment.UserID = &principal.UserID
		}
		if err := comment.Create(db); err != nil {
			respondErr(log, w, r, validationErr(err))
			return
		}
		respondJSON(w, http.StatusCreated, comment)
	})

	vote := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		commentID, err := pathUUID(r, "commentId")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var req CommentVoteRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}
		if req.Direction != "up" && req.Direction != "down" {
			respondErr(log, w, r, apperr.E(apperr.ErrValidation, "invalid vote direction %q", req.Direction))
			return
		}

		db := srv.DB.WithContext(r.Context())
		var comment models.Comment
		if err := comment.Get(db, commentID); err != nil {
			respondErr(log, w, r, storeErr(err, "comment %s", commentID))
			return
		}
		if err := comment.Vote(db, req.Direction == "up"); err != nil {
			respondErr(log, w, r, storeErr(err, "voting on comment %s", commentID))
			return
		}
		respondJSON(w, http.StatusOK, comment)
	})

	return &resource.Resource{
		Name:           "comments",
		BasePath:       "/articles/{articleId}/comments",
		StandardAccess: resource.RequiresAuth,
		List:           list,
		Create:         create,
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/{commentId}/replies", Access: resource.RequiresAuth, Handler: replies},
			{Method: http.MethodPost, Pattern: "/{commentId}/replies", Access: resource.RequiresAuth, Handler: reply},
			{Method: http.MethodPost, Pattern: "/{commentId}/vote", Access: resource.RequiresAuth, Handler: vote},
		},
	}
}

// CommentAdminResource exposes moderation on a flat /comments path so a
// comment can be removed without knowing its article.
func CommentAdminResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("comments.admin")

	del := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		var comment models.Comment
		if err := comment.Delete(srv.DB.WithContext(r.Context()), id); err != nil {
			respondErr(log, w, r, storeErr(err, "comment %s", id))
			return
		}
		log.Info("deleted comment", "comment_id", id)
		respondJSON(w, http.StatusOK, messageResponse{Message: "comment removed"})
	})

	return &resource.Resource{
		Name:           "comment-admin",
		BasePath:       "/comments",
		StandardAccess: resource.RequiresAuth,
		Delete:         del,
	}
}

// notifyArticleOwner records a notification for the article's author.
// Failure is logged, never surfaced: the comment already exists.
func notifyArticleOwner(db *gorm.DB, log hclog.Logger, article *models.Article, commenter *auth.Principal) {
	if article.UserID == nil {
		return
	}
	if commenter != nil && *article.UserID == commenter.UserID {
		return
	}

	who := "someone"
	if commenter != nil {
		who = commenter.Username
	}
	notification := models.Notification{
		UserID:  *article.UserID,
		Message: fmt.Sprintf("%s commented on %q", who, article.Title),
	}
	if err := notification.Create(db); err != nil {
		log.Warn("failed to notify article owner",
			"article_id", article.ID,
			"user_id", *article.UserID,
			"error", err,
		)
	}
}
