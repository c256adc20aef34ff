package api

import (
	"net/http"

	"github.com/wikiforge/wiki-api/internal/auth"
	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// NotificationsResource builds the per-user notification feed.
func NotificationsResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("notifications")

	list := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			respondErr(log, w, r, apperr.E(apperr.ErrUnauthenticated, "no authenticated user"))
			return
		}
		notifications, err := models.NotificationsForUser(srv.DB.WithContext(r.Context()), principal.UserID)
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing notifications for user %s", principal.UserID))
			return
		}
		respondJSON(w, http.StatusOK, notifications)
	})

	markRead := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			respondErr(log, w, r, apperr.E(apperr.ErrUnauthenticated, "no authenticated user"))
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}

		db := srv.DB.WithContext(r.Context())
		var notification models.Notification
		if err := notification.Get(db, id); err != nil {
			respondErr(log, w, r, storeErr(err, "notification %s", id))
			return
		}
		// Others' notifications are indistinguishable from missing ones.
		if notification.UserID != principal.UserID {
			respondErr(log, w, r, apperr.E(apperr.ErrNotFound, "notification %s", id))
			return
		}
		if err := notification.MarkRead(db); err != nil {
			respondErr(log, w, r, storeErr(err, "marking notification %s read", id))
			return
		}
		respondJSON(w, http.StatusOK, notification)
	})

	return &resource.Resource{
		Name:           "notifications",
		StandardAccess: resource.RequiresAuth,
		List:           list,
		Custom: []resource.Operation{
			{Method: http.MethodPut, Pattern: "/{id}/read", Access: resource.RequiresAuth, Handler: markRead},
		},
	}
}
