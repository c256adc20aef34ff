package api

import (
	"net/http"

	"github.com/wikiforge/wiki-api/internal/auth"
	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// favoriteResponse reports the toggle outcome.
type favoriteResponse struct {
	Message  string `json:"message"`
	Favorite bool   `json:"favorite"`
}

// UsersResource builds the per-user surface: favorites and settings.
// All operations act on the authenticated principal, so everything is
// gated and there are no standard bindings.
func UsersResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("users")

	currentUser := func(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			respondErr(log, w, r, apperr.E(apperr.ErrUnauthenticated, "no authenticated user"))
			return nil, false
		}
		var user models.User
		if err := user.Get(srv.DB.WithContext(r.Context()), principal.UserID); err != nil {
			respondErr(log, w, r, storeErr(err, "user %s", principal.UserID))
			return nil, false
		}
		return &user, true
	}

	favorites := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		articles, err := user.FavoriteArticles(srv.DB.WithContext(r.Context()))
		if err != nil {
			respondErr(log, w, r, storeErr(err, "listing favorites for user %s", user.ID))
			return
		}
		respondJSON(w, http.StatusOK, articles)
	})

	toggleFavorite := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		articleID, err := pathUUID(r, "id")
		if err != nil {
			respondErr(log, w, r, err)
			return
		}

		db := srv.DB.WithContext(r.Context())
		var article models.Article
		if err := article.Get(db, articleID); err != nil {
			respondErr(log, w, r, storeErr(err, "article %s", articleID))
			return
		}

		added, err := user.ToggleFavorite(db, &article)
		if err != nil {
			respondErr(log, w, r, storeErr(err, "toggling favorite for user %s", user.ID))
			return
		}
		msg := "article removed from favorites"
		if added {
			msg = "article added to favorites"
		}
		respondJSON(w, http.StatusOK, favoriteResponse{Message: msg, Favorite: added})
	})

	getSettings := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		settings, err := user.Settings()
		if err != nil {
			respondErr(log, w, r, storeErr(err, "decoding settings for user %s", user.ID))
			return
		}
		respondJSON(w, http.StatusOK, settings)
	})

	putSettings := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		var req map[string]interface{}
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}
		if err := user.UpdateSettings(srv.DB.WithContext(r.Context()), req); err != nil {
			respondErr(log, w, r, storeErr(err, "updating settings for user %s", user.ID))
			return
		}
		settings, err := user.Settings()
		if err != nil {
			respondErr(log, w, r, storeErr(err, "decoding settings for user %s", user.ID))
			return
		}
		respondJSON(w, http.StatusOK, settings)
	})

	return &resource.Resource{
		Name:           "users",
		StandardAccess: resource.RequiresAuth,
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/me/favorites", Access: resource.RequiresAuth, Handler: favorites},
			{Method: http.MethodPost, Pattern: "/articles/{id}/favorite", Access: resource.RequiresAuth, Handler: toggleFavorite},
			{Method: http.MethodGet, Pattern: "/me/settings", Access: resource.RequiresAuth, Handler: getSettings},
			{Method: http.MethodPut, Pattern: "/me/settings", Access: resource.RequiresAuth, Handler: putSettings},
		},
	}
}
