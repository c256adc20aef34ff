package api

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/wikiforge/wiki-api/internal/auth"
	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/models"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdatePasswordRequest rotates the caller's password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// tokenResponse is the login result.
type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

const minPasswordLength = 8

// AuthResource builds registration, login and the current-user surface.
func AuthResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("auth")

	register := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}
		if len(req.Password) < minPasswordLength {
			respondErr(log, w, r, apperr.E(apperr.ErrValidation, "password must be at least %d characters", minPasswordLength))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondErr(log, w, r, apperr.E(apperr.ErrUnavailable, "hashing password"))
			return
		}

		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
		}
		if err := user.Create(srv.DB.WithContext(r.Context())); err != nil {
			if models.IsUniqueViolation(err) {
				respondErr(log, w, r, apperr.E(apperr.ErrValidation, "username or email already in use"))
				return
			}
			respondErr(log, w, r, validationErr(err))
			return
		}
		log.Info("registered user", "user_id", user.ID, "username", user.Username)
		respondJSON(w, http.StatusCreated, user)
	})

	login := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}

		var user models.User
		if err := user.GetByEmail(srv.DB.WithContext(r.Context()), req.Email); err != nil {
			if models.IsNotFound(err) {
				respondErr(log, w, r, apperr.E(apperr.ErrInvalidCredential, "invalid email or password"))
				return
			}
			respondErr(log, w, r, storeErr(err, "looking up user"))
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondErr(log, w, r, apperr.E(apperr.ErrInvalidCredential, "invalid email or password"))
			return
		}

		token, err := srv.Tokens.Issue(user.ID, user.Username)
		if err != nil {
			respondErr(log, w, r, apperr.E(apperr.ErrUnavailable, "issuing token"))
			return
		}
		respondJSON(w, http.StatusOK, tokenResponse{Token: token, User: &user})
	})

	me := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			respondErr(log, w, r, apperr.E(apperr.ErrUnauthenticated, "no authenticated user"))
			return
		}
		var user models.User
		if err := user.Get(srv.DB.WithContext(r.Context()), principal.UserID); err != nil {
			respondErr(log, w, r, storeErr(err, "user %s", principal.UserID))
			return
		}
		respondJSON(w, http.StatusOK, user)
	})

	updatePassword := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			respondErr(log, w, r, apperr.E(apperr.ErrUnauthenticated, "no authenticated user"))
			return
		}
		var req UpdatePasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			respondErr(log, w, r, err)
			return
		}
		if len(req.NewPassword) < minPasswordLength {
			respondErr(log, w, r, apperr.E(apperr.ErrValidation, "password must be at least %d characters", minPasswordLength))
			return
		}

		db := srv.DB.WithContext(r.Context())
		var user models.User
		if err := user.Get(db, principal.UserID); err != nil {
			respondErr(log, w, r, storeErr(err, "user %s", principal.UserID))
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			respondErr(log, w, r, apperr.E(apperr.ErrInvalidCredential, "current password is incorrect"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondErr(log, w, r, apperr.E(apperr.ErrUnavailable, "hashing password"))
			return
		}
		if err := user.UpdatePassword(db, string(hash)); err != nil {
			respondErr(log, w, r, storeErr(err, "updating password for user %s", user.ID))
			return
		}
		log.Info("password updated", "user_id", user.ID)
		respondJSON(w, http.StatusOK, messageResponse{Message: "password updated"})
	})

	return &resource.Resource{
		Name:           "auth",
		StandardAccess: resource.RequiresAuth,
		Custom: []resource.Operation{
			{Method: http.MethodPost, Pattern: "/register", Access: resource.Public, Handler: register},
			{Method: http.MethodPost, Pattern: "/login", Access: resource.Public, Handler: login},
			{Method: http.MethodGet, Pattern: "/me", Access: resource.RequiresAuth, Handler: me},
			{Method: http.MethodPut, Pattern: "/update-password", Access: resource.RequiresAuth, Handler: updatePassword},
		},
	}
}
