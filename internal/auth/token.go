package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wikiforge/wiki-api/pkg/apperr"
)

// Principal is the verified identity attached to a request after
// authentication. It lives for the duration of the request and is never
// persisted.
type Principal struct {
	UserID   uuid.UUID
	Username string
}

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = time.Hour

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens carrying a
// principal identity.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService returns a token service signing with the given HMAC
// secret. A zero ttl falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user.
func (s *TokenService) Issue(userID uuid.UUID, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

// Verify parses and verifies a bearer token, returning the principal it
// carries. All verification failures map to apperr.ErrInvalidCredential.
func (s *TokenService) Verify(tokenString string) (*Principal, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, apperr.E(apperr.ErrInvalidCredential, "token verification failed")
	}
	if !token.Valid {
		return nil, apperr.E(apperr.ErrInvalidCredential, "token is not valid")
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, apperr.E(apperr.ErrInvalidCredential, "token subject is not a user id")
	}

	return &Principal{UserID: userID, Username: c.Username}, nil
}
