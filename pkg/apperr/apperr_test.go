package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEWrapsKind(t *testing.T) {
	err := E(ErrNotFound, "article %d", 7)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "article 7")
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{E(ErrValidation, "bad input"), http.StatusBadRequest},
		{E(ErrNotFound, "missing"), http.StatusNotFound},
		{E(ErrUnauthenticated, "no token"), http.StatusUnauthorized},
		{E(ErrInvalidCredential, "bad token"), http.StatusUnauthorized},
		{E(ErrUnavailable, "store down"), http.StatusServiceUnavailable},
		{E(ErrConfiguration, "bad wiring"), http.StatusInternalServerError},
		{fmt.Errorf("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestStatusSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", E(ErrNotFound, "inner"))
	assert.Equal(t, http.StatusNotFound, Status(err))
}
