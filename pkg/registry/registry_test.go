package registry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// allowGate wraps handlers only when an Authorization header is present,
// otherwise it rejects without calling the wrapped handler.
type allowGate struct{}

func (allowGate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func textHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	})
}

func TestMountStandardBindings(t *testing.T) {
	router := mux.NewRouter()
	res := &resource.Resource{
		Name:   "widgets",
		List:   textHandler("list"),
		Create: textHandler("create"),
		Read:   textHandler("read"),
		Update: textHandler("update"),
		Delete: textHandler("delete"),
	}
	require.NoError(t, Mount(router, nil, hclog.NewNullLogger(), res))

	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/api/widgets", "list"},
		{http.MethodPost, "/api/widgets", "create"},
		{http.MethodGet, "/api/widgets/123", "read"},
		{http.MethodPut, "/api/widgets/123", "update"},
		{http.MethodDelete, "/api/widgets/123", "delete"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.want, w.Body.String(), "%s %s", tc.method, tc.path)
	}
}

func TestMountPartialResourceOmitsMissingCapabilities(t *testing.T) {
	router := mux.NewRouter()
	res := &resource.Resource{
		Name: "widgets",
		List: textHandler("list"),
	}
	require.NoError(t, Mount(router, nil, hclog.NewNullLogger(), res))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/widgets", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/widgets/123", nil))
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestMountCustomBeforeStandard(t *testing.T) {
	// The custom operation shares GET / with the standard list binding.
	// Custom operations register first, so the custom handler wins.
	router := mux.NewRouter()
	res := &resource.Resource{
		Name:           "widgets",
		StandardAccess: resource.RequiresAuth,
		List:           textHandler("standard"),
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/", Access: resource.Public, Handler: textHandler("custom")},
		},
	}
	require.NoError(t, Mount(router, allowGate{}, hclog.NewNullLogger(), res))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/widgets", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "custom", w.Body.String())
}

func TestMountGateShortCircuits(t *testing.T) {
	router := mux.NewRouter()
	called := false
	res := &resource.Resource{
		Name:           "widgets",
		StandardAccess: resource.RequiresAuth,
		Create: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}),
	}
	require.NoError(t, Mount(router, allowGate{}, hclog.NewNullLogger(), res))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/widgets", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called, "gated handler must not run for anonymous requests")

	req := httptest.NewRequest(http.MethodPost, "/api/widgets", nil)
	req.Header.Set("Authorization", "Bearer x")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.True(t, called)
}

func TestMountPublicOperationsBypassGate(t *testing.T) {
	router := mux.NewRouter()
	res := &resource.Resource{
		Name: "widgets",
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/open", Access: resource.Public, Handler: textHandler("open")},
		},
	}
	require.NoError(t, Mount(router, allowGate{}, hclog.NewNullLogger(), res))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/widgets/open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "open", w.Body.String())
}

func TestMountDuplicateBasePathMountsNothing(t *testing.T) {
	router := mux.NewRouter()
	a := &resource.Resource{Name: "widgets", List: textHandler("a")}
	b := &resource.Resource{Name: "gadgets", BasePath: "/widgets", List: textHandler("b")}

	err := Mount(router, nil, hclog.NewNullLogger(), a, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))

	// The valid resource must not be half-mounted.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/widgets", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMountNilGateWithGatedResource(t *testing.T) {
	router := mux.NewRouter()
	res := &resource.Resource{
		Name:           "widgets",
		StandardAccess: resource.RequiresAuth,
		List:           textHandler("list"),
	}
	err := Mount(router, nil, hclog.NewNullLogger(), res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}

func TestMountNilCustomHandler(t *testing.T) {
	router := mux.NewRouter()
	res := &resource.Resource{
		Name: "widgets",
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/x", Access: resource.Public},
		},
	}
	err := Mount(router, nil, hclog.NewNullLogger(), res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}

func TestBasePathDerivation(t *testing.T) {
	assert.Equal(t, "/widgets", BasePath(&resource.Resource{Name: "widgets"}))
	assert.Equal(t, "/article-history", BasePath(&resource.Resource{Name: "ArticleHistory"}))
	assert.Equal(t, "/custom", BasePath(&resource.Resource{Name: "widgets", BasePath: "/custom"}))
}
