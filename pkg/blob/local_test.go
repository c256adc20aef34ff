package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiforge/wiki-api/pkg/apperr"
)

func TestLocalStoreAndOpen(t *testing.T) {
	local, err := NewLocal(afero.NewMemMapFs(), "/uploads", "/api/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	stored, err := local.Store(ctx, "Diagram.PNG", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored.Name, ".png"), "extension is kept, lowercased")
	assert.Equal(t, "/api/uploads/"+stored.Name, stored.URL)

	rc, err := local.Open(ctx, stored.Name)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestLocalStoreGeneratesUniqueNames(t *testing.T) {
	local, err := NewLocal(afero.NewMemMapFs(), "/uploads", "/api/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	a, err := local.Store(ctx, "same.txt", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := local.Store(ctx, "same.txt", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Name, b.Name)
}

func TestLocalOpenMissing(t *testing.T) {
	local, err := NewLocal(afero.NewMemMapFs(), "/uploads", "/api/uploads")
	require.NoError(t, err)

	_, err = local.Open(context.Background(), "nope.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestLocalOpenStripsPathTraversal(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/secret", []byte("x"), 0o600))

	local, err := NewLocal(fs, "/uploads", "/api/uploads")
	require.NoError(t, err)

	_, err = local.Open(context.Background(), "../etc/secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
