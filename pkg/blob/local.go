package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/wikiforge/wiki-api/pkg/apperr"
)

// Local stores payloads on a filesystem and serves them through the API's
// own /api/uploads route.
type Local struct {
	fs        afero.Fs
	dir       string
	publicURL string // URL prefix files are served under
}

// NewLocal returns a provider writing under dir. publicURL is the route
// prefix the files resource serves from, e.g. "/api/uploads".
func NewLocal(fs afero.Fs, dir, publicURL string) (*Local, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Local{
		fs:        fs,
		dir:       dir,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// Store writes the payload under a generated name that keeps the original
// extension.
func (l *Local) Store(ctx context.Context, filename string, r io.Reader) (*Stored, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))

	f, err := l.fs.Create(filepath.Join(l.dir, name))
	if err != nil {
		return nil, apperr.E(apperr.ErrUnavailable, "creating upload file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return nil, apperr.E(apperr.ErrUnavailable, "writing upload file")
	}

	return &Stored{
		URL:  l.publicURL + "/" + name,
		Name: name,
	}, nil
}

// Open reads back a stored payload. The name is reduced to its base so a
// crafted name cannot escape the upload directory.
func (l *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	name = path.Base(name)
	f, err := l.fs.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, apperr.E(apperr.ErrNotFound, "upload %q", name)
	}
	return f, nil
}
