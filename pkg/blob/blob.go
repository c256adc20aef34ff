// Package blob stores uploaded file payloads and hands back durable URLs.
//
// The API only consumes the narrow Store/Open contract; the local provider
// keeps files on an afero filesystem, the S3 provider in a bucket.
package blob

import (
	"context"
	"io"
)

// Stored describes a stored payload.
type Stored struct {
	// URL is the durable URL the payload is served from.
	URL string `json:"url"`

	// Name is the provider-assigned storage name.
	Name string `json:"name"`
}

// Provider accepts a binary payload and returns a durable URL for it.
type Provider interface {
	// Store writes the payload and returns its URL and storage name.
	// The original filename is only a hint for the stored extension.
	Store(ctx context.Context, filename string, r io.Reader) (*Stored, error)

	// Open reads back a payload by storage name.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
