package api

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/wikiforge/wiki-api/internal/server"
	"github.com/wikiforge/wiki-api/pkg/apperr"
	"github.com/wikiforge/wiki-api/pkg/resource"
)

// maxUploadBytes bounds a single multipart upload.
const maxUploadBytes = 32 << 20

// UploadResource accepts multipart file uploads and hands the payload
// to the configured blob provider.
func UploadResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("upload")

	upload := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondErr(log, w, r, apperr.E(apperr.ErrValidation, "invalid multipart body"))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			respondErr(log, w, r, apperr.E(apperr.ErrValidation, "missing file field"))
			return
		}
		defer file.Close()

		stored, err := srv.Blob.Store(r.Context(), header.Filename, file)
		if err != nil {
			respondErr(log, w, r, apperr.E(apperr.ErrUnavailable, "storing upload"))
			return
		}
		log.Info("stored upload", "name", stored.Name, "size", header.Size)
		respondJSON(w, http.StatusCreated, stored)
	})

	return &resource.Resource{
		Name:           "upload",
		BasePath:       "/upload",
		StandardAccess: resource.RequiresAuth,
		Custom: []resource.Operation{
			{Method: http.MethodPost, Pattern: "/", Access: resource.RequiresAuth, Handler: upload},
		},
	}
}

// FilesResource serves stored payloads back by storage name.
func FilesResource(srv server.Server) *resource.Resource {
	log := srv.Logger.Named("files")

	fetch := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := pathVar(r, "fileId")
		rc, err := srv.Blob.Open(r.Context(), name)
		if err != nil {
			respondErr(log, w, r, err)
			return
		}
		defer rc.Close()

		if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
			w.Header().Set("Content-Type", ct)
		} else {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		if _, err := io.Copy(w, rc); err != nil {
			log.Warn("interrupted file response", "name", name, "error", err)
		}
	})

	return &resource.Resource{
		Name:     "files",
		BasePath: "/uploads",
		Custom: []resource.Operation{
			{Method: http.MethodGet, Pattern: "/{fileId}", Access: resource.Public, Handler: fetch},
		},
	}
}
