package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"bookshop/internal/app"
	"bookshop/internal/util"
)

// handleImageUpload passes a multipart image through to the object store and
// returns its URL.
func (s *Server) handleImageUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploads == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "image uploads are not configured",
		})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: image too large or malformed form", app.ErrValidation))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: image field is required", app.ErrValidation))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.allowedExts[ext] {
		s.writeError(w, r, fmt.Errorf("%w: file type %q is not allowed", app.ErrValidation, ext))
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := util.NewID() + ext
	ctx, cancel := s.requestCtx(r)
	defer cancel()
	if err := s.uploads.Put(ctx, key, file, header.Size, contentType); err != nil {
		s.writeError(w, r, fmt.Errorf("store image: %w", err))
		return
	}
	url, err := s.uploads.PresignGet(ctx, key, s.presignExpiry)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("presign image: %w", err))
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"image": url})
}
