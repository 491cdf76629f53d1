package api

import (
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tsuji1/hep-reader-sub001/internal/http/response"
)

// handleGetPage serves one page document as HTML.
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 {
		response.BadRequest(w, "page number must be a positive integer", s.logger)
		return
	}

	page, err := s.services.Book.GetPage(r.Context(), bookID, n)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleGetPageIndex serves the book's page index.
func (s *Server) handleGetPageIndex(w http.ResponseWriter, r *http.Request) {
	idx, err := s.services.Book.GetPageIndex(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, idx, s.logger)
}

// handleGetTOC serves the table-of-contents fragment.
func (s *Server) handleGetTOC(w http.ResponseWriter, r *http.Request) {
	toc, err := s.services.Book.GetTOC(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(toc)
}

// handleGetMedia serves one file from the book's media directory. This is
// the canonical /api/books/{id}/media/... path that page markup
// references after normalization.
func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	name := chi.URLParam(r, "*")

	data, err := s.services.Book.GetMedia(r.Context(), bookID, name)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

// handleGetCover serves the book's cover image.
func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	data, err := s.services.Book.GetCover(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}

// handleGetOriginal serves the stored source file. PDF books are rendered
// client-side from this endpoint.
func (s *Server) handleGetOriginal(w http.ResponseWriter, r *http.Request) {
	data, ext, err := s.services.Book.GetOriginal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}
