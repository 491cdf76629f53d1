package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/tsuji1/hep-reader-sub001/internal/http/response"
)

// maxUploadSize bounds a single ebook upload.
const maxUploadSize = 200 << 20 // 200 MiB

// handleUploadBook accepts a multipart upload of an .epub or .pdf file
// under the "file" field and imports it into the library.
func (s *Server) handleUploadBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(w, http.StatusRequestEntityTooLarge, "uploaded file is too large", s.logger)
			return
		}
		response.BadRequest(w, "expected a multipart form upload", s.logger)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "missing file field", s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("failed to read upload", "filename", header.Filename, "error", err)
		response.InternalError(w, "failed to read uploaded file", s.logger)
		return
	}

	book, err := s.services.Import.Import(r.Context(), header.Filename, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, toBookResponse(book), s.logger)
}
