package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/books",
		Summary:     "List books",
		Description: "Returns all books, most recently updated first",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/books/{id}",
		Summary:     "Update book",
		Description: "Updates book metadata. Only fields present in the request are applied.",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book, its content, and its search entries",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveURL",
		Method:      http.MethodPost,
		Path:        "/api/books/url",
		Summary:     "Save web article",
		Description: "Fetches a web page and stores it as a readable book",
		Tags:        []string{"Books"},
	}, s.handleSaveURL)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID               string    `json:"id" doc:"Book ID"`
	Title            string    `json:"title" doc:"Book title"`
	OriginalFilename *string   `json:"original_filename,omitempty" doc:"Uploaded filename, absent for web articles"`
	TotalPages       int       `json:"total_pages" doc:"Page count (provisional 1 for fresh PDFs)"`
	Type             string    `json:"type" doc:"Book type: epub, pdf, or website"`
	Language         string    `json:"language" doc:"ISO 639 language code"`
	SourceURL        *string   `json:"source_url,omitempty" doc:"Source URL for web articles"`
	Description      string    `json:"description,omitempty" doc:"Short description excerpt"`
	CoverBlurhash    string    `json:"cover_blurhash,omitempty" doc:"Blurhash placeholder for the cover"`
	LastReadPage     *int      `json:"last_read_page,omitempty" doc:"Last page read, absent when never opened"`
	CreatedAt        time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt        time.Time `json:"updated_at" doc:"Last update time"`
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:               b.ID,
		Title:            b.Title,
		OriginalFilename: b.OriginalFilename,
		TotalPages:       b.TotalPages,
		Type:             string(b.Type),
		Language:         b.Language,
		SourceURL:        b.SourceURL,
		Description:      b.Description,
		CoverBlurhash:    b.CoverBlurhash,
		LastReadPage:     b.LastReadPage,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct{}

// ListBooksResponse contains the library listing.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"Books in recency order"`
}

// ListBooksOutput wraps the listing for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// UpdateBookRequest is the request body for updating a book.
// Only non-nil fields are applied (true PATCH semantics).
type UpdateBookRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"Book title"`
	Language   *string `json:"language,omitempty" validate:"omitempty,max=35" doc:"Language code or display name"`
	TotalPages *int    `json:"total_pages,omitempty" validate:"omitempty,gte=1" doc:"Real page count reported by the PDF renderer"`
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// SaveURLRequest is the request body for saving a web article.
type SaveURLRequest struct {
	URL string `json:"url" validate:"required,url,max=2048" doc:"Page URL to save"`
}

// SaveURLInput wraps the save request for Huma.
type SaveURLInput struct {
	Body SaveURLRequest
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *ListBooksInput) (*ListBooksOutput, error) {
	books, err := s.services.Book.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = toBookResponse(b)
	}
	return &ListBooksOutput{Body: ListBooksResponse{Books: resp}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Book.UpdateBook(ctx, input.ID, service.BookUpdate{
		Title:      input.Body.Title,
		Language:   input.Body.Language,
		TotalPages: input.Body.TotalPages,
	})
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*struct{}, error) {
	if err := s.services.Book.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleSaveURL(ctx context.Context, input *SaveURLInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Article.SaveURL(ctx, input.Body.URL)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}
