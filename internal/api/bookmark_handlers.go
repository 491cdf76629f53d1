package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tsuji1/hep-reader-sub001/internal/domain"
)

func (s *Server) registerBookmarkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns a book's bookmarks in page order",
		Tags:        []string{"Bookmarks"},
	}, s.handleListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBookmark",
		Method:      http.MethodPost,
		Path:        "/api/books/{id}/bookmarks",
		Summary:     "Create bookmark",
		Description: "Adds a bookmark on one page of a book",
		Tags:        []string{"Bookmarks"},
	}, s.handleCreateBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBookmark",
		Method:      http.MethodDelete,
		Path:        "/api/bookmarks/{id}",
		Summary:     "Delete bookmark",
		Description: "Removes a bookmark",
		Tags:        []string{"Bookmarks"},
	}, s.handleDeleteBookmark)
}

// === DTOs ===

// BookmarkResponse contains bookmark data in API responses.
type BookmarkResponse struct {
	ID        string    `json:"id" doc:"Bookmark ID"`
	BookID    string    `json:"book_id" doc:"Book ID"`
	Page      int       `json:"page" doc:"Page number"`
	Note      string    `json:"note,omitempty" doc:"Optional note"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

func toBookmarkResponse(bm *domain.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:        bm.ID,
		BookID:    bm.BookID,
		Page:      bm.Page,
		Note:      bm.Note,
		CreatedAt: bm.CreatedAt,
	}
}

// ListBookmarksInput contains parameters for listing bookmarks.
type ListBookmarksInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ListBookmarksResponse contains a book's bookmarks.
type ListBookmarksResponse struct {
	Bookmarks []BookmarkResponse `json:"bookmarks" doc:"Bookmarks in page order"`
}

// ListBookmarksOutput wraps the listing for Huma.
type ListBookmarksOutput struct {
	Body ListBookmarksResponse
}

// CreateBookmarkRequest is the request body for creating a bookmark.
type CreateBookmarkRequest struct {
	Page int    `json:"page" validate:"required,gte=1" doc:"Page number"`
	Note string `json:"note,omitempty" validate:"omitempty,max=2000" doc:"Optional note"`
}

// CreateBookmarkInput wraps the create request for Huma.
type CreateBookmarkInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body CreateBookmarkRequest
}

// BookmarkOutput wraps a single bookmark for Huma.
type BookmarkOutput struct {
	Body BookmarkResponse
}

// DeleteBookmarkInput contains parameters for deleting a bookmark.
type DeleteBookmarkInput struct {
	ID string `path:"id" doc:"Bookmark ID"`
}

// === Handlers ===

func (s *Server) handleListBookmarks(ctx context.Context, input *ListBookmarksInput) (*ListBookmarksOutput, error) {
	bookmarks, err := s.services.Bookmark.ListBookmarks(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]BookmarkResponse, len(bookmarks))
	for i, bm := range bookmarks {
		resp[i] = toBookmarkResponse(bm)
	}
	return &ListBookmarksOutput{Body: ListBookmarksResponse{Bookmarks: resp}}, nil
}

func (s *Server) handleCreateBookmark(ctx context.Context, input *CreateBookmarkInput) (*BookmarkOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	bm, err := s.services.Bookmark.CreateBookmark(ctx, input.ID, input.Body.Page, input.Body.Note)
	if err != nil {
		return nil, err
	}
	return &BookmarkOutput{Body: toBookmarkResponse(bm)}, nil
}

func (s *Server) handleDeleteBookmark(ctx context.Context, input *DeleteBookmarkInput) (*struct{}, error) {
	if err := s.services.Bookmark.DeleteBookmark(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
