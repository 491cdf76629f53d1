package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerProgressRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProgress",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}/progress",
		Summary:     "Get reading progress",
		Description: "Returns the reader's position; 404 when the book has never been opened",
		Tags:        []string{"Progress"},
	}, s.handleGetProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProgress",
		Method:      http.MethodPut,
		Path:        "/api/books/{id}/progress",
		Summary:     "Update reading progress",
		Description: "Records the current page and bumps the book's recency",
		Tags:        []string{"Progress"},
	}, s.handleUpdateProgress)
}

// === DTOs ===

// ProgressResponse contains reading progress data.
type ProgressResponse struct {
	BookID    string    `json:"book_id" doc:"Book ID"`
	Page      int       `json:"page" doc:"Current page"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// GetProgressInput contains parameters for getting progress.
type GetProgressInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ProgressOutput wraps a progress response for Huma.
type ProgressOutput struct {
	Body ProgressResponse
}

// UpdateProgressRequest is the request body for updating progress.
type UpdateProgressRequest struct {
	Page int `json:"page" validate:"required,gte=1" doc:"Current page"`
}

// UpdateProgressInput wraps the update request for Huma.
type UpdateProgressInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateProgressRequest
}

// === Handlers ===

func (s *Server) handleGetProgress(ctx context.Context, input *GetProgressInput) (*ProgressOutput, error) {
	p, err := s.services.Progress.GetProgress(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ProgressOutput{Body: ProgressResponse{BookID: p.BookID, Page: p.Page, UpdatedAt: p.UpdatedAt}}, nil
}

func (s *Server) handleUpdateProgress(ctx context.Context, input *UpdateProgressInput) (*ProgressOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Progress.UpdateProgress(ctx, input.ID, input.Body.Page)
	if err != nil {
		return nil, err
	}
	return &ProgressOutput{Body: ProgressResponse{BookID: p.BookID, Page: p.Page, UpdatedAt: p.UpdatedAt}}, nil
}
