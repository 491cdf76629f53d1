package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tsuji1/hep-reader-sub001/internal/domain"
)

func (s *Server) registerClipRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listClips",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}/clips",
		Summary:     "List clips",
		Description: "Returns a book's clips in page order",
		Tags:        []string{"Clips"},
	}, s.handleListClips)

	huma.Register(s.api, huma.Operation{
		OperationID: "createClip",
		Method:      http.MethodPost,
		Path:        "/api/books/{id}/clips",
		Summary:     "Create clip",
		Description: "Stores a rectangular capture from a book page",
		Tags:        []string{"Clips"},
	}, s.handleCreateClip)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteClip",
		Method:      http.MethodDelete,
		Path:        "/api/clips/{id}",
		Summary:     "Delete clip",
		Description: "Removes a clip",
		Tags:        []string{"Clips"},
	}, s.handleDeleteClip)
}

// === DTOs ===

// ClipRectBody mirrors the page-relative capture region.
type ClipRectBody struct {
	X float64 `json:"x" validate:"gte=0" doc:"Left offset"`
	Y float64 `json:"y" validate:"gte=0" doc:"Top offset"`
	W float64 `json:"w" validate:"gt=0" doc:"Width"`
	H float64 `json:"h" validate:"gt=0" doc:"Height"`
}

// ClipResponse contains clip data in API responses.
type ClipResponse struct {
	ID        string        `json:"id" doc:"Clip ID"`
	BookID    string        `json:"book_id" doc:"Book ID"`
	Page      int           `json:"page" doc:"Page number"`
	Image     string        `json:"image" doc:"Captured image as a data URI"`
	Note      string        `json:"note,omitempty" doc:"Optional note"`
	Rect      *ClipRectBody `json:"rect,omitempty" doc:"Capture region, absent for geometry-less clips"`
	CreatedAt time.Time     `json:"created_at" doc:"Creation time"`
}

func toClipResponse(c *domain.Clip) ClipResponse {
	resp := ClipResponse{
		ID:        c.ID,
		BookID:    c.BookID,
		Page:      c.Page,
		Image:     c.Image,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
	if c.Rect != nil {
		resp.Rect = &ClipRectBody{X: c.Rect.X, Y: c.Rect.Y, W: c.Rect.W, H: c.Rect.H}
	}
	return resp
}

// ListClipsInput contains parameters for listing clips.
type ListClipsInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ListClipsResponse contains a book's clips.
type ListClipsResponse struct {
	Clips []ClipResponse `json:"clips" doc:"Clips in page order"`
}

// ListClipsOutput wraps the listing for Huma.
type ListClipsOutput struct {
	Body ListClipsResponse
}

// CreateClipRequest is the request body for creating a clip.
type CreateClipRequest struct {
	Page  int           `json:"page" validate:"required,gte=1" doc:"Page number"`
	Image string        `json:"image" validate:"required" doc:"Captured image as a data URI"`
	Note  string        `json:"note,omitempty" validate:"omitempty,max=2000" doc:"Optional note"`
	Rect  *ClipRectBody `json:"rect,omitempty" doc:"Capture region"`
}

// CreateClipInput wraps the create request for Huma.
type CreateClipInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body CreateClipRequest
}

// ClipOutput wraps a single clip for Huma.
type ClipOutput struct {
	Body ClipResponse
}

// DeleteClipInput contains parameters for deleting a clip.
type DeleteClipInput struct {
	ID string `path:"id" doc:"Clip ID"`
}

// === Handlers ===

func (s *Server) handleListClips(ctx context.Context, input *ListClipsInput) (*ListClipsOutput, error) {
	clips, err := s.services.Clip.ListClips(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]ClipResponse, len(clips))
	for i, c := range clips {
		resp[i] = toClipResponse(c)
	}
	return &ListClipsOutput{Body: ListClipsResponse{Clips: resp}}, nil
}

func (s *Server) handleCreateClip(ctx context.Context, input *CreateClipInput) (*ClipOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	var rect *domain.ClipRect
	if input.Body.Rect != nil {
		rect = &domain.ClipRect{
			X: input.Body.Rect.X,
			Y: input.Body.Rect.Y,
			W: input.Body.Rect.W,
			H: input.Body.Rect.H,
		}
	}

	c, err := s.services.Clip.CreateClip(ctx, input.ID, input.Body.Page, input.Body.Image, input.Body.Note, rect)
	if err != nil {
		return nil, err
	}
	return &ClipOutput{Body: toClipResponse(c)}, nil
}

func (s *Server) handleDeleteClip(ctx context.Context, input *DeleteClipInput) (*struct{}, error) {
	if err := s.services.Clip.DeleteClip(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
