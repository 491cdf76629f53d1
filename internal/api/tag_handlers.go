package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/tags",
		Summary:     "List tags",
		Description: "Returns all tags ordered by name",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/tags",
		Summary:     "Create tag",
		Description: "Creates a new tag with a unique name",
		Tags:        []string{"Tags"},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/tags/{id}",
		Summary:     "Update tag",
		Description: "Updates a tag's name or color",
		Tags:        []string{"Tags"},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/tags/{id}",
		Summary:     "Delete tag",
		Description: "Removes a tag and all of its book associations",
		Tags:        []string{"Tags"},
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "tagBook",
		Method:      http.MethodPut,
		Path:        "/api/books/{id}/tags/{tagID}",
		Summary:     "Tag book",
		Description: "Attaches a tag to a book; re-attaching is a no-op",
		Tags:        []string{"Tags"},
	}, s.handleTagBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "untagBook",
		Method:      http.MethodDelete,
		Path:        "/api/books/{id}/tags/{tagID}",
		Summary:     "Untag book",
		Description: "Detaches a tag from a book",
		Tags:        []string{"Tags"},
	}, s.handleUntagBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookTags",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}/tags",
		Summary:     "List book tags",
		Description: "Returns a book's tags ordered by name",
		Tags:        []string{"Tags"},
	}, s.handleListBookTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTagBooks",
		Method:      http.MethodGet,
		Path:        "/api/tags/{id}/books",
		Summary:     "List tag books",
		Description: "Returns the books carrying a tag, most recently updated first",
		Tags:        []string{"Tags"},
	}, s.handleListTagBooks)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID        string    `json:"id" doc:"Tag ID"`
	Name      string    `json:"name" doc:"Tag name"`
	Color     string    `json:"color,omitempty" doc:"Display color"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ListTagsInput contains parameters for listing tags.
type ListTagsInput struct{}

// ListTagsResponse contains all tags.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"Tags ordered by name"`
}

// ListTagsOutput wraps the listing for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50" doc:"Tag name"`
	Color string `json:"color,omitempty" validate:"omitempty,max=20" doc:"Display color"`
}

// CreateTagInput wraps the create request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// TagOutput wraps a single tag for Huma.
type TagOutput struct {
	Body TagResponse
}

// UpdateTagRequest is the request body for updating a tag.
type UpdateTagRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=50" doc:"Tag name"`
	Color *string `json:"color,omitempty" validate:"omitempty,max=20" doc:"Display color"`
}

// UpdateTagInput wraps the update request for Huma.
type UpdateTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body UpdateTagRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// BookTagInput identifies a book/tag association.
type BookTagInput struct {
	ID    string `path:"id" doc:"Book ID"`
	TagID string `path:"tagID" doc:"Tag ID"`
}

// ListBookTagsInput contains parameters for listing a book's tags.
type ListBookTagsInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ListTagBooksInput contains parameters for listing a tag's books.
type ListTagBooksInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// ListTagBooksOutput wraps a tag's book listing for Huma.
type ListTagBooksOutput struct {
	Body ListBooksResponse
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *ListTagsInput) (*ListTagsOutput, error) {
	tags, err := s.services.Tag.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(t)
	}
	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	t, err := s.services.Tag.CreateTag(ctx, input.Body.Name, input.Body.Color)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	t, err := s.services.Tag.UpdateTag(ctx, input.ID, service.TagUpdate{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: toTagResponse(t)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*struct{}, error) {
	if err := s.services.Tag.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleTagBook(ctx context.Context, input *BookTagInput) (*struct{}, error) {
	if err := s.services.Tag.TagBook(ctx, input.ID, input.TagID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleUntagBook(ctx context.Context, input *BookTagInput) (*struct{}, error) {
	if err := s.services.Tag.UntagBook(ctx, input.ID, input.TagID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleListBookTags(ctx context.Context, input *ListBookTagsInput) (*ListTagsOutput, error) {
	tags, err := s.services.Tag.ListTagsForBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(t)
	}
	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleListTagBooks(ctx context.Context, input *ListTagBooksInput) (*ListTagBooksOutput, error) {
	books, err := s.services.Tag.ListBooksForTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = toBookResponse(b)
	}
	return &ListTagBooksOutput{Body: ListBooksResponse{Books: resp}}, nil
}
