package api

import "github.com/tsuji1/hep-reader-sub001/internal/service"

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Book     *service.BookService
	Import   *service.ImportService
	Article  *service.ArticleService
	Bookmark *service.BookmarkService
	Progress *service.ProgressService
	Clip     *service.ClipService
	Tag      *service.TagService
	Search   *service.SearchService
}
