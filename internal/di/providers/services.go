package providers

import (
	"github.com/samber/do/v2"

	"github.com/tsuji1/hep-reader-sub001/internal/content"
	"github.com/tsuji1/hep-reader-sub001/internal/extract"
	"github.com/tsuji1/hep-reader-sub001/internal/logger"
	"github.com/tsuji1/hep-reader-sub001/internal/service"
)

// ProvideBookService provides the book catalog service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	contentStore := do.MustInvoke[*content.Store](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, contentStore, indexHandle.Index, log.Logger), nil
}

// ProvideImportService provides the ebook import service.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	contentStore := do.MustInvoke[*content.Store](i)
	converterHandle := do.MustInvoke[*ConverterHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImportService(storeHandle.Store, contentStore, converterHandle.Converter, indexHandle.Index, log.Logger), nil
}

// ProvideArticleService provides the save-from-URL service.
func ProvideArticleService(i do.Injector) (*service.ArticleService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	contentStore := do.MustInvoke[*content.Store](i)
	extractor := do.MustInvoke[*extract.Extractor](i)
	fetcher := do.MustInvoke[*extract.Fetcher](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewArticleService(storeHandle.Store, contentStore, extractor, fetcher, indexHandle.Index, log.Logger), nil
}

// ProvideBookmarkService provides the bookmark service.
func ProvideBookmarkService(i do.Injector) (*service.BookmarkService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookmarkService(storeHandle.Store, log.Logger), nil
}

// ProvideProgressService provides the reading progress service.
func ProvideProgressService(i do.Injector) (*service.ProgressService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProgressService(storeHandle.Store, log.Logger), nil
}

// ProvideClipService provides the page clip service.
func ProvideClipService(i do.Injector) (*service.ClipService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewClipService(storeHandle.Store, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}
