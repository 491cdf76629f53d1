// Package di provides dependency injection configuration for the HepReader server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/tsuji1/hep-reader-sub001/internal/config"
	"github.com/tsuji1/hep-reader-sub001/internal/content"
	"github.com/tsuji1/hep-reader-sub001/internal/di/providers"
	"github.com/tsuji1/hep-reader-sub001/internal/extract"
	"github.com/tsuji1/hep-reader-sub001/internal/logger"
	"github.com/tsuji1/hep-reader-sub001/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideContentStore)
	do.Provide(injector, providers.ProvideFetchCache)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Fetch and conversion layer
	do.Provide(injector, providers.ProvideFetcher)
	do.Provide(injector, providers.ProvideExtractor)
	do.Provide(injector, providers.ProvideConverter)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideImportService)
	do.Provide(injector, providers.ProvideArticleService)
	do.Provide(injector, providers.ProvideBookmarkService)
	do.Provide(injector, providers.ProvideProgressService)
	do.Provide(injector, providers.ProvideClipService)
	do.Provide(injector, providers.ProvideTagService)

	// Workers
	do.Provide(injector, providers.ProvideInboxWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once everything is running.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*content.Store](injector)
	_ = do.MustInvoke[*providers.FetchCacheHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*extract.Fetcher](injector)
	_ = do.MustInvoke[*extract.Extractor](injector)
	_ = do.MustInvoke[*providers.ConverterHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.ImportService](injector)
	_ = do.MustInvoke[*service.ArticleService](injector)
	_ = do.MustInvoke[*service.BookmarkService](injector)
	_ = do.MustInvoke[*service.ProgressService](injector)
	_ = do.MustInvoke[*service.ClipService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	// Workers
	_ = do.MustInvoke[*providers.InboxWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
