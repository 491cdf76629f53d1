package providers

import (
	"github.com/samber/do/v2"

	"github.com/tsuji1/hep-reader-sub001/internal/config"
	"github.com/tsuji1/hep-reader-sub001/internal/convert"
	"github.com/tsuji1/hep-reader-sub001/internal/extract"
	"github.com/tsuji1/hep-reader-sub001/internal/logger"
)

// ProvideFetcher provides the rate-limited article fetcher.
func ProvideFetcher(i do.Injector) (*extract.Fetcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cacheHandle := do.MustInvoke[*FetchCacheHandle](i)

	return extract.NewFetcher(extract.FetcherOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		PageTimeout:  cfg.Fetch.PageTimeout,
		ImageTimeout: cfg.Fetch.ImageTimeout,
		CacheTTL:     cfg.Fetch.CacheTTL,
		Cache:        cacheHandle.DB,
	}, log.Logger), nil
}

// ProvideExtractor provides the readability article extractor.
func ProvideExtractor(i do.Injector) (*extract.Extractor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	fetcher := do.MustInvoke[*extract.Fetcher](i)

	return extract.NewExtractor(fetcher, cfg.Fetch.MinSectionText, log.Logger), nil
}

// ConverterHandle wraps the pandoc converter. A nil Converter means pandoc
// was not found; epub imports fail with a clear error while everything else
// keeps working.
type ConverterHandle struct {
	*convert.Converter
}

// ProvideConverter provides the document converter.
func ProvideConverter(i do.Injector) (*ConverterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	converter, err := convert.New(cfg.Convert.PandocPath, cfg.Convert.Timeout, log.Logger)
	if err != nil {
		log.Warn("pandoc unavailable, epub import disabled", "error", err)
		return &ConverterHandle{Converter: nil}, nil
	}

	return &ConverterHandle{Converter: converter}, nil
}
