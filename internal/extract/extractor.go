package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
)

// Article is the result of extracting one web page: ordered standalone
// page documents plus the image URLs referenced by their placeholders.
type Article struct {
	Title       string
	Description string
	SiteName    string
	Lang        string
	SourceURL   string
	CoverURL    string // representative image, empty when the page has none
	FaviconURL  string
	// Images holds absolute URLs in placeholder order: Images[i] backs
	// the media/{i}.img placeholder.
	Images []string
	Pages  []string
}

// Extractor runs the full article pipeline short of image materialization,
// which needs a book identity and is the importing service's job.
type Extractor struct {
	fetcher *Fetcher
	logger  *slog.Logger
	minText int
}

// NewExtractor creates an Extractor. minText is the minimum stripped-text
// length a section needs to survive repagination.
func NewExtractor(fetcher *Fetcher, minText int, logger *slog.Logger) *Extractor {
	if minText <= 0 {
		minText = 21
	}
	return &Extractor{fetcher: fetcher, logger: logger, minText: minText}
}

// Extract fetches a page and turns it into a paginated article. A
// malformed URL, disallowed scheme, non-2xx response, or unreachable host
// fails the whole operation.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*Article, error) {
	pageURL, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	body, err := e.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	// Metadata comes off the intact document; cleaning strips the very
	// containers some of it lives in.
	meta := ExtractMetadata(root, pageURL)

	Clean(root)
	region := SelectContent(root)

	images := CollectImages(region, pageURL)
	SanitizeAttributes(region)
	PruneEmpty(region)
	PrefixHeadings(region)

	sections := SplitSections(region, e.minText)
	pages := BuildPages(sections, meta, pageURL)

	e.logger.Info("extracted article",
		"url", pageURL.String(),
		"title", meta.Title,
		"pages", len(pages),
		"images", len(images),
	)

	return &Article{
		Title:       meta.Title,
		Description: meta.Description,
		SiteName:    meta.SiteName,
		Lang:        meta.Lang,
		SourceURL:   pageURL.String(),
		CoverURL:    meta.Image,
		FaviconURL:  meta.Favicon,
		Images:      images,
		Pages:       pages,
	}, nil
}
