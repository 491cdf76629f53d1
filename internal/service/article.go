package service

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsuji1/hep-reader-sub001/internal/content"
	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/excerpt"
	"github.com/tsuji1/hep-reader-sub001/internal/extract"
	"github.com/tsuji1/hep-reader-sub001/internal/id"
	"github.com/tsuji1/hep-reader-sub001/internal/media/covers"
	"github.com/tsuji1/hep-reader-sub001/internal/normalize"
	"github.com/tsuji1/hep-reader-sub001/internal/search"
	"github.com/tsuji1/hep-reader-sub001/internal/splitter"
	"github.com/tsuji1/hep-reader-sub001/internal/store/sqlite"
)

// imageWorkers bounds concurrent image downloads per article.
const imageWorkers = 4

// ArticleService saves web pages as readable books.
type ArticleService struct {
	store     *sqlite.Store
	content   *content.Store
	extractor *extract.Extractor
	fetcher   *extract.Fetcher
	index     *search.Index
	logger    *slog.Logger
}

// NewArticleService creates an article service.
func NewArticleService(store *sqlite.Store, contentStore *content.Store, extractor *extract.Extractor, fetcher *extract.Fetcher, index *search.Index, logger *slog.Logger) *ArticleService {
	return &ArticleService{
		store:     store,
		content:   contentStore,
		extractor: extractor,
		fetcher:   fetcher,
		index:     index,
		logger:    logger,
	}
}

// SaveURL fetches a web page and stores it as a website book. An
// unreachable page fails the whole operation with no catalog row and no
// content directory; a failed image download only drops that image.
func (s *ArticleService) SaveURL(ctx context.Context, rawURL string) (*domain.Book, error) {
	start := time.Now()

	art, err := s.extractor.Extract(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, err
	}

	stored := s.materializeImages(ctx, bookID, art.Images)

	pages := make([]string, len(art.Pages))
	for i, page := range art.Pages {
		page = resolvePlaceholders(page, stored)
		page = normalize.ImagePaths(page, bookID)
		pages[i] = normalize.LayoutWidth(page)
	}

	if _, err := s.content.WritePages(bookID, pages, ""); err != nil {
		return nil, err
	}

	book, err := s.register(ctx, bookID, art, pages)
	if err != nil {
		if cerr := s.content.DeleteBook(bookID); cerr != nil {
			s.logger.Warn("failed to clean up after aborted save", "book_id", bookID, "error", cerr)
		}
		return nil, err
	}

	s.logger.Info("article saved",
		"book_id", book.ID,
		"url", art.SourceURL,
		"pages", book.TotalPages,
		"images", len(stored),
		"duration", time.Since(start).String(),
	)
	return book, nil
}

func (s *ArticleService) register(ctx context.Context, bookID string, art *extract.Article, pages []string) (*domain.Book, error) {
	book := &domain.Book{
		ID:         bookID,
		Title:      art.Title,
		TotalPages: len(pages),
		Type:       domain.BookTypeWebsite,
		Language:   articleLanguage(art.Lang),
		SourceURL:  &art.SourceURL,
	}

	book.Description = strings.TrimSpace(art.Description)
	if book.Description == "" && len(pages) > 0 {
		book.Description = excerpt.FromHTML(pages[0], descriptionRunes)
	}

	s.applyCover(ctx, bookID, art.CoverURL, book)

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	texts := make([]string, len(pages))
	for i, page := range pages {
		texts[i] = splitter.StripText(page)
	}
	indexBookPages(s.index, s.logger, book, texts)

	return book, nil
}

// materializeImages downloads the article's images into the book's media
// directory. The returned map keys placeholder index to the stored media
// name; failed downloads are absent.
func (s *ArticleService) materializeImages(ctx context.Context, bookID string, imageURLs []string) map[int]string {
	stored := make(map[int]string, len(imageURLs))
	if len(imageURLs) == 0 {
		return stored
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageWorkers)

	for i, rawURL := range imageURLs {
		g.Go(func() error {
			u, err := extract.ParseURL(rawURL)
			if err != nil {
				s.logger.Warn("skipping image with invalid url", "book_id", bookID, "url", rawURL)
				return nil
			}
			data, err := s.fetcher.FetchImage(gctx, u)
			if err != nil {
				s.logger.Warn("skipping failed image download", "book_id", bookID, "url", rawURL, "error", err)
				return nil
			}
			name := extract.MediaFilename(i, rawURL)
			if err := s.content.WriteMedia(bookID, name, data); err != nil {
				s.logger.Warn("skipping unwritable image", "book_id", bookID, "name", name, "error", err)
				return nil
			}
			mu.Lock()
			stored[i] = name
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; failed images are logged and skipped.
	_ = g.Wait()
	return stored
}

var placeholderPattern = regexp.MustCompile(`<img[^>]*\ssrc="media/(\d+)\.img"[^>]*>`)

// resolvePlaceholders swaps extraction placeholders for stored media
// names. Images that failed to download lose their img tag entirely.
func resolvePlaceholders(page string, stored map[int]string) string {
	return placeholderPattern.ReplaceAllStringFunc(page, func(tag string) string {
		m := placeholderPattern.FindStringSubmatch(tag)
		index, _ := strconv.Atoi(m[1])
		name, ok := stored[index]
		if !ok {
			return ""
		}
		return strings.Replace(tag, "media/"+m[1]+".img", "media/"+name, 1)
	})
}

// applyCover fetches the representative image as the cover. Covers are
// best effort; any failure leaves the book coverless.
func (s *ArticleService) applyCover(ctx context.Context, bookID, coverURL string, book *domain.Book) {
	if coverURL == "" {
		return
	}
	u, err := extract.ParseURL(coverURL)
	if err != nil {
		return
	}
	data, err := s.fetcher.FetchImage(ctx, u)
	if err != nil {
		s.logger.Warn("failed to fetch cover", "book_id", bookID, "url", coverURL, "error", err)
		return
	}
	if err := s.content.WriteCover(bookID, data); err != nil {
		s.logger.Warn("failed to store cover", "book_id", bookID, "error", err)
		return
	}
	hash, err := covers.Blurhash(data)
	if err != nil {
		s.logger.Warn("failed to compute cover blurhash", "book_id", bookID, "error", err)
		return
	}
	book.CoverBlurhash = hash
}

func articleLanguage(lang string) string {
	if code := normalize.LanguageCode(lang); code != "" {
		return code
	}
	return defaultLanguage
}
