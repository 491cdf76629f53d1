package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/content"
	"github.com/tsuji1/hep-reader-sub001/internal/convert"
	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
	"github.com/tsuji1/hep-reader-sub001/internal/excerpt"
	"github.com/tsuji1/hep-reader-sub001/internal/id"
	"github.com/tsuji1/hep-reader-sub001/internal/media/covers"
	"github.com/tsuji1/hep-reader-sub001/internal/normalize"
	"github.com/tsuji1/hep-reader-sub001/internal/search"
	"github.com/tsuji1/hep-reader-sub001/internal/splitter"
	"github.com/tsuji1/hep-reader-sub001/internal/store/sqlite"
)

const descriptionRunes = 200

// defaultLanguage applies when the source document declares no usable
// language code.
const defaultLanguage = "ja"

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// ImportService turns uploaded EPUB and PDF files into library books.
type ImportService struct {
	store     *sqlite.Store
	content   *content.Store
	converter *convert.Converter
	index     *search.Index
	logger    *slog.Logger
}

// NewImportService creates an import service.
func NewImportService(store *sqlite.Store, contentStore *content.Store, converter *convert.Converter, index *search.Index, logger *slog.Logger) *ImportService {
	return &ImportService{
		store:     store,
		content:   contentStore,
		converter: converter,
		index:     index,
		logger:    logger,
	}
}

// Import ingests one uploaded file. filename decides the format: .epub
// runs the pandoc pipeline, .pdf is stored as-is for client-side
// rendering. Anything else is rejected before any side effect.
//
// A failed import leaves no catalog row; the book's content directory is
// removed as a unit.
func (s *ImportService) Import(ctx context.Context, filename string, data []byte) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.Validation("uploaded file is empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".epub":
		return s.importEPUB(ctx, filename, data)
	case ".pdf":
		return s.importPDF(ctx, filename, data)
	}
	return nil, errors.UnsupportedMedia("only .epub and .pdf files can be imported")
}

func (s *ImportService) importEPUB(ctx context.Context, filename string, data []byte) (*domain.Book, error) {
	if s.converter == nil {
		return nil, errors.ConversionFailed("epub import is unavailable: pandoc is not installed")
	}

	staging, err := s.content.StagingDir()
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	inputPath := filepath.Join(staging, "input.epub")
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "stage uploaded file")
	}

	start := time.Now()
	doc, err := s.converter.EPUBToHTML(ctx, inputPath, staging)
	if err != nil {
		return nil, err
	}

	split, err := splitter.Split(doc)
	if err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, err
	}

	pages := make([]string, len(split.Pages))
	for i, page := range split.Pages {
		page = normalize.ImagePaths(page, bookID)
		pages[i] = normalize.LayoutWidth(page)
	}

	if _, err := s.content.WritePages(bookID, pages, split.TOC); err != nil {
		return nil, err
	}

	// From here on the content directory exists; any failure must take
	// it down with it.
	book, err := s.registerEPUB(ctx, bookID, filename, doc, staging, pages)
	if err != nil {
		if cerr := s.content.DeleteBook(bookID); cerr != nil {
			s.logger.Warn("failed to clean up after aborted import", "book_id", bookID, "error", cerr)
		}
		return nil, err
	}

	s.logger.Info("epub imported",
		"book_id", book.ID,
		"title", book.Title,
		"pages", book.TotalPages,
		"duration", time.Since(start).String(),
	)
	return book, nil
}

func (s *ImportService) registerEPUB(ctx context.Context, bookID, filename, doc, staging string, pages []string) (*domain.Book, error) {
	media, err := convert.ListMedia(staging)
	if err != nil {
		return nil, err
	}
	var coverName string
	for _, m := range media {
		fileData, err := os.ReadFile(m.Path)
		if err != nil {
			s.logger.Warn("skipping unreadable media file", "book_id", bookID, "name", m.Name, "error", err)
			continue
		}
		if err := s.content.WriteMedia(bookID, m.Name, fileData); err != nil {
			s.logger.Warn("skipping media file", "book_id", bookID, "name", m.Name, "error", err)
			continue
		}
		if coverName == "" && looksLikeCover(m.Name) {
			coverName = m.Name
		}
	}

	book := &domain.Book{
		ID:               bookID,
		Title:            documentTitle(doc, filename),
		OriginalFilename: &filename,
		TotalPages:       len(pages),
		Type:             domain.BookTypeEPUB,
		Language:         documentLanguage(doc),
	}
	if len(pages) > 0 {
		book.Description = excerpt.FromHTML(pages[0], descriptionRunes)
	}

	if coverName != "" {
		if coverData, err := s.content.ReadMedia(bookID, coverName); err == nil {
			s.applyCover(bookID, coverData, book)
		}
	}

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

func (s *ImportService) importPDF(ctx context.Context, filename string, data []byte) (*domain.Book, error) {
	staging, err := s.content.StagingDir()
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	inputPath := filepath.Join(staging, "input.pdf")
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "stage uploaded file")
	}
	if err := convert.ValidatePDF(inputPath); err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, err
	}
	if err := s.content.WriteOriginal(bookID, ".pdf", data); err != nil {
		return nil, err
	}

	// The real page count is only known after client-side layout; the
	// renderer reports it via book update.
	book := &domain.Book{
		ID:               bookID,
		Title:            strings.TrimSuffix(filename, filepath.Ext(filename)),
		OriginalFilename: &filename,
		TotalPages:       1,
		Type:             domain.BookTypePDF,
		Language:         defaultLanguage,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		if cerr := s.content.DeleteBook(bookID); cerr != nil {
			s.logger.Warn("failed to clean up after aborted import", "book_id", bookID, "error", cerr)
		}
		return nil, err
	}

	if text, err := convert.PDFText(inputPath); err != nil {
		s.logger.Warn("pdf text extraction failed, book will not be searchable", "book_id", bookID, "error", err)
	} else {
		indexBookPages(s.index, s.logger, book, []string{strings.Join(strings.Fields(text), " ")})
	}

	s.logger.Info("pdf imported", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// applyCover stores the cover image and its blurhash placeholder. Cover
// failures degrade to a coverless book.
func (s *ImportService) applyCover(bookID string, data []byte, book *domain.Book) {
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

// looksLikeCover reports whether a media filename suggests a cover image.
// Pandoc preserves the EPUB's internal names, where covers are almost
// always named as such.
func looksLikeCover(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	return strings.Contains(base, "cover")
}

// documentTitle takes the converted document's title, falling back to the
// uploaded filename without extension.
func documentTitle(doc, filename string) string {
	if m := titlePattern.FindStringSubmatch(doc); m != nil {
		if title := strings.TrimSpace(splitter.StripText(m[1])); title != "" {
			return title
		}
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// documentLanguage reads the document's declared language, defaulting
// when absent or unparseable.
func documentLanguage(doc string) string {
	if m := htmlLangAttr.FindStringSubmatch(doc); m != nil {
		if code := normalize.LanguageCode(m[1]); code != "" {
			return code
		}
	}
	return defaultLanguage
}

var htmlLangAttr = regexp.MustCompile(`(?i)<html[^>]*\slang="([^"]+)"`)
