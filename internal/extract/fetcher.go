// Package extract turns an arbitrary web page into a normalized, paginated
// article: fetch, metadata extraction, main-content isolation, image
// collection, and heading-based repagination.
package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/tsuji1/hep-reader-sub001/internal/errors"
	"github.com/tsuji1/hep-reader-sub001/internal/ratelimit"
)

const (
	maxPageSize  = 10 << 20 // 10 MiB
	maxImageSize = 20 << 20 // 20 MiB
)

// Fetcher retrieves pages and images with bounded timeouts, per-host rate
// limiting, and a TTL page cache so repeated saves of the same URL do not
// refetch.
type Fetcher struct {
	client       *http.Client
	limiter      *ratelimit.HostLimiter
	cache        *badger.DB // nil disables caching
	logger       *slog.Logger
	userAgent    string
	pageTimeout  time.Duration
	imageTimeout time.Duration
	cacheTTL     time.Duration
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	UserAgent    string
	PageTimeout  time.Duration
	ImageTimeout time.Duration
	CacheTTL     time.Duration
	Cache        *badger.DB
}

// NewFetcher creates a Fetcher. A nil cache disables page caching.
func NewFetcher(opts FetcherOptions, logger *slog.Logger) *Fetcher {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 30 * time.Second
	}
	if opts.ImageTimeout <= 0 {
		opts.ImageTimeout = 15 * time.Second
	}
	return &Fetcher{
		client:       &http.Client{},
		limiter:      ratelimit.New(2, 4),
		cache:        opts.Cache,
		logger:       logger,
		userAgent:    opts.UserAgent,
		pageTimeout:  opts.PageTimeout,
		imageTimeout: opts.ImageTimeout,
		cacheTTL:     opts.CacheTTL,
	}
}

// ParseURL validates a user-supplied URL. Only http and https schemes are
// accepted.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Validationf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Validationf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.Validation("URL has no host")
	}
	return u, nil
}

// FetchPage retrieves a page body. Responses are cached with the
// configured TTL; non-2xx statuses and network failures are hard failures.
func (f *Fetcher) FetchPage(ctx context.Context, u *url.URL) ([]byte, error) {
	if body, ok := f.cacheGet(u.String()); ok {
		f.logger.Debug("page cache hit", "url", u.String())
		return body, nil
	}

	body, err := f.fetch(ctx, u, f.pageTimeout, maxPageSize)
	if err != nil {
		return nil, err
	}

	f.cacheSet(u.String(), body)
	return body, nil
}

// FetchImage retrieves one image with the shorter image timeout.
func (f *Fetcher) FetchImage(ctx context.Context, u *url.URL) ([]byte, error) {
	return f.fetch(ctx, u, f.imageTimeout, maxImageSize)
}

func (f *Fetcher) fetch(ctx context.Context, u *url.URL, timeout time.Duration, maxSize int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := f.limiter.Wait(ctx, u.Host); err != nil {
		return nil, errors.FetchFailedf("rate limit wait for %s: %v", u.Host, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.FetchFailedf("create request: %v", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.FetchFailedf("fetch %s: %v", u.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.FetchFailedf("fetch %s: status %d", u.String(), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, errors.FetchFailedf("read %s: %v", u.String(), err)
	}
	return body, nil
}

func (f *Fetcher) cacheGet(key string) ([]byte, bool) {
	if f.cache == nil {
		return nil, false
	}
	var body []byte
	err := f.cache.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return body, true
}

func (f *Fetcher) cacheSet(key string, body []byte) {
	if f.cache == nil || f.cacheTTL <= 0 {
		return
	}
	err := f.cache.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), body).WithTTL(f.cacheTTL)
		return txn.SetEntry(entry)
	})
	if err != nil {
		f.logger.Warn("page cache write failed", "url", key, "error", fmt.Sprint(err))
	}
}
