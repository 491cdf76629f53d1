package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/tsuji1/hep-reader-sub001/internal/api"
	"github.com/tsuji1/hep-reader-sub001/internal/config"
	"github.com/tsuji1/hep-reader-sub001/internal/logger"
	"github.com/tsuji1/hep-reader-sub001/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Book:     do.MustInvoke[*service.BookService](i),
		Import:   do.MustInvoke[*service.ImportService](i),
		Article:  do.MustInvoke[*service.ArticleService](i),
		Bookmark: do.MustInvoke[*service.BookmarkService](i),
		Progress: do.MustInvoke[*service.ProgressService](i),
		Clip:     do.MustInvoke[*service.ClipService](i),
		Tag:      do.MustInvoke[*service.TagService](i),
		Search:   do.MustInvoke[*service.SearchService](i),
	}

	handler := api.NewServer(services, cfg.Server.CORSOrigins, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
