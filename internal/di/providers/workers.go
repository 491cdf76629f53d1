package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/tsuji1/hep-reader-sub001/internal/config"
	"github.com/tsuji1/hep-reader-sub001/internal/inbox"
	"github.com/tsuji1/hep-reader-sub001/internal/logger"
	"github.com/tsuji1/hep-reader-sub001/internal/service"
)

// InboxWatcherHandle wraps the inbox watcher with shutdown capability.
// Watcher is nil when no inbox path is configured.
type InboxWatcherHandle struct {
	*inbox.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *InboxWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	<-h.done
	return nil
}

// ProvideInboxWatcher provides the drop-folder auto-import watcher.
func ProvideInboxWatcher(i do.Injector) (*InboxWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Inbox.Path == "" {
		log.Info("Inbox watcher disabled, no inbox path configured")
		return &InboxWatcherHandle{}, nil
	}

	importer := do.MustInvoke[*service.ImportService](i)

	w, err := inbox.New(cfg.Inbox.Path, importer, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			log.Error("Inbox watcher error", "error", err)
		}
	}()

	log.Info("Inbox watcher started", "path", cfg.Inbox.Path)

	return &InboxWatcherHandle{Watcher: w, cancel: cancel, done: done}, nil
}
