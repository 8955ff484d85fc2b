package session

import (
	"context"

	"github.com/dshills/browsermotion/internal/event"
	"github.com/dshills/browsermotion/internal/store"
)

func (s *Session) subscribe() error {
	reload, err := event.SubscribeTyped(s.bus, event.TopicKeybindsReload, func(_ context.Context, e event.Event[event.KeybindsReload]) error {
		if e.Payload.Host != "" && e.Payload.Host != s.page.Host() {
			return nil
		}
		s.goReload(nil)
		return nil
	})
	if err != nil {
		return err
	}

	toggle, err := s.bus.SubscribeFunc(event.TopicTopbarToggle, func(context.Context, any) error {
		open := !s.topbarOpen.Load()
		s.topbarOpen.Store(open)
		s.logger.Debug("topbar toggled", "open", open)
		return nil
	})
	if err != nil {
		reload.Cancel()
		return err
	}

	s.mu.Lock()
	s.subs = append(s.subs, reload, toggle)
	s.mu.Unlock()
	return nil
}

func (s *Session) unsubscribe() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

// watchLoop turns store changes for the current host into reloads.
func (s *Session) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-s.watcher.Changes():
			if !ok {
				return
			}
			host, isKeybinds := store.HostFromKey(c.Key)
			if !isKeybinds || host != s.page.Host() {
				continue
			}
			s.logger.Debug("keybinds changed on disk", "host", host, "removed", c.Removed)
			s.goReload(nil)
		case err, ok := <-s.watcher.Errors():
			if !ok {
				return
			}
			s.logger.Warn("store watcher error", "err", err)
		}
	}
}
