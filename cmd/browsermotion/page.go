package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/browsermotion/internal/dispatcher"
	"github.com/dshills/browsermotion/internal/dom"
	"github.com/dshills/browsermotion/internal/event"
	"github.com/dshills/browsermotion/internal/input"
	"github.com/dshills/browsermotion/internal/page"
	"github.com/dshills/browsermotion/internal/script"
	"github.com/dshills/browsermotion/internal/session"
	"github.com/dshills/browsermotion/internal/store"
)

const fetchTimeout = 15 * time.Second

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().String("html", "", "Read the page from this HTML file instead of fetching the URL")
	cmd.Flags().Bool("offline", false, "Do not fetch documents when navigating")
}

// openPage builds the page at rawURL. With --html the document comes from a
// file; otherwise it is fetched, and later navigations fetch too unless
// --offline is set.
func openPage(ctx context.Context, cmd *cobra.Command, e *env, rawURL string) (*page.Page, error) {
	htmlPath, _ := cmd.Flags().GetString("html")
	offline, _ := cmd.Flags().GetBool("offline")

	opts := []page.Option{page.WithLogger(e.logger.With("component", "page"))}
	loader := page.NewHTTPLoader(fetchTimeout)
	if !offline && htmlPath == "" {
		opts = append(opts, page.WithLoader(loader))
	}

	var doc *dom.Document
	switch {
	case htmlPath != "":
		f, err := os.Open(htmlPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if doc, err = dom.Parse(f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", htmlPath, err)
		}
	case !offline:
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		if doc, err = loader.Load(ctx, u); err != nil {
			return nil, err
		}
	}
	return page.New(rawURL, doc, opts...)
}

// startSession runs a session for p and waits for its first table load.
func startSession(ctx context.Context, e *env, p *page.Page, bus event.Bus) (*session.Session, error) {
	opts := []session.Option{
		session.WithInputConfig(input.Config{SequenceTimeout: e.cfg.Input.SequenceTimeout}),
		session.WithUIRoot(e.cfg.Picker.UIRoot),
		session.WithLogger(e.logger),
	}
	if e.cfg.Script.Enabled {
		opts = append(opts, session.WithScriptRunner(scriptRunner(e, p)))
	}
	if fs, ok := e.store.(*store.FileStore); ok && e.cfg.Store.Watch {
		w, err := fs.Watch(store.DefaultDebounce)
		if err != nil {
			e.logger.Warn("store watch unavailable", "err", err)
		} else {
			opts = append(opts, session.WithWatcher(w))
		}
	}

	s := session.New(p, e.keybinds, bus, opts...)
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	select {
	case <-s.Loaded():
	case <-ctx.Done():
		_ = s.Close()
		return nil, ctx.Err()
	}
	return s, nil
}

func scriptRunner(e *env, p dispatcher.Page) dispatcher.ScriptRunner {
	return script.NewRunner(p,
		script.WithTimeout(e.cfg.Script.Timeout),
		script.WithLogger(e.logger.With("component", "script")),
	)
}
