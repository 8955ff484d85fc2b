package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/net/html"

	"github.com/dshills/browsermotion/internal/dispatcher"
	"github.com/dshills/browsermotion/internal/dom"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// locator is implemented by pages that know their full location.
type locator interface {
	URL() *url.URL
}

// Runner executes scripts against a page.
type Runner struct {
	page    dispatcher.Page
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-run time budget. Zero or negative means
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger that receives print and log output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner. page may be nil; page functions then raise
// an error inside the script.
func NewRunner(page dispatcher.Page, opts ...Option) *Runner {
	r := &Runner{
		page:    page,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run compiles and executes source. Failures are returned as *Error, or
// ErrTimeout when the budget runs out.
func (r *Runner) Run(ctx context.Context, source string) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	L := newSandboxedState()
	defer L.Close()
	L.SetContext(ctx)
	r.install(ctx, L)

	defer func() {
		if rec := recover(); rec != nil {
			err = &Error{Phase: PhaseRun, Err: fmt.Errorf("lua panic: %v", rec)}
		}
	}()

	fn, err := L.LoadString(source)
	if err != nil {
		return &Error{Phase: PhaseCompile, Err: err}
	}

	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &Error{Phase: PhaseRun, Err: err}
	}
	return nil
}

func (r *Runner) install(ctx context.Context, L *lua.LState) {
	logFn := L.NewFunction(func(L *lua.LState) int {
		r.logger.Info("script output", "text", joinArgs(L))
		return 0
	})
	L.SetGlobal("print", logFn)
	L.SetGlobal("log", logFn)

	api := map[string]lua.LGFunction{
		"path": func(L *lua.LState) int {
			L.Push(lua.LString(r.mustPage(L).Path()))
			return 1
		},
		"url": func(L *lua.LState) int {
			p := r.mustPage(L)
			if loc, ok := p.(locator); ok {
				L.Push(lua.LString(loc.URL().String()))
				return 1
			}
			L.Push(lua.LString(p.Path()))
			return 1
		},
		"navigate": func(L *lua.LState) int {
			target := L.CheckString(1)
			if err := r.mustPage(L).Navigate(ctx, target); err != nil {
				L.RaiseError("navigate %s: %v", target, err)
			}
			return 0
		},
		"click": func(L *lua.LState) int {
			p := r.mustPage(L)
			el := r.query(L, p, L.CheckString(1))
			if el == nil {
				L.Push(lua.LFalse)
				return 1
			}
			if err := p.Click(ctx, el); err != nil {
				L.RaiseError("click: %v", err)
			}
			L.Push(lua.LTrue)
			return 1
		},
		"exists": func(L *lua.LState) int {
			p := r.mustPage(L)
			L.Push(lua.LBool(r.query(L, p, L.CheckString(1)) != nil))
			return 1
		},
		"text": func(L *lua.LState) int {
			p := r.mustPage(L)
			el := r.query(L, p, L.CheckString(1))
			if el == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(strings.TrimSpace(dom.Text(el))))
			return 1
		},
	}
	L.SetGlobal("page", L.SetFuncs(L.NewTable(), api))
}

func (r *Runner) mustPage(L *lua.LState) dispatcher.Page {
	if r.page == nil {
		L.RaiseError("%v", ErrNoPage)
	}
	return r.page
}

func (r *Runner) query(L *lua.LState, p dispatcher.Page, sel string) *html.Node {
	el, err := p.QuerySelector(sel)
	if err != nil {
		L.RaiseError("%v", err)
	}
	return el
}

func joinArgs(L *lua.LState) string {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	return strings.Join(parts, "\t")
}
