package store

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of file events for one key.
const DefaultDebounce = 100 * time.Millisecond

// Change reports that the value under Key was written or removed by
// someone, possibly another process.
type Change struct {
	Key       string
	Removed   bool
	Timestamp time.Time
}

// Watcher reports changes to a FileStore directory.
type Watcher struct {
	mu sync.Mutex

	fsw   *fsnotify.Watcher
	delay time.Duration

	pending map[string]*time.Timer
	removed map[string]bool

	changes chan Change
	errors  chan error

	totalChanges atomic.Int64
	totalErrors  atomic.Int64

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Watch starts watching the store directory. Rapid events for one key are
// merged into a single Change after delay; zero means DefaultDebounce.
func (s *FileStore) Watch(delay time.Duration) (*Watcher, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(s.dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		delay:   delay,
		pending: make(map[string]*time.Timer),
		removed: make(map[string]bool),
		changes: make(chan Change, 64),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Changes returns the change channel. It is closed by Close.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stats returns the number of changes delivered and errors seen.
func (w *Watcher) Stats() (changes, errors int64) {
	return w.totalChanges.Load(), w.totalErrors.Load()
}

// Close stops the watcher. Pending debounced changes are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for _, t := range w.pending {
		t.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.closedWg.Wait()

	w.mu.Lock()
	close(w.changes)
	close(w.errors)
	w.mu.Unlock()
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.totalErrors.Add(1)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	key, ok := keyFromFile(filepath.Base(ev.Name))
	if !ok {
		return
	}
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	gone := ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	w.removed[key] = gone
	if t, ok := w.pending[key]; ok {
		t.Reset(w.delay)
		return
	}
	w.pending[key] = time.AfterFunc(w.delay, func() { w.flush(key) })
}

func (w *Watcher) flush(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[key]; w.closed || !ok {
		return
	}
	removed := w.removed[key]
	delete(w.pending, key)
	delete(w.removed, key)

	select {
	case w.changes <- Change{Key: key, Removed: removed, Timestamp: time.Now()}:
		w.totalChanges.Add(1)
	default:
		w.totalErrors.Add(1)
	}
}
