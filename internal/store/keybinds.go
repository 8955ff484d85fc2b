package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/browsermotion/internal/keybind"
)

// KeyPrefix prefixes every keybind table key.
const KeyPrefix = "keybinds_"

// KeyFor returns the store key for hostname.
func KeyFor(hostname string) string {
	return KeyPrefix + hostname
}

// HostFromKey extracts the hostname from a keybind table key.
func HostFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, KeyPrefix), true
}

// Defaults supplies the default table for a hostname.
type Defaults interface {
	Lookup(hostname string) (site string, binds keybind.DomainKeybinds, ok bool)
}

// Origin says where a loaded table came from.
type Origin uint8

const (
	// OriginEmpty means nothing was stored and no default applied.
	OriginEmpty Origin = iota

	// OriginStored means the stored table was used.
	OriginStored

	// OriginDefaults means a default table was used and written back.
	OriginDefaults
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case OriginStored:
		return "stored"
	case OriginDefaults:
		return "defaults"
	default:
		return "empty"
	}
}

// Keybinds reads and writes keybind tables.
type Keybinds struct {
	store    Store
	defaults Defaults
	logger   *slog.Logger
}

// KeybindsOption configures Keybinds.
type KeybindsOption func(*Keybinds)

// WithDefaults sets the default tables used when nothing valid is stored.
func WithDefaults(d Defaults) KeybindsOption {
	return func(k *Keybinds) {
		k.defaults = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) KeybindsOption {
	return func(k *Keybinds) {
		if l != nil {
			k.logger = l
		}
	}
}

// NewKeybinds wraps s.
func NewKeybinds(s Store, opts ...KeybindsOption) *Keybinds {
	k := &Keybinds{
		store:  s,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Store returns the underlying store.
func (k *Keybinds) Store() Store {
	return k.store
}

// Load returns the table for hostname. A stored value that fails
// validation is ignored. Without a usable stored value the first default
// site contained in hostname is used and written back; if none matches the
// table is empty. Only store read failures are returned.
func (k *Keybinds) Load(ctx context.Context, hostname string) (keybind.DomainKeybinds, Origin, error) {
	key := KeyFor(hostname)

	raw, ok, err := k.store.Get(ctx, key)
	if err != nil {
		return nil, OriginEmpty, fmt.Errorf("load %s: %w", key, err)
	}
	if ok {
		binds, err := keybind.Parse(raw)
		if err == nil {
			return binds, OriginStored, nil
		}
		k.logger.Debug("discarding malformed keybinds", "key", key, "err", err)
	}

	if k.defaults == nil {
		return keybind.DomainKeybinds{}, OriginEmpty, nil
	}
	site, binds, found := k.defaults.Lookup(hostname)
	if !found {
		return keybind.DomainKeybinds{}, OriginEmpty, nil
	}

	k.logger.Info("using default keybinds", "host", hostname, "site", site, "count", len(binds))
	if err := k.Save(ctx, hostname, binds); err != nil {
		k.logger.Warn("failed to persist default keybinds", "key", key, "err", err)
	}
	return binds, OriginDefaults, nil
}

// Raw returns the stored document for hostname, or the encoding of what
// Load would return.
func (k *Keybinds) Raw(ctx context.Context, hostname string) ([]byte, error) {
	raw, ok, err := k.store.Get(ctx, KeyFor(hostname))
	if err != nil {
		return nil, err
	}
	if ok {
		if _, perr := keybind.Parse(raw); perr == nil {
			return raw, nil
		}
	}
	binds, _, err := k.Load(ctx, hostname)
	if err != nil {
		return nil, err
	}
	return keybind.Encode(binds)
}

// Save validates binds and stores them as the whole table for hostname.
func (k *Keybinds) Save(ctx context.Context, hostname string, binds keybind.DomainKeybinds) error {
	data, err := keybind.Encode(binds)
	if err != nil {
		return err
	}
	return k.store.Set(ctx, KeyFor(hostname), data)
}

// SaveRaw validates a document and stores it unchanged.
func (k *Keybinds) SaveRaw(ctx context.Context, hostname string, doc []byte) error {
	if _, err := keybind.Parse(doc); err != nil {
		return err
	}
	return k.store.Set(ctx, KeyFor(hostname), doc)
}

// Delete removes the stored table for hostname. The next Load falls back
// to defaults.
func (k *Keybinds) Delete(ctx context.Context, hostname string) error {
	return k.store.Delete(ctx, KeyFor(hostname))
}

// Hosts returns every hostname with a stored table.
func (k *Keybinds) Hosts(ctx context.Context) ([]string, error) {
	keys, err := k.store.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}
	hosts := make([]string, 0, len(keys))
	for _, key := range keys {
		if h, ok := HostFromKey(key); ok && h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts, nil
}
