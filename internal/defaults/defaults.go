// Package defaults provides the built-in keybind tables applied to sites
// that have nothing stored yet.
package defaults

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/dshills/browsermotion/internal/keybind"
)

//go:embed keybinds.json
var builtin []byte

// Builtin returns the embedded defaults document.
func Builtin() []byte {
	return append([]byte(nil), builtin...)
}

// Table holds default keybind tables in document order.
type Table struct {
	sites []keybind.SiteKeybinds

	// Skipped reports sites left out because their table failed validation.
	Skipped error
}

// Load parses the embedded document.
func Load() (*Table, error) {
	return Parse(builtin)
}

// LoadFile parses the document at path. An empty path loads the embedded
// document.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read defaults: %w", err)
	}
	return Parse(data)
}

// Parse builds a table from a {site: DomainKeybinds} document. Invalid
// sites are dropped and reported through Skipped; only a document that is
// not an object at all is an error.
func Parse(data []byte) (*Table, error) {
	sites, err := keybind.ParseDomains(data)
	if sites == nil && err != nil {
		return nil, fmt.Errorf("parse defaults: %w", err)
	}
	return &Table{sites: sites, Skipped: err}, nil
}

// Lookup returns the first site, in document order, that hostname contains.
// The returned table is a copy.
func (t *Table) Lookup(hostname string) (string, keybind.DomainKeybinds, bool) {
	if t == nil || hostname == "" {
		return "", nil, false
	}
	for _, s := range t.sites {
		if s.Site != "" && strings.Contains(hostname, s.Site) {
			return s.Site, s.Keybinds.Clone(), true
		}
	}
	return "", nil, false
}

// Sites returns the site names in document order.
func (t *Table) Sites() []string {
	out := make([]string, len(t.sites))
	for i, s := range t.sites {
		out[i] = s.Site
	}
	return out
}
