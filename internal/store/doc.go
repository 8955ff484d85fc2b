// Package store persists keybind tables.
//
// A Store is a flat key-value map of raw bytes. Keybind tables live under
// "keybinds_<hostname>". Three backends exist:
//
//	bbolt   single-file transactional database (default)
//	file    one JSON file per key in a directory; edits made by other
//	        processes are reported by a Watcher
//	memory  process-local map
//
// Keybinds layers table semantics on top: validation on save, and on load
// the fallback to the default tables with write-back.
package store
