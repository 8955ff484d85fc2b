// Package script runs script keybind actions in a sandboxed Lua state.
//
// Each run gets a fresh state with only the base, table, string and math
// libraries. dofile, loadfile, load and loadstring are removed and there is
// no require, io or os. The page is exposed as a "page" table:
//
//	page.path()             -- current path
//	page.url()              -- current location
//	page.navigate(url)      -- set the location
//	page.click(selector)    -- click the first match; returns true if found
//	page.exists(selector)   -- true if selector matches an element
//	page.text(selector)     -- text content of the first match, or nil
//	log(...)                -- write to the application log
//
// print is routed to the log as well. A run is bounded by a timeout; scripts
// that exceed it are interrupted.
package script
