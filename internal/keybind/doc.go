// Package keybind defines the per-domain keybind data model.
//
// A DomainKeybinds table maps a literal key sequence such as "gh" to an
// Action. Actions are a tagged union discriminated by Type:
//
//	navigate     sets the page location to URL
//	click        clicks the first element matching Selector
//	script       runs Script through the script capability
//	conditional  picks one of Conditions by matching the current path
//
// Stored tables are untyped JSON. Parse validates a document against the
// keybind schema and returns either a table or a *ValidationError; nothing
// downstream probes raw JSON for fields.
//
//	binds, err := keybind.Parse(data)
//	if errors.Is(err, keybind.ErrInvalid) {
//	    // discard and fall back to defaults
//	}
//
// SetBinding and DeleteBinding edit a single entry of a stored document
// without re-encoding the rest of it.
package keybind
