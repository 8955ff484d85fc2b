// Package dispatcher executes matched keybind actions against a page.
//
// Every failure is contained here: a missing element, a rejected script or a
// bad conditional pattern is logged and reported in the Result, and never
// returned to the keystroke listener.
//
// Conditional actions are resolved against the page path at dispatch time.
// Patterns are Go regular expressions tested in order; the first that
// matches and names a complete navigate, click or script sub-action wins.
package dispatcher
