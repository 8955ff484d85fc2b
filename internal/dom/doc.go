// Package dom is the document model the page, the selector synthesizer and
// the picker share. It wraps golang.org/x/net/html trees and answers CSS
// selector queries with cascadia.
package dom
