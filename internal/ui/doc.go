// Package ui holds the console palette (headings, hints, and the ✓ ⚠ ✗ → status marks) and the
// small bubbletea programs used by setup on a terminal: a text prompt for the authorization code
// and a spinner while the callback server waits.
package ui
