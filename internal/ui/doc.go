// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a small workflow for exploring the catalog resolver:
//  1. [QueryView] : Enter an "artist / album / track" query
//  2. [ResolveView] : Watch the chain resolve
//  3. [DetailView] : Browse the resolved records
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Resolution runs through the same cache-aside resolver the HTTP
// handlers use, so repeated queries demonstrate cache hits.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
