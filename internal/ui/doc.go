// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multiselect picker for choosing sync sources: it lists
// the playlists on the authenticated channel, lets the user toggle entries
// with the space bar, and confirms the selection with enter. The selected
// playlist ids become the sync_from list of a config rule.
//
// The [Picker] implements bubbletea/Elm's standard Init/Update/View pattern,
// receiving messages via the Msg union type.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
