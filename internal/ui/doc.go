// Package ui implements an interactive terminal browser for the library using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow:
//  1. [TrackListView] : Browse and filter the catalog, cycle the sort order
//  2. [DetailView] : Every field of the selected track
//  3. [ConfirmView] : Confirm deleting the selected track
//  4. [StatsView] : Library statistics
//  5. [ExportView] : Monitor a bulk export in real time
//  6. [ResultView] : Files written by the export
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Export progress flows through a channel from the library session, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
