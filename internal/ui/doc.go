// Package ui implements interactive terminal views using bubbletea's Elm architecture.
//
// Two models are provided:
//  1. [SearchModel] : type a query, browse track results, play one (enter) or open it in the browser (o)
//  2. [VolumeModel] : pick a volume preset and apply it
//
// Both implement bubbletea's Init/Update/View pattern and receive results via the Msg union type.
// Remote calls run inside [tea.Cmd] functions, one at a time.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
