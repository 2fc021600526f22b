// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI drives the export workflow as a loop:
//  1. [MenuView] : Pick one or more export actions by number
//  2. [ConfirmView] : Confirm the slow AniList import before it starts
//  3. [RunView] : Monitor real-time progress updates
//  4. [ResultView] : Display the run summary, then return to the menu
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the export engine, providing
// non-blocking status reporting during long runs.
package ui
