// Package ui implements the interactive terminal dashboard using bubbletea's Elm architecture.
//
// The TUI gates its views on the session state:
//  1. [LoginView] : email/password sign-in, with Google sign-in and a link to registration
//  2. [RegisterView] : account creation; success returns to the login view (no auto-login)
//  3. [DashboardView] : stats cards, shorten form, searchable URL table
//  4. [ConfirmDeleteView] : explicit, cancelable confirmation before a delete
//
// The [Model] implements bubbletea's standard Init/Update/View pattern. Store
// operations run inside tea.Cmd goroutines and report back as messages; state
// is only read from the stores, never mutated directly.
//
// A session-expired signal ([SessionExpiredMsg], wired to the API client's
// 401 hook) forces navigation back to the login view no matter which view or
// operation produced it.
package ui
