// Package repolist is the repo toggle list: every repository the backend knows
// about, which of them are active, which are visible under the current filter,
// and which have a toggle request in flight.
//
// A List is filled by a Loader (all names first, then the active subset),
// narrowed by SetFilter and changed one item at a time by a Toggler. The
// package knows nothing about terminals; the TUI and the headless CLI both
// drive it.
package repolist
