// Package cli provides the interactive Lunar Journal command-line client.
//
// It wires configuration, the backend gateway, the session controller and
// the discovery store into a REPL with two screens: a landing screen for
// anonymous visitors and a dashboard for an authenticated session. Typical
// flow: restore the session at startup, start a background connectivity
// watcher, and execute user commands.
//
// Key features:
//   - Login / Logout with session restoration across restarts
//   - List discoveries (owner-expanded, newest first)
//   - Record a discovery with an optional photo attachment
//   - Delete own discoveries
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
