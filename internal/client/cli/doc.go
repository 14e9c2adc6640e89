// Package cli provides the interactive ccat command-line client.
//
// It wires configuration, the local session store, the API client, the
// upload queue and the file listing into a REPL. A saved session is
// restored on start, and a background watcher pings the server to show
// whether it is reachable.
//
// Commands are grouped as follows:
//   - account: register, login, logout, profile, name, avatar, passwd
//   - files: ls, find, sort, view, select, rm, star, get, url
//   - uploads: add, queue, upload
//   - diagnostics: debug
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
