// Package cli provides the interactive admin console client.
//
// It wires configuration, the credential store, the transport client, the
// session guard and the API services behind a small REPL. The REPL tracks a
// current location the way a browser tab does: every protected command
// navigates through the guard first, and a denied navigation lands on the
// login page with the original location kept as the redirect.
//
// Key features:
//   - Login / Logout / Register, with an optional remembered login
//   - List, show, add, edit and delete student records
//   - Reload after an expired session: teardown, initialize, re-evaluate
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
