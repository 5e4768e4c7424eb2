// Package cli provides the interactive arch1v terminal client.
//
// It wires configuration, the local session store, the archive gateway and
// the client workflows into a read-eval-print loop whose commands depend on
// the current view:
//
//   - auth view: register, login
//   - dashboard: upload, list, locate, delete, clear, whoami, logout
//
// Status notices are printed in colour as they appear. The registry is
// mounted while the dashboard is shown and unmounted when the user leaves
// it, including when the server rejects the session.
//
// The loop is started via App.Run(ctx), which blocks until the user exits.
package cli
