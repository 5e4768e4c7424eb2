// Package client contains the client-side building blocks of arch1v.
//
// # Overview
//
// The package provides:
//  1. The Archive interface, the full server contract used by the rest of
//     the client: register, login, upload, list, locate, delete and clear.
//  2. HTTPClient, its HTTP/JSON implementation. It attaches the bearer
//     token when one exists, streams uploads as multipart bodies and turns
//     non-2xx answers into *RequestError.
//  3. Local persistence bootstrap (OpenStorage, InitDatabase, RunMigrations)
//     for the SQLite and Badger backends.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable for transport failures and ErrUnauthorized for a rejected
// session. A 401 answer also logs the session out and navigates to the
// login view before the error is returned. Message extracts the text to
// show for any returned error.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every operation takes a
// context.Context; there are no timeouts or retries beyond it.
package client
