// Package services wires the catalog to persistence, import/export and statistics as one session.
//
// # Library Session
//
// [Library] owns a [catalog.Store] and the [repositories.Storage] it is persisted to. Opening a
// session loads the newest snapshot; every mutation saves a new one. The CLI, the TUI and the HTTP
// server all talk to a Library rather than to the store directly.
//
// A mutex guards the store, so the duplicate check and append of concurrent adds are atomic when
// the server and other callers share one session.
//
// # Persistence Failures
//
// A snapshot that cannot be decoded is logged and the session starts empty. A failed save is
// returned wrapping [shared.ErrIO]; the in-memory change is kept and the next successful save
// persists it.
package services
