// Package repositories persists the catalog between sessions.
//
// Every backend implements [Storage], which moves one opaque snapshot (the catalog's bare JSON array)
// in and out of durable storage. Decoding and validation stay with the caller.
//
// Key Implementations:
//   - [SnapshotRepository] : SQLite history of snapshots; the newest wins and older ones are pruned
//   - [FileStore] : Single JSON file replaced atomically on every save
//   - [ExportLogRepository] : Record of every export handed to a sink
//
// Sequence numbers give snapshots a stable, human-readable order (e.g., snapshot #42) independent of UUIDs
// and creation timestamps. [NextSequence] computes them inside the inserting transaction.
package repositories
