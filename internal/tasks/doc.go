// Package tasks moves tracks in and out of a catalog with real-time progress reporting.
//
// # Core Operations
//
//  1. [Importer] : Delimited text or JSON into a catalog
//     - Decodes the whole input first, so a structural failure changes nothing
//     - Merges records through the catalog's bulk-add rules (invalid and duplicate records are skipped)
//     - Optionally persists the catalog afterwards
//     - Returns a summary with the added tracks
//
//  2. [Exporter] : Tracks into a downloadable [Payload]
//     - Formats: csv, json, m3u, markdown, txt
//     - Scopes pick the filename (whole library, current view, search results)
//     - Never mutates its input
//
//  3. [Exporter.BulkExport] : Several formats at once
//     - Worker pool writing through a [Sink]
//     - Writes a manifest summarizing every file
//
// # Progress Reporting
//
// All operations accept an optional channel for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for UI rendering.
// Updates use select with default to prevent blocking.
package tasks
