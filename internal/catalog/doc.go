// Package catalog implements the in-memory, ordered track collection.
//
// A [Store] owns its sequence exclusively: every query returns a copy, and every mutation goes through
// [Store.Add], [Store.Update], [Store.Remove] or [Store.BulkAdd]. Insertion order is the stored order;
// [Store.Sorted] produces display orderings without touching it.
//
// The (title, artist) [models.Key] is unique within a store. Single adds report duplicates with
// [shared.ErrDuplicateKey]; bulk adds skip them silently, including duplicates within the same batch.
//
// A Store is not safe for concurrent use. Callers sharing one across goroutines (see services.Library)
// must serialize access.
package catalog
