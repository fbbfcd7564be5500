// Package models defines the track record held by the catalog and the rules for admitting one.
//
// The package contains three types:
//
//   - [Track] : a validated, immutable catalog entry
//   - [Candidate] : raw, string-typed input (form fields, CLI flags, CSV cells, coerced JSON values)
//   - [Key] : the (title, artist) identity pair
//
// [Candidate.Validate] is the single entry point from raw input to a [Track].
// Required fields are title, artist and a positive duration; every other field is parsed leniently,
// so a non-numeric year, rating or play count silently becomes zero rather than an error.
//
// Tracks carry no surrogate ID. Two tracks are the same entry when their [Key] values are equal,
// compared exactly and case-sensitively.
package models
