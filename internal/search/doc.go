// Package search matches catalog tracks against a text query.
//
// [Search] tests the selected fields of each track (title, artist, album, genre) and keeps a track when
// any field matches. Modes:
//
//   - [Substring] : field contains query (the zero value)
//   - [Exact] : field equals query
//   - [Prefix] : field starts with query
//   - [Fuzzy] : query runes appear in the field in order, not necessarily adjacent
//   - [Pattern] : query is a regular expression (RE2 syntax)
//
// With CaseSensitive unset, field and query are lower-cased before comparison. Two modes behave differently:
// Fuzzy always folds case whatever the option says, and Pattern never folds strings but compiles the
// expression with the (?i) flag. The Fuzzy asymmetry is kept deliberately; see DESIGN.md.
//
// [Suggest] offers autocomplete over the distinct field values of a catalog, ranked by github.com/sahilm/fuzzy.
package search
