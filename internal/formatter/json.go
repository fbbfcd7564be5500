package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

// Document is the structured interchange form: an object with a "tracks" array.
type Document struct {
	Tracks []models.Track `json:"tracks"`
}

// EncodeJSON renders tracks as a [Document].
func EncodeJSON(tracks []models.Track, pretty bool) ([]byte, error) {
	if tracks == nil {
		tracks = []models.Track{}
	}
	data, err := shared.MarshalJSON(Document{Tracks: tracks}, pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tracks: %w", err)
	}
	return data, nil
}

// EncodeSnapshot renders the full catalog in its persisted form, a bare JSON array.
func EncodeSnapshot(tracks []models.Track) ([]byte, error) {
	if tracks == nil {
		tracks = []models.Track{}
	}
	data, err := json.Marshal(tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeJSON parses structured input into candidates.
//
// The input may be a bare array of records or an object holding them under "tracks"; any other object
// yields no records. Field values are coerced to strings, and "play_count" stands in for a missing or
// zero "playCount". Records that are not objects are ignored. Blank input fails with
// [shared.ErrEmptyInput]; anything that is not JSON, or a top-level null, fails with [shared.ErrParse].
func DecodeJSON(data []byte) ([]models.Candidate, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, shared.ErrEmptyInput
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrParse, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", shared.ErrParse)
	}

	var records []any
	switch v := root.(type) {
	case nil:
		return nil, fmt.Errorf("%w: top-level value is null", shared.ErrParse)
	case []any:
		records = v
	case map[string]any:
		records, _ = v["tracks"].([]any)
	}

	candidates := make([]models.Candidate, 0, len(records))
	for _, r := range records {
		rec, ok := r.(map[string]any)
		if !ok {
			continue
		}
		candidates = append(candidates, recordCandidate(rec))
	}

	return candidates, nil
}

// DecodeRecord parses a single JSON object into a candidate with the same coercion rules as [DecodeJSON].
func DecodeRecord(data []byte) (models.Candidate, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Candidate{}, shared.ErrEmptyInput
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return models.Candidate{}, fmt.Errorf("%w: %v", shared.ErrParse, err)
	}
	if rec == nil {
		return models.Candidate{}, fmt.Errorf("%w: record is null", shared.ErrParse)
	}
	return recordCandidate(rec), nil
}

func recordCandidate(rec map[string]any) models.Candidate {
	playCount := scalar(rec["playCount"])
	if models.ParseFloat(playCount) == 0 {
		if fallback := scalar(rec["play_count"]); fallback != "" {
			playCount = fallback
		}
	}

	return models.Candidate{
		Title:     scalar(rec["title"]),
		Artist:    scalar(rec["artist"]),
		Duration:  scalar(rec["duration"]),
		Album:     scalar(rec["album"]),
		Genre:     scalar(rec["genre"]),
		Year:      scalar(rec["year"]),
		Rating:    scalar(rec["rating"]),
		PlayCount: playCount,
	}
}

// scalar converts a decoded JSON value to its raw string form. Non-scalar values become "".
func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// DecodeSnapshot parses a persisted catalog. The object form written by [EncodeJSON] is also accepted.
//
// Failures wrap [shared.ErrParse]. Records are not validated here.
func DecodeSnapshot(data []byte) ([]models.Track, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty snapshot", shared.ErrParse)
	}

	if trimmed[0] == '{' {
		var doc Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrParse, err)
		}
		return doc.Tracks, nil
	}

	var tracks []models.Track
	if err := json.Unmarshal(trimmed, &tracks); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrParse, err)
	}
	return tracks, nil
}
