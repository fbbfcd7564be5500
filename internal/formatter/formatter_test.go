package formatter

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/shared"
)

func sampleTracks() []models.Track {
	return []models.Track{
		{Title: "Bohemian Rhapsody", Artist: "Queen", Duration: 354, Album: "A Night at the Opera", Genre: "Rock", Year: 1975, Rating: 5, PlayCount: 150},
		{Title: "Hey Jude", Artist: "The Beatles", Duration: 431, Album: "Hey Jude", Genre: "Rock", Year: 1968, Rating: 4.5, PlayCount: 90},
	}
}

func TestParseCSVLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `"Hello, World",x`, []string{"Hello, World", "x"}},
		{"escaped quote", `"He said ""hi""",y`, []string{`He said "hi"`, "y"}},
		{"empty line", "", []string{""}},
		{"trailing comma", "a,", []string{"a", ""}},
		{"empty fields", ",,", []string{"", "", ""}},
		{"quote mid field", `ab"c,d"e`, []string{"abc,de"}},
		{"unterminated quote", `"abc,def`, []string{"abc,def"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCSVLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCSVLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestEscapeCSVField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"a,b", `"a,b"`},
		{`say "x"`, `"say ""x"""`},
		{"two\nlines", "\"two\nlines\""},
	}

	for _, tt := range tests {
		if got := EscapeCSVField(tt.in); got != tt.want {
			t.Errorf("EscapeCSVField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeCSV(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		tracks := []models.Track{
			{Title: "Hey Jude", Artist: "The Beatles", Duration: 431, Genre: "Rock", Year: 1968, Rating: 4.5, PlayCount: 0},
			{Title: "Untitled", Artist: "Nobody", Duration: 60},
		}

		got := EncodeCSV(tracks)
		want := strings.Join([]string{
			CSVHeader,
			"Hey Jude,The Beatles,431,,Rock,1968,0,4.5",
			"Untitled,Nobody,60,,,,0,0",
		}, "\n")
		if got != want {
			t.Errorf("EncodeCSV() =\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("empty catalog is header only", func(t *testing.T) {
		if got := EncodeCSV(nil); got != CSVHeader {
			t.Errorf("EncodeCSV(nil) = %q, want %q", got, CSVHeader)
		}
	})

	t.Run("escapes text fields", func(t *testing.T) {
		tracks := []models.Track{{Title: "Hello, World", Artist: `The "Band"`, Duration: 10}}
		got := EncodeCSV(tracks)
		if !strings.Contains(got, `"Hello, World","The ""Band""",10`) {
			t.Errorf("EncodeCSV() did not escape fields: %q", got)
		}
	})
}

func TestDecodeCSV(t *testing.T) {
	t.Run("positional columns", func(t *testing.T) {
		content := CSVHeader + "\nHey Jude,The Beatles,431,,Rock,1968,,4.5\n"
		got, err := DecodeCSV(content)
		if err != nil {
			t.Fatalf("DecodeCSV() error = %v", err)
		}
		want := []models.Candidate{{
			Title: "Hey Jude", Artist: "The Beatles", Duration: "431", Genre: "Rock", Year: "1968", Rating: "4.5",
		}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("DecodeCSV() = %+v, want %+v", got, want)
		}

		track, err := got[0].Validate()
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if track.PlayCount != 0 || track.Year != 1968 || track.Rating != 4.5 {
			t.Errorf("Validate() = %+v", track)
		}
	})

	t.Run("header only fails", func(t *testing.T) {
		for _, content := range []string{"", "   \n  ", CSVHeader, CSVHeader + "\n\n"} {
			if _, err := DecodeCSV(content); !errors.Is(err, shared.ErrEmptyInput) {
				t.Errorf("DecodeCSV(%q) error = %v, want ErrEmptyInput", content, err)
			}
		}
	})

	t.Run("crlf line endings", func(t *testing.T) {
		content := CSVHeader + "\r\nA,B,100,,,,,3\r\nC,D,200,,,,,\r\n"
		got, err := DecodeCSV(content)
		if err != nil {
			t.Fatalf("DecodeCSV() error = %v", err)
		}
		if len(got) != 2 || got[0].Rating != "3" || got[1].Rating != "" {
			t.Errorf("DecodeCSV() = %+v", got)
		}
	})

	t.Run("short rows skipped", func(t *testing.T) {
		got, err := DecodeCSV("h\nonly,two\n\nA,B,\nC,D,5")
		if err != nil {
			t.Fatalf("DecodeCSV() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if _, err := got[0].Validate(); !errors.Is(err, shared.ErrMissingField) {
			t.Errorf("Validate() error = %v, want ErrMissingField", err)
		}
		if got[1].Title != "C" || got[1].Duration != "5" {
			t.Errorf("got[1] = %+v", got[1])
		}
	})

	t.Run("round trip", func(t *testing.T) {
		tracks := append(sampleTracks(),
			models.Track{Title: "Hello, World", Artist: `The "Quoted" Band`, Duration: 200, Album: "A, B", Rating: 3.25, PlayCount: 7},
		)

		decoded, err := DecodeCSV(EncodeCSV(tracks))
		if err != nil {
			t.Fatalf("DecodeCSV() error = %v", err)
		}
		if len(decoded) != len(tracks) {
			t.Fatalf("len = %d, want %d", len(decoded), len(tracks))
		}
		for i, c := range decoded {
			got, err := c.Validate()
			if err != nil {
				t.Fatalf("row %d: Validate() error = %v", i, err)
			}
			if got != tracks[i] {
				t.Errorf("row %d = %+v, want %+v", i, got, tracks[i])
			}
		}
	})
}

func TestJSON(t *testing.T) {
	t.Run("EncodeJSON wraps tracks", func(t *testing.T) {
		data, err := EncodeJSON(sampleTracks()[:1], false)
		if err != nil {
			t.Fatalf("EncodeJSON() error = %v", err)
		}
		want := `{"tracks":[{"title":"Bohemian Rhapsody","artist":"Queen","duration":354,"album":"A Night at the Opera","genre":"Rock","year":1975,"rating":5,"playCount":150}]}`
		if string(data) != want {
			t.Errorf("EncodeJSON() = %s, want %s", data, want)
		}
	})

	t.Run("EncodeJSON empty", func(t *testing.T) {
		data, err := EncodeJSON(nil, false)
		if err != nil {
			t.Fatalf("EncodeJSON() error = %v", err)
		}
		if string(data) != `{"tracks":[]}` {
			t.Errorf("EncodeJSON(nil) = %s", data)
		}
	})

	t.Run("DecodeJSON shapes", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			count int
		}{
			{"array", `[{"title":"A","artist":"B","duration":1}]`, 1},
			{"object", `{"tracks":[{"title":"A"},{"title":"B"}]}`, 2},
			{"object without tracks", `{"songs":[{"title":"A"}]}`, 0},
			{"tracks not array", `{"tracks":"nope"}`, 0},
			{"non-object records skipped", `[null, 3, "x", {"title":"A"}]`, 1},
			{"scalar root", `42`, 0},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := DecodeJSON([]byte(tt.input))
				if err != nil {
					t.Fatalf("DecodeJSON() error = %v", err)
				}
				if len(got) != tt.count {
					t.Errorf("len = %d, want %d", len(got), tt.count)
				}
			})
		}
	})

	t.Run("DecodeJSON errors", func(t *testing.T) {
		tests := []struct {
			input string
			want  error
		}{
			{"", shared.ErrEmptyInput},
			{"  \n ", shared.ErrEmptyInput},
			{"not json", shared.ErrParse},
			{`{"tracks":[`, shared.ErrParse},
			{"null", shared.ErrParse},
			{`[] []`, shared.ErrParse},
		}

		for _, tt := range tests {
			if _, err := DecodeJSON([]byte(tt.input)); !errors.Is(err, tt.want) {
				t.Errorf("DecodeJSON(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		}
	})

	t.Run("DecodeJSON coerces values", func(t *testing.T) {
		input := `[{"title":"A","artist":"B","duration":"431","year":1968,"rating":4.5,"play_count":12,"album":true}]`
		got, err := DecodeJSON([]byte(input))
		if err != nil {
			t.Fatalf("DecodeJSON() error = %v", err)
		}
		want := models.Candidate{Title: "A", Artist: "B", Duration: "431", Year: "1968", Rating: "4.5", PlayCount: "12"}
		if got[0] != want {
			t.Errorf("DecodeJSON() = %+v, want %+v", got[0], want)
		}
	})

	t.Run("playCount preferred over play_count", func(t *testing.T) {
		got, err := DecodeJSON([]byte(`[{"playCount":3,"play_count":12},{"playCount":0,"play_count":9}]`))
		if err != nil {
			t.Fatalf("DecodeJSON() error = %v", err)
		}
		if got[0].PlayCount != "3" || got[1].PlayCount != "9" {
			t.Errorf("play counts = %q, %q", got[0].PlayCount, got[1].PlayCount)
		}
	})

	t.Run("DecodeRecord", func(t *testing.T) {
		got, err := DecodeRecord([]byte(`{"title":"A","artist":"B","duration":90,"playCount":2}`))
		if err != nil {
			t.Fatalf("DecodeRecord() error = %v", err)
		}
		if got.Title != "A" || got.Duration != "90" || got.PlayCount != "2" {
			t.Errorf("DecodeRecord() = %+v", got)
		}

		for _, input := range []string{"[1]", "null", "{"} {
			if _, err := DecodeRecord([]byte(input)); !errors.Is(err, shared.ErrParse) {
				t.Errorf("DecodeRecord(%q) error = %v, want ErrParse", input, err)
			}
		}
	})

	t.Run("round trip", func(t *testing.T) {
		tracks := sampleTracks()
		data, err := EncodeJSON(tracks, true)
		if err != nil {
			t.Fatalf("EncodeJSON() error = %v", err)
		}
		decoded, err := DecodeJSON(data)
		if err != nil {
			t.Fatalf("DecodeJSON() error = %v", err)
		}
		for i, c := range decoded {
			got, err := c.Validate()
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got != tracks[i] {
				t.Errorf("track %d = %+v, want %+v", i, got, tracks[i])
			}
		}
	})

	t.Run("snapshot is a bare array", func(t *testing.T) {
		data, err := EncodeSnapshot(nil)
		if err != nil {
			t.Fatalf("EncodeSnapshot() error = %v", err)
		}
		if string(data) != "[]" {
			t.Errorf("EncodeSnapshot(nil) = %s, want []", data)
		}

		data, err = EncodeSnapshot(sampleTracks())
		if err != nil {
			t.Fatalf("EncodeSnapshot() error = %v", err)
		}
		decoded, err := DecodeSnapshot(data)
		if err != nil {
			t.Fatalf("DecodeSnapshot() error = %v", err)
		}
		if !reflect.DeepEqual(decoded, sampleTracks()) {
			t.Errorf("DecodeSnapshot() = %+v", decoded)
		}
	})
}

func TestM3U(t *testing.T) {
	t.Run("EncodeM3U", func(t *testing.T) {
		got := EncodeM3U(sampleTracks()[:1], "Favorites")
		want := "#EXTM3U\n#PLAYLIST:Favorites\n#EXTINF:354,Queen - Bohemian Rhapsody\nQueen - Bohemian Rhapsody.mp3\n"
		if got != want {
			t.Errorf("EncodeM3U() = %q, want %q", got, want)
		}
	})

	t.Run("DecodeM3U extended", func(t *testing.T) {
		got := DecodeM3U(EncodeM3U(sampleTracks(), "x"))
		want := []string{"Queen - Bohemian Rhapsody.mp3", "The Beatles - Hey Jude.mp3"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("DecodeM3U() = %q, want %q", got, want)
		}
	})

	t.Run("DecodeM3U simple", func(t *testing.T) {
		got := DecodeM3U("a.mp3\r\n\r\n#not-a-comment.mp3\n")
		want := []string{"a.mp3", "#not-a-comment.mp3"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("DecodeM3U() = %q, want %q", got, want)
		}
	})
}

func TestListings(t *testing.T) {
	t.Run("EncodeMarkdown", func(t *testing.T) {
		got := EncodeMarkdown(sampleTracks(), "Audio Library")
		for _, want := range []string{
			"# Audio Library",
			"**Tracks**: 2",
			"**Duration**: 13:05",
			"1. Queen - Bohemian Rhapsody (A Night at the Opera) [5:54]",
			"2. The Beatles - Hey Jude (Hey Jude) [7:11]",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("EncodeMarkdown() missing %q in:\n%s", want, got)
			}
		}
	})

	t.Run("EncodeText", func(t *testing.T) {
		got := EncodeText(sampleTracks(), "Audio Library")
		for _, want := range []string{"Library: Audio Library", "Tracks: 2", "2. The Beatles - Hey Jude"} {
			if !strings.Contains(got, want) {
				t.Errorf("EncodeText() missing %q in:\n%s", want, got)
			}
		}
	})
}
