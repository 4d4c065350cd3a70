package ai

import (
	"encoding/json"
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestNormalizeRecognition(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   *RecognitionResult
	}{
		{
			name:   "plain JSON object",
			input:  `{"is_artwork": true, "title": "Las Meninas", "author": "Velázquez"}`,
			wantOK: true,
			want: &RecognitionResult{
				IsArtwork: true,
				Title:     strPtr("Las Meninas"),
				Author:    strPtr("Velázquez"),
			},
		},
		{
			name:   "whitespace-only field elided",
			input:  `{"is_artwork": true, "title": "  ", "author": "Rembrandt"}`,
			wantOK: true,
			want: &RecognitionResult{
				IsArtwork: true,
				Author:    strPtr("Rembrandt"),
			},
		},
		{
			name:   "presence false suppresses populated fields",
			input:  "Sure! ```json\n{\"is_artwork\": false, \"title\": \"Mona Lisa\"}\n```",
			wantOK: true,
			want:   &RecognitionResult{IsArtwork: false},
		},
		{
			name:   "string true counts as presence",
			input:  `{"is_artwork": "true", "title": "Guernica"}`,
			wantOK: true,
			want: &RecognitionResult{
				IsArtwork: true,
				Title:     strPtr("Guernica"),
			},
		},
		{
			name:   "non-string values coerced to strings",
			input:  `{"is_artwork": true, "year": 1503, "title": "La Gioconda"}`,
			wantOK: true,
			want: &RecognitionResult{
				IsArtwork: true,
				Title:     strPtr("La Gioconda"),
				Year:      strPtr("1503"),
			},
		},
		{
			name:   "fenced code block",
			input:  "```json\n{\"is_artwork\": true, \"title\": \"The Night Watch\"}\n```",
			wantOK: true,
			want: &RecognitionResult{
				IsArtwork: true,
				Title:     strPtr("The Night Watch"),
			},
		},
		{
			name:   "JSON embedded in prose",
			input:  `Here is what I found: {"is_artwork": true, "title": "The Scream"} Hope that helps!`,
			wantOK: true,
			want: &RecognitionResult{
				IsArtwork: true,
				Title:     strPtr("The Scream"),
			},
		},
		{
			name:   "missing presence flag means not an artwork",
			input:  `{"title": "Something"}`,
			wantOK: true,
			want:   &RecognitionResult{IsArtwork: false},
		},
		{
			name:   "no JSON at all",
			input:  "I'm sorry, I cannot identify this image.",
			wantOK: false,
		},
		{
			name:   "top-level array is not an object",
			input:  `[1, 2, 3]`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeRecognition(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeRecognition ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeRecognition = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeRecognitionIdempotent(t *testing.T) {
	input := "```json\n{\"is_artwork\": true, \"title\": \"Starry Night\", \"year\": 1889, \"movement\": \"Post-Impressionism\"}\n```"

	first, ok := NormalizeRecognition(input)
	if !ok {
		t.Fatal("first normalization failed")
	}
	second, ok := NormalizeRecognition(input)
	if !ok {
		t.Fatal("second normalization failed")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalization not idempotent: %+v vs %+v", first, second)
	}

	// A serialized result survives another pass unchanged, which is what the
	// preview's defensive re-parse relies on.
	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	reparsed, ok := NormalizeRecognition(string(encoded))
	if !ok {
		t.Fatal("re-parse of serialized result failed")
	}
	if !reflect.DeepEqual(first, reparsed) {
		t.Errorf("re-parse changed the result: %+v vs %+v", first, reparsed)
	}
}

func TestNormalizeRecognitionNeverEmptyStrings(t *testing.T) {
	input := `{"is_artwork": true, "title": "", "author": " ", "year": "\t\n", "technique": "Oil on canvas"}`

	got, ok := NormalizeRecognition(input)
	if !ok {
		t.Fatal("normalization failed")
	}
	for name, field := range map[string]*string{
		"title":  got.Title,
		"author": got.Author,
		"year":   got.Year,
	} {
		if field != nil {
			t.Errorf("%s = %q, want nil", name, *field)
		}
	}
	if got.Technique == nil || *got.Technique != "Oil on canvas" {
		t.Errorf("technique = %v, want Oil on canvas", got.Technique)
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{"direct object", `{"a": 1}`, true},
		{"fenced with tag", "```json\n{\"a\": 1}\n```", true},
		{"fenced without tag", "```\n{\"a\": 1}\n```", true},
		{"leading and trailing prose", `The answer is {"a": 1}, obviously.`, true},
		{"no braces", "no json here", false},
		{"broken braces", "look { this is not json }", false},
		{"empty input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractJSONObject(tt.input)
			if ok != tt.wantOK {
				t.Errorf("ExtractJSONObject(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	if got := StripCodeFence("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("StripCodeFence = %q", got)
	}
	if got := StripCodeFence("  plain text  "); got != "plain text" {
		t.Errorf("StripCodeFence = %q", got)
	}
}
