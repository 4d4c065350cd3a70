package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RecognitionResult is the structured outcome of one recognition attempt.
// Every field except IsArtwork is string-or-absent; values are never empty
// strings. When IsArtwork is false all other fields are nil.
type RecognitionResult struct {
	IsArtwork   bool    `json:"is_artwork"`
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Year        *string `json:"year"`
	Movement    *string `json:"movement"`
	Technique   *string `json:"technique"`
	Dimensions  *string `json:"dimensions"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// StripCodeFence returns the inner content of a ```/```json fenced block if
// one is present, otherwise the trimmed input.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// ExtractJSONObject pulls one JSON object out of loosely structured model
// text. Three stages, each a named failure mode: strip a fenced code block,
// parse the remainder directly, then parse the first-{-to-last-} substring.
// ok is false when no stage yields an object.
func ExtractJSONObject(text string) (map[string]any, bool) {
	candidate := StripCodeFence(text)

	if obj, ok := parseObject(candidate); ok {
		return obj, true
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start >= 0 && end > start {
		if obj, ok := parseObject(candidate[start : end+1]); ok {
			return obj, true
		}
	}

	return nil, false
}

func parseObject(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// NormalizeRecognition converts the model's raw text into a
// RecognitionResult. It never fails: when no JSON object can be extracted ok
// is false and the caller decides how to surface the raw text.
func NormalizeRecognition(text string) (*RecognitionResult, bool) {
	parsed, ok := ExtractJSONObject(text)
	if !ok {
		return nil, false
	}

	result := &RecognitionResult{
		IsArtwork: asBool(parsed["is_artwork"]),
	}

	// A model that claims "not an artwork" yet still fills in a title is
	// not trusted: presence false wipes every other field.
	if !result.IsArtwork {
		return result, true
	}

	result.Title = coerceString(parsed["title"])
	result.Author = coerceString(parsed["author"])
	result.Year = coerceString(parsed["year"])
	result.Movement = coerceString(parsed["movement"])
	result.Technique = coerceString(parsed["technique"])
	result.Dimensions = coerceString(parsed["dimensions"])
	result.Location = coerceString(parsed["location"])
	result.Description = coerceString(parsed["description"])
	result.ImageURL = coerceString(parsed["image_url"])

	return result, true
}

// coerceString maps any JSON value to string-or-absent: nil and
// empty-after-trim become nil, non-string scalars become their string form.
func coerceString(v any) *string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return &val
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		return &s
	case bool:
		s := strconv.FormatBool(val)
		return &s
	default:
		s := fmt.Sprint(val)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return &s
	}
}

// asBool is true only for the literal true or the string "true".
func asBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true"
	}
	return false
}
