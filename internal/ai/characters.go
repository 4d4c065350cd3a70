package ai

import "strings"

// WorkSummary is the "obra" object of a character analysis.
type WorkSummary struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Date          *string `json:"date"`
	Location      *string `json:"location"`
	Objective     *string `json:"objective"`
	HasCharacters bool    `json:"has_characters"`
}

// Character is one depicted figure. Name is mandatory; entries without one
// are dropped during normalization.
type Character struct {
	Name         string  `json:"nombre"`
	Discipline   *string `json:"disciplina"`
	Position     *string `json:"ubicacion"`
	VisualID     *string `json:"identificacion_visual"`
	Represents   *string `json:"representa"`
	AuthorIntent *string `json:"objetivo_del_autor"`
}

// CharacterAnalysis is the normalized {obra, personajes} response shape.
// Invariant: HasCharacters false implies an empty Characters slice.
type CharacterAnalysis struct {
	Work       WorkSummary `json:"obra"`
	Characters []Character `json:"personajes"`
}

// NormalizeCharacters converts the model's raw text into a
// CharacterAnalysis. Unlike recognition there is no soft fallback: ok false
// means the caller must report the parse failure rather than return a
// silently empty figure list. fallbackTitle and fallbackAuthor rebuild a
// minimal work summary when the model omits or mangles "obra".
func NormalizeCharacters(text, fallbackTitle, fallbackAuthor string) (*CharacterAnalysis, bool) {
	parsed, ok := ExtractJSONObject(text)
	if !ok {
		return nil, false
	}

	analysis := &CharacterAnalysis{Characters: []Character{}}

	if obra, ok := parsed["obra"].(map[string]any); ok {
		analysis.Work = WorkSummary{
			Title:         coerceString(obra["title"]),
			Author:        coerceString(obra["author"]),
			Date:          coerceString(obra["date"]),
			Location:      coerceString(obra["location"]),
			Objective:     coerceString(obra["objective"]),
			HasCharacters: asBool(obra["has_characters"]),
		}
	} else {
		analysis.Work = WorkSummary{
			Title:  coerceString(fallbackTitle),
			Author: coerceString(fallbackAuthor),
		}
	}

	explicitNo := false
	if obra, ok := parsed["obra"].(map[string]any); ok {
		if v, present := obra["has_characters"]; present {
			explicitNo = !asBool(v)
		}
	}

	if items, ok := parsed["personajes"].([]any); ok && !explicitNo {
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := coerceString(entry["nombre"])
			if name == nil {
				continue
			}
			analysis.Characters = append(analysis.Characters, Character{
				Name:         strings.TrimSpace(*name),
				Discipline:   coerceString(entry["disciplina"]),
				Position:     coerceString(entry["ubicacion"]),
				VisualID:     coerceString(entry["identificacion_visual"]),
				Represents:   coerceString(entry["representa"]),
				AuthorIntent: coerceString(entry["objetivo_del_autor"]),
			})
		}
	}

	// Keep flag and list consistent both ways: an explicit "no characters"
	// already cleared the list above, and named figures without a flag mean
	// the model simply skipped it.
	analysis.Work.HasCharacters = len(analysis.Characters) > 0

	return analysis, true
}
