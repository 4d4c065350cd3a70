package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bauerDev/oda-server/internal/ai"
	"github.com/bauerDev/oda-server/internal/database"
)

// AnalyzeCharactersHandler runs the character-analysis sub-flow against an
// existing catalog artwork: fetch its stored title/author/image URL, ask the
// model for depicted figures, normalize the {obra, personajes} shape.
func (app *App) AnalyzeCharactersHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid artwork ID")
		return
	}

	if app.OpenAIKey == "" {
		app.writeError(w, http.StatusInternalServerError, "Missing OPENAI_API_KEY")
		return
	}

	artwork, err := app.ArtworkRepo.GetByID(id)
	if err == database.ErrNotFound {
		app.writeError(w, http.StatusNotFound, "Artwork not found")
		return
	}
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to fetch artwork")
		return
	}

	title := artwork.Title
	if title == "" {
		title = "Unknown artwork"
	}
	author := artwork.Author
	if author == "" {
		author = "Unknown author"
	}

	if artwork.Image == "" {
		app.writeError(w, http.StatusBadRequest, "Artwork has no image URL")
		return
	}

	raw, err := app.Vision.AnalyzeCharacters(r.Context(), title, author, artwork.Image)
	if err != nil {
		app.writeJSON(w, http.StatusBadGateway, apiError{
			Error:   "Character analysis failed",
			Message: err.Error(),
		})
		return
	}

	analysis, ok := ai.NormalizeCharacters(raw, title, author)
	if !ok {
		// This path is interactively triggered: report the parse failure
		// instead of pretending the model found zero characters.
		app.writeJSON(w, http.StatusOK, map[string]string{
			"raw":   raw,
			"error": "Could not parse JSON from model response",
		})
		return
	}

	app.writeJSON(w, http.StatusOK, analysis)
}
