package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bauerDev/oda-server/internal/database"
	"github.com/bauerDev/oda-server/internal/models"
)

func (app *App) ListArtworksHandler(w http.ResponseWriter, r *http.Request) {
	artworks, err := app.ArtworkRepo.List()
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to fetch artworks")
		return
	}
	if artworks == nil {
		artworks = []models.Artwork{}
	}
	app.writeJSON(w, http.StatusOK, artworks)
}

func (app *App) CreateArtworkHandler(w http.ResponseWriter, r *http.Request) {
	var artwork models.Artwork
	if err := json.NewDecoder(r.Body).Decode(&artwork); err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if artwork.Title == "" || artwork.Author == "" || artwork.Image == "" {
		app.writeError(w, http.StatusBadRequest, "title, author and image are required")
		return
	}

	if err := app.ArtworkRepo.Insert(&artwork); err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to create artwork")
		return
	}
	app.writeJSON(w, http.StatusCreated, artwork)
}

func (app *App) GetArtworkHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.artworkID(w, r)
	if !ok {
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
	app.writeJSON(w, http.StatusOK, artwork)
}

func (app *App) UpdateArtworkHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.artworkID(w, r)
	if !ok {
		return
	}

	var patch models.ArtworkPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	artwork, err := app.ArtworkRepo.Update(id, &patch)
	if err == database.ErrNotFound {
		app.writeError(w, http.StatusNotFound, "Artwork not found")
		return
	}
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to update artwork")
		return
	}
	app.writeJSON(w, http.StatusOK, artwork)
}

func (app *App) DeleteArtworkHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.artworkID(w, r)
	if !ok {
		return
	}

	err := app.ArtworkRepo.Delete(id)
	if err == database.ErrNotFound {
		app.writeError(w, http.StatusNotFound, "Artwork not found")
		return
	}
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to delete artwork")
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (app *App) artworkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}
