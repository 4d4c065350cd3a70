package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bauerDev/oda-server/internal/database"
	"github.com/bauerDev/oda-server/internal/models"
)

func (app *App) ListCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.currentUserID(r)
	if userID == 0 {
		app.writeError(w, http.StatusUnauthorized, "You must be signed in to view collections")
		return
	}

	collections, err := app.CollectionRepo.ListByUser(userID)
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to fetch collections")
		return
	}
	if collections == nil {
		collections = []models.Collection{}
	}
	app.writeJSON(w, http.StatusOK, collections)
}

type collectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility"`
}

func (app *App) CreateCollectionHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.currentUserID(r)
	if userID == 0 {
		app.writeError(w, http.StatusUnauthorized, "You must be signed in to create a collection")
		return
	}

	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		app.writeError(w, http.StatusBadRequest, "Collection name is required")
		return
	}

	collection := &models.Collection{
		UserID: userID,
		Name:   strings.TrimSpace(*req.Name),
	}
	if req.Description != nil {
		collection.Description = strings.TrimSpace(*req.Description)
	}
	if req.Visibility != nil {
		collection.Visibility = *req.Visibility
	}

	if err := app.CollectionRepo.Insert(collection); err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to create collection")
		return
	}
	app.writeJSON(w, http.StatusCreated, collection)
}

func (app *App) GetCollectionHandler(w http.ResponseWriter, r *http.Request) {
	collection, ok := app.ownedCollection(w, r)
	if !ok {
		return
	}
	app.writeJSON(w, http.StatusOK, collection)
}

func (app *App) UpdateCollectionHandler(w http.ResponseWriter, r *http.Request) {
	collection, ok := app.ownedCollection(w, r)
	if !ok {
		return
	}

	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	updated, err := app.CollectionRepo.Update(collection.ID, req.Name, req.Description, req.Visibility)
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to update collection")
		return
	}
	app.writeJSON(w, http.StatusOK, updated)
}

func (app *App) DeleteCollectionHandler(w http.ResponseWriter, r *http.Request) {
	collection, ok := app.ownedCollection(w, r)
	if !ok {
		return
	}

	if err := app.CollectionRepo.Delete(collection.ID); err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to delete collection")
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (app *App) ListCollectionArtworksHandler(w http.ResponseWriter, r *http.Request) {
	collection, ok := app.ownedCollection(w, r)
	if !ok {
		return
	}

	artworks, err := app.CollectionRepo.ListArtworks(collection.ID)
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to fetch collection artworks")
		return
	}
	if artworks == nil {
		artworks = []models.Artwork{}
	}
	app.writeJSON(w, http.StatusOK, artworks)
}

func (app *App) AddCollectionArtworkHandler(w http.ResponseWriter, r *http.Request) {
	collection, ok := app.ownedCollection(w, r)
	if !ok {
		return
	}
	artworkID, err := strconv.ParseInt(chi.URLParam(r, "artworkID"), 10, 64)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid artwork ID")
		return
	}
	if _, err := app.ArtworkRepo.GetByID(artworkID); err == database.ErrNotFound {
		app.writeError(w, http.StatusNotFound, "Artwork not found")
		return
	} else if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to fetch artwork")
		return
	}

	if err := app.CollectionRepo.AddArtwork(collection.ID, artworkID); err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to add artwork to collection")
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (app *App) RemoveCollectionArtworkHandler(w http.ResponseWriter, r *http.Request) {
	collection, ok := app.ownedCollection(w, r)
	if !ok {
		return
	}
	artworkID, err := strconv.ParseInt(chi.URLParam(r, "artworkID"), 10, 64)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid artwork ID")
		return
	}

	if err := app.CollectionRepo.RemoveArtwork(collection.ID, artworkID); err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to remove artwork from collection")
		return
	}
	app.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ownedCollection resolves the {id} route param and enforces the ownership
// check shared by every collection endpoint.
func (app *App) ownedCollection(w http.ResponseWriter, r *http.Request) (*models.Collection, bool) {
	userID := app.currentUserID(r)
	if userID == 0 {
		app.writeError(w, http.StatusUnauthorized, "You must be signed in")
		return nil, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid ID")
		return nil, false
	}

	collection, err := app.CollectionRepo.GetByID(id)
	if err == database.ErrNotFound {
		app.writeError(w, http.StatusNotFound, "Collection not found")
		return nil, false
	}
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to fetch collection")
		return nil, false
	}

	if collection.UserID != userID {
		app.writeError(w, http.StatusForbidden, "You do not own this collection")
		return nil, false
	}
	return collection, true
}
