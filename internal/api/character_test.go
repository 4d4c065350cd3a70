package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bauerDev/oda-server/internal/ai"
	"github.com/bauerDev/oda-server/internal/models"
)

func insertArtwork(t *testing.T, app *App, image string) *models.Artwork {
	t.Helper()
	a := &models.Artwork{
		Title:  "The School of Athens",
		Author: "Raphael",
		Image:  image,
	}
	if err := app.ArtworkRepo.Insert(a); err != nil {
		t.Fatalf("failed to insert artwork: %v", err)
	}
	return a
}

func postAnalyze(router http.Handler, id any) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/artworks/%v/analyze-characters", id), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeCharactersHandler(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		_, router := newTestApp(t, &mockVision{})
		if rec := postAnalyze(router, "abc"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown artwork", func(t *testing.T) {
		vision := &mockVision{}
		_, router := newTestApp(t, vision)
		if rec := postAnalyze(router, 12345); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if vision.analyzeCalls != 0 {
			t.Error("model must not be called for an unknown artwork")
		}
	})

	t.Run("artwork without image", func(t *testing.T) {
		vision := &mockVision{}
		app, router := newTestApp(t, vision)
		a := insertArtwork(t, app, "")

		if rec := postAnalyze(router, a.ID); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if vision.analyzeCalls != 0 {
			t.Error("model must not be called without an image URL")
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		vision := &mockVision{analyzeErr: fmt.Errorf("quota exceeded")}
		app, router := newTestApp(t, vision)
		a := insertArtwork(t, app, "https://example.com/athens.webp")

		rec := postAnalyze(router, a.ID)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
		var errBody apiError
		if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
			t.Fatal(err)
		}
		if errBody.Message != "quota exceeded" {
			t.Errorf("upstream message not preserved: %q", errBody.Message)
		}
	})

	t.Run("parse failure is reported explicitly", func(t *testing.T) {
		vision := &mockVision{analyzeText: "no json in sight"}
		app, router := newTestApp(t, vision)
		a := insertArtwork(t, app, "https://example.com/athens.webp")

		rec := postAnalyze(router, a.ID)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["raw"] != "no json in sight" {
			t.Errorf("raw = %q", body["raw"])
		}
		if body["error"] == "" {
			t.Error("parse failure must be flagged, not silently empty")
		}
	})

	t.Run("success drops nameless figures", func(t *testing.T) {
		vision := &mockVision{
			analyzeText: `{"obra": {"title": "The School of Athens", "has_characters": true}, "personajes": [{"nombre": "Plato"}, {"disciplina": "anonymous"}]}`,
		}
		app, router := newTestApp(t, vision)
		a := insertArtwork(t, app, "https://example.com/athens.webp")

		rec := postAnalyze(router, a.ID)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var analysis ai.CharacterAnalysis
		if err := json.NewDecoder(rec.Body).Decode(&analysis); err != nil {
			t.Fatal(err)
		}
		if len(analysis.Characters) != 1 || analysis.Characters[0].Name != "Plato" {
			t.Errorf("characters = %+v, want only Plato", analysis.Characters)
		}
	})
}
