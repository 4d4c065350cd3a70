package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.withSession)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/ai-recognition", app.RecognitionHandler)
		r.Get("/ai-recognition/preview", app.PreviewHandler)

		r.Route("/artworks", func(r chi.Router) {
			r.Get("/", app.ListArtworksHandler)
			r.Post("/", app.CreateArtworkHandler)
			r.Get("/{id}", app.GetArtworkHandler)
			r.Put("/{id}", app.UpdateArtworkHandler)
			r.Patch("/{id}", app.UpdateArtworkHandler)
			r.Delete("/{id}", app.DeleteArtworkHandler)
			r.Post("/{id}/analyze-characters", app.AnalyzeCharactersHandler)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.RegisterHandler)
			r.Post("/login", app.LoginHandler)
			r.Post("/logout", app.LogoutHandler)
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", app.ListCollectionsHandler)
			r.Post("/", app.CreateCollectionHandler)
			r.Get("/{id}", app.GetCollectionHandler)
			r.Put("/{id}", app.UpdateCollectionHandler)
			r.Delete("/{id}", app.DeleteCollectionHandler)
			r.Get("/{id}/artworks", app.ListCollectionArtworksHandler)
			r.Post("/{id}/artworks/{artworkID}", app.AddCollectionArtworkHandler)
			r.Delete("/{id}/artworks/{artworkID}", app.RemoveCollectionArtworkHandler)
		})
	})

	return r
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
