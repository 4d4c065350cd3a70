package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bauerDev/oda-server/internal/ai"
	"github.com/bauerDev/oda-server/internal/database"
	"github.com/bauerDev/oda-server/internal/session"
)

const sessionCookieName = "oda_session"

type App struct {
	DB             *database.DB
	ArtworkRepo    *database.ArtworkRepository
	UserRepo       *database.UserRepository
	CollectionRepo *database.CollectionRepository
	Sessions       *session.Store
	Vision         ai.VisionClient
	OpenAIKey      string
	MaxUploadSize  int64
}

// apiError is the JSON error body shared by every endpoint.
type apiError struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (app *App) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "err", err)
	}
}

func (app *App) writeError(w http.ResponseWriter, status int, errText string) {
	app.writeJSON(w, status, apiError{Error: errText})
}

type sessionCtxKey struct{}

// withSession ensures every request carries a server-side session, creating
// one and setting the cookie on first contact.
func (app *App) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session

		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if s, ok := app.Sessions.Get(cookie.Value); ok {
				sess = s
			}
		}
		if sess == nil {
			sess = app.Sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *App) sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionCtxKey{}).(*session.Session)
	return sess
}

// currentUserID returns the signed-in user for the request, or 0.
func (app *App) currentUserID(r *http.Request) int64 {
	if sess := app.sessionFrom(r); sess != nil {
		return sess.UserID()
	}
	return 0
}
