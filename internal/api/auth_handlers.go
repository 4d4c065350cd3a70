package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/bauerDev/oda-server/internal/database"
	"github.com/bauerDev/oda-server/internal/models"
)

type registerRequest struct {
	Name            string `json:"nombre"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	UserType        string `json:"tipo_usuario"`
	Institution     string `json:"institucion"`
}

func (app *App) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		app.writeError(w, http.StatusBadRequest, "Email, password and full name are required")
		return
	}
	if len(req.Password) < 8 {
		app.writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}
	if req.Password != req.ConfirmPassword {
		app.writeError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	if _, err := app.UserRepo.GetByEmail(req.Email); err == nil {
		app.writeError(w, http.StatusBadRequest, "An account with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	userType := req.UserType
	if userType == "" {
		userType = "alumno"
	}

	user := &models.User{
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		UserType:     userType,
		Institution:  strings.TrimSpace(req.Institution),
	}
	if err := app.UserRepo.Insert(user); err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	app.writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Account created"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := app.UserRepo.GetByEmail(req.Email)
	if err == database.ErrNotFound {
		app.writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		app.writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if sess := app.sessionFrom(r); sess != nil {
		sess.SetUserID(user.ID)
	}
	app.writeJSON(w, http.StatusOK, user)
}

func (app *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if sess := app.sessionFrom(r); sess != nil {
		sess.SetUserID(0)
	}
	app.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
