package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bauerDev/oda-server/internal/models"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Insert(u *models.User) error {
	u.CreatedAt = time.Now()
	res, err := r.db.conn.Exec(`
		INSERT INTO users (email, name, password_hash, user_type, institution, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Email, u.Name, u.PasswordHash, u.UserType, u.Institution, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.get(`SELECT id, email, name, password_hash, user_type, institution, created_at FROM users WHERE email = ?`, email)
}

func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	return r.get(`SELECT id, email, name, password_hash, user_type, institution, created_at FROM users WHERE id = ?`, id)
}

func (r *UserRepository) get(query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.conn.QueryRow(query, arg).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.UserType, &u.Institution, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
