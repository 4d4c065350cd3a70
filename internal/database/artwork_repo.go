package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bauerDev/oda-server/internal/models"
)

// ErrNotFound is returned by repositories when the requested row does not
// exist.
var ErrNotFound = errors.New("not found")

type ArtworkRepository struct {
	db *DB
}

func NewArtworkRepository(db *DB) *ArtworkRepository {
	return &ArtworkRepository{db: db}
}

func (r *ArtworkRepository) Insert(a *models.Artwork) error {
	res, err := r.db.conn.Exec(`
		INSERT INTO artworks (title, author, year, movement, technique, dimensions, location, image, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Author, a.Year, a.Movement, a.Technique, a.Dimensions, a.Location, a.Image, a.Description)
	if err != nil {
		return fmt.Errorf("failed to insert artwork: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read artwork id: %w", err)
	}
	return nil
}

func (r *ArtworkRepository) GetByID(id int64) (*models.Artwork, error) {
	var a models.Artwork
	err := r.db.conn.QueryRow(`
		SELECT id, title, author, year, movement, technique, dimensions, location, image, description
		FROM artworks WHERE id = ?`, id).
		Scan(&a.ID, &a.Title, &a.Author, &a.Year, &a.Movement, &a.Technique, &a.Dimensions, &a.Location, &a.Image, &a.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artwork: %w", err)
	}
	return &a, nil
}

func (r *ArtworkRepository) List() ([]models.Artwork, error) {
	rows, err := r.db.conn.Query(`
		SELECT id, title, author, year, movement, technique, dimensions, location, image, description
		FROM artworks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	defer rows.Close()

	var artworks []models.Artwork
	for rows.Next() {
		var a models.Artwork
		if err := rows.Scan(&a.ID, &a.Title, &a.Author, &a.Year, &a.Movement, &a.Technique, &a.Dimensions, &a.Location, &a.Image, &a.Description); err != nil {
			return nil, fmt.Errorf("failed to scan artwork: %w", err)
		}
		artworks = append(artworks, a)
	}
	return artworks, rows.Err()
}

// Update patches only the fields present in patch, keeping stored values for
// the rest, and returns the updated row.
func (r *ArtworkRepository) Update(id int64, patch *models.ArtworkPatch) (*models.Artwork, error) {
	_, err := r.db.conn.Exec(`
		UPDATE artworks SET
			title = COALESCE(?, title),
			author = COALESCE(?, author),
			year = COALESCE(?, year),
			movement = COALESCE(?, movement),
			technique = COALESCE(?, technique),
			dimensions = COALESCE(?, dimensions),
			location = COALESCE(?, location),
			image = COALESCE(?, image),
			description = COALESCE(?, description)
		WHERE id = ?`,
		patch.Title, patch.Author, patch.Year, patch.Movement, patch.Technique,
		patch.Dimensions, patch.Location, patch.Image, patch.Description, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update artwork: %w", err)
	}
	return r.GetByID(id)
}

func (r *ArtworkRepository) Delete(id int64) error {
	res, err := r.db.conn.Exec(`DELETE FROM artworks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete artwork: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete artwork: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
