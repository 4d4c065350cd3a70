package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bauerDev/oda-server/internal/models"
)

type CollectionRepository struct {
	db *DB
}

func NewCollectionRepository(db *DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Insert(c *models.Collection) error {
	if c.Visibility != models.VisibilityPublic {
		c.Visibility = models.VisibilityPrivate
	}
	c.CreatedAt = time.Now()
	res, err := r.db.conn.Exec(`
		INSERT INTO collections (user_id, name, description, visibility, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.UserID, c.Name, c.Description, c.Visibility, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read collection id: %w", err)
	}
	return nil
}

func (r *CollectionRepository) GetByID(id int64) (*models.Collection, error) {
	var c models.Collection
	err := r.db.conn.QueryRow(`
		SELECT id, user_id, name, description, visibility, created_at
		FROM collections WHERE id = ?`, id).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Visibility, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return &c, nil
}

func (r *CollectionRepository) ListByUser(userID int64) ([]models.Collection, error) {
	rows, err := r.db.conn.Query(`
		SELECT id, user_id, name, description, visibility, created_at
		FROM collections WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Visibility, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *CollectionRepository) Update(id int64, name, description, visibility *string) (*models.Collection, error) {
	// Same rule as Insert: anything that is not explicitly public is private.
	if visibility != nil && *visibility != models.VisibilityPublic {
		private := models.VisibilityPrivate
		visibility = &private
	}
	_, err := r.db.conn.Exec(`
		UPDATE collections SET
			name = COALESCE(?, name),
			description = COALESCE(?, description),
			visibility = COALESCE(?, visibility)
		WHERE id = ?`, name, description, visibility, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}
	return r.GetByID(id)
}

func (r *CollectionRepository) Delete(id int64) error {
	if _, err := r.db.conn.Exec(`DELETE FROM collection_artworks WHERE collection_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear collection artworks: %w", err)
	}
	res, err := r.db.conn.Exec(`DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CollectionRepository) AddArtwork(collectionID, artworkID int64) error {
	_, err := r.db.conn.Exec(`
		INSERT OR IGNORE INTO collection_artworks (collection_id, artwork_id) VALUES (?, ?)`,
		collectionID, artworkID)
	if err != nil {
		return fmt.Errorf("failed to add artwork to collection: %w", err)
	}
	return nil
}

func (r *CollectionRepository) RemoveArtwork(collectionID, artworkID int64) error {
	_, err := r.db.conn.Exec(`
		DELETE FROM collection_artworks WHERE collection_id = ? AND artwork_id = ?`,
		collectionID, artworkID)
	if err != nil {
		return fmt.Errorf("failed to remove artwork from collection: %w", err)
	}
	return nil
}

func (r *CollectionRepository) ListArtworks(collectionID int64) ([]models.Artwork, error) {
	rows, err := r.db.conn.Query(`
		SELECT a.id, a.title, a.author, a.year, a.movement, a.technique, a.dimensions, a.location, a.image, a.description
		FROM artworks a
		JOIN collection_artworks ca ON ca.artwork_id = a.id
		WHERE ca.collection_id = ?
		ORDER BY a.id`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection artworks: %w", err)
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
