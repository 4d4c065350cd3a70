package models

// Artwork is a catalog entry. String fields mirror the gallery form: year,
// dimensions and location are free text, not parsed values.
type Artwork struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        string `json:"year"`
	Movement    string `json:"movement"`
	Technique   string `json:"technique"`
	Dimensions  string `json:"dimensions"`
	Location    string `json:"location"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// ArtworkPatch carries a partial update; nil fields keep their stored value.
type ArtworkPatch struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Year        *string `json:"year"`
	Movement    *string `json:"movement"`
	Technique   *string `json:"technique"`
	Dimensions  *string `json:"dimensions"`
	Location    *string `json:"location"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
}
