package models

import "time"

// ArchivedArtwork speichert ein Kunstwerk eines Fetch-Laufs im Postgres-Archiv.
type ArchivedArtwork struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	RunID     string    `json:"run_id" gorm:"index;size:36;not null"`
	FetchedAt time.Time `json:"fetched_at" gorm:"index"`
	Position  int       `json:"position"`

	WikidataID  string `json:"wikidata_id" gorm:"column:wikidata_id;index"`
	Titre       string `json:"titre"`
	Createur    string `json:"createur" gorm:"index"`
	CreateurID  string `json:"createur_id"`
	Date        string `json:"date"`
	ImageURL    string `json:"image_url" gorm:"type:text"`
	Lieu        string `json:"lieu"`
	Genre       string `json:"genre"`
	Mouvement   string `json:"mouvement"`
	WikidataURL string `json:"wikidata_url"`
}

// TableName gibt explizit den Tabellennamen an.
func (ArchivedArtwork) TableName() string {
	return "archived_artworks"
}

// NewArchivedArtwork überträgt ein Artwork in die Archiv-Form.
func NewArchivedArtwork(runID string, fetchedAt time.Time, position int, a Artwork) ArchivedArtwork {
	return ArchivedArtwork{
		RunID:       runID,
		FetchedAt:   fetchedAt,
		Position:    position,
		WikidataID:  a.ID,
		Titre:       a.Titre,
		Createur:    a.Createur,
		CreateurID:  a.CreateurID,
		Date:        a.Date,
		ImageURL:    a.ImageURL,
		Lieu:        a.Lieu,
		Genre:       a.Genre,
		Mouvement:   a.Mouvement,
		WikidataURL: a.WikidataURL,
	}
}
