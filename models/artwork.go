package models

// Platzhalter für fehlende Bindings beim Fetch.
const (
	UnknownTitle    = "Titre inconnu"
	UnknownArtist   = "Artiste inconnu"
	UnknownLocation = "Lieu inconnu"
)

// Placeholder ersetzt beim Laden des Snapshots jede leere Zelle.
const Placeholder = "Inconnu"

// Artwork repräsentiert ein Kunstwerk aus Wikidata, eine Zeile im Snapshot.
type Artwork struct {
	ID          string `json:"id"`
	Titre       string `json:"titre"`
	Createur    string `json:"createur"`
	CreateurID  string `json:"createur_id"`
	Date        string `json:"date"`
	ImageURL    string `json:"image_url"`
	Lieu        string `json:"lieu"`
	Genre       string `json:"genre"`
	Mouvement   string `json:"mouvement"`
	WikidataURL string `json:"wikidata_url"`
}

// Columns ist die feste Spaltenreihenfolge der CSV-Dateien.
var Columns = []string{
	"id", "titre", "createur", "createur_id", "date",
	"image_url", "lieu", "genre", "mouvement", "wikidata_url",
}

// Row gibt die Felder in der Reihenfolge von Columns zurück.
func (a Artwork) Row() []string {
	return []string{
		a.ID, a.Titre, a.Createur, a.CreateurID, a.Date,
		a.ImageURL, a.Lieu, a.Genre, a.Mouvement, a.WikidataURL,
	}
}

// field liefert einen Zeiger auf das Feld zu einem Spaltennamen.
func (a *Artwork) field(column string) *string {
	switch column {
	case "id":
		return &a.ID
	case "titre":
		return &a.Titre
	case "createur":
		return &a.Createur
	case "createur_id":
		return &a.CreateurID
	case "date":
		return &a.Date
	case "image_url":
		return &a.ImageURL
	case "lieu":
		return &a.Lieu
	case "genre":
		return &a.Genre
	case "mouvement":
		return &a.Mouvement
	case "wikidata_url":
		return &a.WikidataURL
	}
	return nil
}

// Set setzt ein Feld anhand des Spaltennamens. Unbekannte Spalten werden ignoriert.
func (a *Artwork) Set(column, value string) bool {
	if f := a.field(column); f != nil {
		*f = value
		return true
	}
	return false
}

// Normalize ersetzt alle leeren Felder durch Placeholder.
func (a *Artwork) Normalize() {
	for _, c := range Columns {
		if f := a.field(c); *f == "" {
			*f = Placeholder
		}
	}
}

// HasImage meldet, ob eine echte Bild-URL vorhanden ist.
func (a Artwork) HasImage() bool {
	return a.ImageURL != "" && a.ImageURL != Placeholder
}

// HasDate meldet, ob ein Datum vorhanden ist.
func (a Artwork) HasDate() bool {
	return a.Date != "" && a.Date != Placeholder
}
