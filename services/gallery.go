package services

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"museumwiki/metrics"
	"museumwiki/models"
)

// DefaultPageSize ist die Seitengröße der Galerie.
const DefaultPageSize = 20

// TopN ist die Anzahl der Einträge in den Statistik-Ranglisten.
const TopN = 10

// Page ist ein Ausschnitt des Snapshots.
type Page struct {
	Artworks   []models.Artwork `json:"artworks"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// HasPrev meldet, ob es eine vorherige Seite gibt.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext meldet, ob es eine nächste Seite gibt.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// Count ist ein Wert mit seiner Häufigkeit.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats fasst einen Snapshot zusammen.
type Stats struct {
	Total        int     `json:"total"`
	WithImage    int     `json:"with_image"`
	WithoutImage int     `json:"without_image"`
	TopArtists   []Count `json:"top_artists"`
	TopGenres    []Count `json:"top_genres"`
}

// GalleryService liefert die Ansichten der Galerie. Jeder Aufruf liest den Snapshot neu.
type GalleryService struct {
	DataPath string
	PageSize int
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// NewGalleryService erstellt einen neuen GalleryService.
func NewGalleryService(dataPath string, pageSize int, logger *zap.Logger, m *metrics.Metrics) *GalleryService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &GalleryService{DataPath: dataPath, PageSize: pageSize, Logger: logger, Metrics: m}
}

// LoadSnapshot liest die Latest-CSV vollständig ein. Bei Fehlern wird geloggt und ein
// leerer Snapshot geliefert, damit die Seite trotzdem ausgeliefert werden kann.
func (g *GalleryService) LoadSnapshot() models.Snapshot {
	artworks, err := g.readSnapshot()
	if g.Metrics != nil {
		g.Metrics.RecordSnapshotLoad(len(artworks), err)
	}
	if err != nil {
		g.Logger.Error("Fehler beim Laden des Snapshots", zap.String("path", g.DataPath), zap.Error(err))
		return models.Snapshot{}
	}
	return artworks
}

func (g *GalleryService) readSnapshot() (models.Snapshot, error) {
	f, err := os.Open(g.DataPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	artworks, err := ReadSnapshotCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.DataPath, err)
	}
	return artworks, nil
}

// LastUpdate liefert den Änderungszeitpunkt der Latest-Datei, ersatzweise die aktuelle Zeit.
func (g *GalleryService) LastUpdate() time.Time {
	info, err := os.Stat(g.DataPath)
	if err != nil {
		return time.Now()
	}
	return info.ModTime()
}

// ListPage liefert eine Seite des Snapshots.
func (g *GalleryService) ListPage(page int) Page {
	return Paginate(g.LoadSnapshot(), page, g.PageSize)
}

// Search sucht im Snapshot und liefert eine Seite der Treffer.
func (g *GalleryService) Search(query string, page int) Page {
	if query == "" {
		return SearchSnapshot(nil, query, page, g.PageSize)
	}
	return SearchSnapshot(g.LoadSnapshot(), query, page, g.PageSize)
}

// FilterByArtist liefert alle Werke, deren Künstlername namePart enthält.
func (g *GalleryService) FilterByArtist(namePart string) []models.Artwork {
	return FilterByArtist(g.LoadSnapshot(), namePart)
}

// ComputeStats berechnet die Statistiken des aktuellen Snapshots.
func (g *GalleryService) ComputeStats() Stats {
	return ComputeStats(g.LoadSnapshot())
}

// Head liefert die ersten limit Datensätze. Ein negatives limit liefert eine leere Liste.
func (g *GalleryService) Head(limit int) []models.Artwork {
	s := g.LoadSnapshot()
	if limit < 0 {
		limit = 0
	}
	if limit > len(s) {
		limit = len(s)
	}
	return s[:limit]
}

// Paginate schneidet [(page-1)*size, page*size) aus dem Snapshot. page < 1 wird auf 1
// gesetzt, eine Seite hinter dem Ende ist leer.
func Paginate(s models.Snapshot, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(s)
	p := Page{
		Artworks:   []models.Artwork{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}
	if page > p.TotalPages {
		return p
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	p.Artworks = s[start:end]
	return p
}

// SearchSnapshot filtert case-insensitiv auf Titel, Künstler, Ort und Genre und paginiert.
// Eine leere Suche gilt als "keine Suche": leeres Ergebnis mit einer Seite.
func SearchSnapshot(s models.Snapshot, query string, page, size int) Page {
	if query == "" {
		p := Paginate(nil, page, size)
		p.TotalPages = 1
		return p
	}

	q := strings.ToLower(query)
	matches := models.Snapshot{}
	for _, a := range s {
		if containsFold(a.Titre, q) || containsFold(a.Createur, q) ||
			containsFold(a.Lieu, q) || containsFold(a.Genre, q) {
			matches = append(matches, a)
		}
	}
	return Paginate(matches, page, size)
}

// FilterByArtist filtert case-insensitiv auf den Künstlernamen, ohne Paginierung.
func FilterByArtist(s models.Snapshot, namePart string) []models.Artwork {
	q := strings.ToLower(namePart)
	out := []models.Artwork{}
	for _, a := range s {
		if containsFold(a.Createur, q) {
			out = append(out, a)
		}
	}
	return out
}

// ComputeStats zählt Bilder und ermittelt die häufigsten Künstler und Genres.
func ComputeStats(s models.Snapshot) Stats {
	st := Stats{Total: len(s)}
	artists := make([]string, 0, len(s))
	genres := make([]string, 0, len(s))
	for _, a := range s {
		if a.HasImage() {
			st.WithImage++
		}
		artists = append(artists, a.Createur)
		genres = append(genres, a.Genre)
	}
	st.WithoutImage = st.Total - st.WithImage
	st.TopArtists = TopCounts(artists, TopN)
	st.TopGenres = TopCounts(genres, TopN)
	return st
}

// TopCounts zählt Häufigkeiten und liefert die n häufigsten Werte absteigend.
// Bei Gleichstand entscheidet das erste Vorkommen.
func TopCounts(values []string, n int) []Count {
	index := make(map[string]int)
	counts := []Count{}
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, Count{Name: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// containsFold prüft, ob lowerQuery (bereits kleingeschrieben) in s vorkommt.
func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
