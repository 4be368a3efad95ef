package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"museumwiki/metrics"
	"museumwiki/models"
)

// ErrNoData wird von Save zurückgegeben, wenn der Fetch keine Kunstwerke geliefert hat.
var ErrNoData = errors.New("keine Daten abgerufen")

const timestampLayout = "20060102_150405"

// SnapshotMirror lädt Snapshot-Dateien zusätzlich in einen Objektspeicher hoch.
type SnapshotMirror interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}

// SnapshotArchive speichert die Datensätze eines Laufs dauerhaft in einer Datenbank.
type SnapshotArchive interface {
	Store(ctx context.Context, runID string, fetchedAt time.Time, artworks []models.Artwork) error
}

// SnapshotFiles beschreibt das Ergebnis eines erfolgreichen Save.
type SnapshotFiles struct {
	RunID      string    `json:"run_id"`
	CreatedAt  time.Time `json:"created_at"`
	JSONPath   string    `json:"json_path"`
	CSVPath    string    `json:"csv_path"`
	LatestPath string    `json:"latest_path"`
	Count      int       `json:"count"`
	WithImage  int       `json:"with_image"`
	WithDate   int       `json:"with_date"`
}

// SnapshotWriter persistiert Fetch-Ergebnisse als JSON und CSV.
type SnapshotWriter struct {
	Dir        string
	LatestPath string
	Logger     *zap.Logger
	Metrics    *metrics.Metrics

	// optional
	Mirror  SnapshotMirror
	Archive SnapshotArchive

	Now func() time.Time
}

// NewSnapshotWriter erstellt einen Writer für dir, der latestPath bei jedem Save überschreibt.
func NewSnapshotWriter(dir, latestPath string, logger *zap.Logger, m *metrics.Metrics) *SnapshotWriter {
	return &SnapshotWriter{
		Dir:        dir,
		LatestPath: latestPath,
		Logger:     logger,
		Metrics:    m,
		Now:        time.Now,
	}
}

// Save schreibt artworks_<ts>.json, artworks_<ts>.csv und ersetzt die Latest-CSV.
// Bei leerer Liste wird nichts geschrieben und ErrNoData zurückgegeben.
func (w *SnapshotWriter) Save(ctx context.Context, artworks []models.Artwork) (*SnapshotFiles, error) {
	if len(artworks) == 0 {
		return nil, ErrNoData
	}

	now := w.Now()
	ts := now.Format(timestampLayout)
	files := &SnapshotFiles{
		RunID:      uuid.NewString(),
		CreatedAt:  now,
		JSONPath:   filepath.Join(w.Dir, "artworks_"+ts+".json"),
		CSVPath:    filepath.Join(w.Dir, "artworks_"+ts+".csv"),
		LatestPath: w.LatestPath,
		Count:      len(artworks),
	}
	for _, a := range artworks {
		if a.HasImage() {
			files.WithImage++
		}
		if a.HasDate() {
			files.WithDate++
		}
	}
	log := w.Logger.With(zap.String("run_id", files.RunID))

	jsonData, err := EncodeSnapshotJSON(artworks)
	if err != nil {
		return nil, err
	}
	csvData, err := EncodeSnapshotCSV(artworks)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("datenverzeichnis anlegen: %w", err)
	}
	if err := writeFileAtomic(files.JSONPath, jsonData); err != nil {
		return nil, err
	}
	log.Info("Daten gespeichert", zap.String("file", files.JSONPath))

	if err := writeFileAtomic(files.CSVPath, csvData); err != nil {
		return nil, err
	}
	log.Info("Daten gespeichert", zap.String("file", files.CSVPath))

	if err := os.MkdirAll(filepath.Dir(w.LatestPath), 0o755); err != nil {
		return nil, fmt.Errorf("verzeichnis für latest anlegen: %w", err)
	}
	if err := writeFileAtomic(w.LatestPath, csvData); err != nil {
		return nil, err
	}
	log.Info("Latest-Datei aktualisiert", zap.String("file", w.LatestPath))

	if w.Metrics != nil {
		w.Metrics.SnapshotsWritten.Inc()
	}

	if w.Mirror != nil {
		uploads := []struct {
			path string
			data []byte
		}{{files.JSONPath, jsonData}, {files.CSVPath, csvData}}
		for _, u := range uploads {
			key := "snapshots/" + filepath.Base(u.path)
			link, err := w.Mirror.Upload(ctx, key, u.data)
			if err != nil {
				log.Error("S3-Upload fehlgeschlagen", zap.String("key", key), zap.Error(err))
				continue
			}
			log.Info("Snapshot nach S3 hochgeladen", zap.String("link", link))
		}
	}

	if w.Archive != nil {
		if err := w.Archive.Store(ctx, files.RunID, now, artworks); err != nil {
			log.Error("Archivierung fehlgeschlagen", zap.Error(err))
		} else {
			log.Info("Snapshot archiviert", zap.Int("count", len(artworks)))
		}
	}

	return files, nil
}

// EncodeSnapshotJSON erzeugt eingerücktes JSON ohne Escaping von Nicht-ASCII- und HTML-Zeichen.
func EncodeSnapshotJSON(artworks []models.Artwork) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artworks); err != nil {
		return nil, fmt.Errorf("json kodieren: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeSnapshotCSV erzeugt die CSV-Darstellung mit Kopfzeile aus models.Columns.
func EncodeSnapshotCSV(artworks []models.Artwork) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(models.Columns); err != nil {
		return nil, fmt.Errorf("csv kopfzeile: %w", err)
	}
	for _, a := range artworks {
		if err := cw.Write(a.Row()); err != nil {
			return nil, fmt.Errorf("csv zeile %s: %w", a.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("csv schreiben: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadSnapshotCSV liest eine Snapshot-CSV anhand der Kopfzeile. Spalten dürfen fehlen oder
// vertauscht sein, kurze Zeilen werden akzeptiert. Jeder Datensatz wird normalisiert.
func ReadSnapshotCSV(r io.Reader) ([]models.Artwork, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("snapshot ist leer")
	}
	if err != nil {
		return nil, fmt.Errorf("kopfzeile lesen: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	artworks := []models.Artwork{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("zeile lesen: %w", err)
		}
		var a models.Artwork
		for i, col := range header {
			if i < len(rec) {
				a.Set(strings.TrimSpace(col), rec[i])
			}
		}
		a.Normalize()
		artworks = append(artworks, a)
	}
	return artworks, nil
}

// ReadSnapshotJSON liest eine JSON-Snapshot-Datei, wie Save sie schreibt.
func ReadSnapshotJSON(r io.Reader) ([]models.Artwork, error) {
	var artworks []models.Artwork
	if err := json.NewDecoder(r).Decode(&artworks); err != nil {
		return nil, fmt.Errorf("json snapshot dekodieren: %w", err)
	}
	return artworks, nil
}

// writeFileAtomic schreibt über eine temporäre Datei im Zielverzeichnis und benennt dann um,
// damit die Galerie nie eine halb geschriebene Datei liest.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("temporäre datei für %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%s schreiben: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%s sync: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%s schließen: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("%s chmod: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%s umbenennen: %w", path, err)
	}
	return nil
}
