package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"museumwiki/storage"
)

// BackupConfig wird ausschließlich aus der Umgebung gelesen.
type BackupConfig struct {
	DataDir         string `envconfig:"DATA_DIR" default:"data"`
	BackupBucket    string `envconfig:"BACKUP_S3_BUCKET" required:"true"`
	BackupEndpoint  string `envconfig:"BACKUP_S3_ENDPOINT" required:"true"`
	BackupAccessKey string `envconfig:"BACKUP_S3_ACCESS_KEY" required:"true"`
	BackupSecretKey string `envconfig:"BACKUP_S3_SECRET_KEY" required:"true"`
	BackupRegion    string `envconfig:"BACKUP_S3_REGION" default:"us-east-1"`
	BackupPrefix    string `envconfig:"BACKUP_PREFIX" default:"backups/"`
	KeepBackups     int    `envconfig:"KEEP_BACKUPS" default:"4"`
}

// snapshotPattern trifft alle Snapshot-Dateien inklusive artworks_latest.csv.
const snapshotPattern = "artworks_*"

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	logging.Info("Starte Backup-Prozess...")

	var cfg BackupConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logging.Fatal("Fehler beim Laden der Konfiguration", zap.Error(err))
	}

	ctx := context.Background()

	// 1. Snapshot-Dateien packen
	var buf bytes.Buffer
	files, err := createArchive(cfg.DataDir, &buf)
	if err != nil {
		logging.Fatal("Fehler beim Packen der Snapshots", zap.Error(err))
	}
	if len(files) == 0 {
		logging.Warn("Keine Snapshot-Dateien gefunden, kein Backup erstellt", zap.String("data_dir", cfg.DataDir))
		return
	}

	// 2. S3-Store erstellen
	store, err := storage.NewS3Store(ctx, storage.S3Config{
		URL:    cfg.BackupEndpoint,
		Region: cfg.BackupRegion,
		Key:    cfg.BackupAccessKey,
		Secret: cfg.BackupSecretKey,
		Bucket: cfg.BackupBucket,
	})
	if err != nil {
		logging.Fatal("Fehler beim Erstellen des S3-Clients", zap.Error(err))
	}

	// 3. Backup nach S3 hochladen
	key := backupKey(cfg.BackupPrefix, time.Now())
	link, err := store.Upload(ctx, key, buf.Bytes())
	if err != nil {
		logging.Fatal("Fehler beim Hochladen nach S3", zap.Error(err))
	}
	logging.Info("Backup erfolgreich hochgeladen",
		zap.String("link", link),
		zap.Int("files", len(files)),
		zap.Int("bytes", buf.Len()))

	// 4. Alte Backups rotieren
	deleted, err := store.Rotate(ctx, cfg.BackupPrefix, cfg.KeepBackups)
	if err != nil {
		logging.Fatal("Fehler bei der Rotation alter Backups", zap.Error(err))
	}
	if len(deleted) == 0 {
		logging.Info("Keine Rotation nötig", zap.Int("keep", cfg.KeepBackups))
	}
	for _, k := range deleted {
		logging.Info("Altes Backup gelöscht", zap.String("key", k))
	}

	logging.Info("Backup-Prozess erfolgreich abgeschlossen.")
}

func backupKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%sbackup-%s.tar.gz", prefix, now.UTC().Format("2006-01-02T15-04-05Z"))
}

// createArchive schreibt alle Snapshot-Dateien aus dir als tar.gz nach w und
// liefert die gepackten Dateinamen in sortierter Reihenfolge.
func createArchive(dir string, w io.Writer) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, snapshotPattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	var names []string
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if err := addFile(tw, path, info); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		names = append(names, info.Name())
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return names, nil
}

func addFile(tw *tar.Writer, path string, info os.FileInfo) error {
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = info.Name()
	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}
