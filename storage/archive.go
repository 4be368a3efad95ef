package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"museumwiki/models"
)

const archiveBatchSize = 100

// Archive speichert jeden Fetch-Lauf in Postgres.
type Archive struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// OpenArchive verbindet sich mit der Datenbank und migriert die Archiv-Tabelle.
func OpenArchive(dsn string, log *zap.Logger) (*Archive, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("archiv-datenbank öffnen: %w", err)
	}
	if err := db.AutoMigrate(&models.ArchivedArtwork{}); err != nil {
		return nil, fmt.Errorf("archiv migrieren: %w", err)
	}
	log.Info("Successfully connected to archive database.")
	return &Archive{DB: db, Logger: log}, nil
}

// Store schreibt alle Datensätze eines Laufs in Batches.
func (a *Archive) Store(ctx context.Context, runID string, fetchedAt time.Time, artworks []models.Artwork) error {
	rows := ArchiveRows(runID, fetchedAt, artworks)
	if len(rows) == 0 {
		return nil
	}
	if err := a.DB.WithContext(ctx).CreateInBatches(&rows, archiveBatchSize).Error; err != nil {
		return fmt.Errorf("archiv schreiben: %w", err)
	}
	return nil
}

// ArchiveRows wandelt einen Snapshot in Archivzeilen um, die Position bleibt erhalten.
func ArchiveRows(runID string, fetchedAt time.Time, artworks []models.Artwork) []models.ArchivedArtwork {
	rows := make([]models.ArchivedArtwork, 0, len(artworks))
	for i, art := range artworks {
		rows = append(rows, models.NewArchivedArtwork(runID, fetchedAt, i, art))
	}
	return rows
}
