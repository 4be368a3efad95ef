package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"museumwiki/config"
	"museumwiki/metrics"
	"museumwiki/providers/wikidata"
	"museumwiki/storage"
)

// Pipeline verbindet Fetch und Speicherung zu einem Lauf.
type Pipeline struct {
	Fetcher *FetchService
	Writer  *SnapshotWriter
	Logger  *zap.Logger
}

// BuildPipeline baut die Pipeline aus der Konfiguration. S3-Spiegel und Archiv sind optional;
// schlägt deren Einrichtung fehl, wird geloggt und ohne sie weitergearbeitet.
func BuildPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Pipeline, error) {
	roster, err := config.LoadRoster(cfg.ArtistRosterFile)
	if err != nil {
		return nil, err
	}

	provider := wikidata.NewFetcher(cfg, logger)
	fetcher := NewFetchService(cfg, provider, roster, logger, m)
	writer := NewSnapshotWriter(cfg.DataDir, cfg.DataPath, logger, m)

	if cfg.S3Enabled() {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			URL:    cfg.S3URL,
			Region: cfg.S3Region,
			Key:    cfg.S3Key,
			Secret: cfg.S3Secret,
			Bucket: cfg.S3Bucket,
		})
		if err != nil {
			logger.Error("S3 client creation failed, snapshots werden nur lokal gespeichert", zap.Error(err))
		} else {
			writer.Mirror = store
		}
	}

	if cfg.ArchiveDSN != "" {
		archive, err := storage.OpenArchive(cfg.ArchiveDSN, logger)
		if err != nil {
			logger.Error("Archiv nicht verfügbar", zap.Error(err))
		} else {
			writer.Archive = archive
		}
	}

	return &Pipeline{Fetcher: fetcher, Writer: writer, Logger: logger}, nil
}

// Run holt die Daten und speichert sie. Ohne Daten wird ErrNoData zurückgegeben.
func (p *Pipeline) Run(ctx context.Context) (*SnapshotFiles, error) {
	artworks := p.Fetcher.Run(ctx)
	files, err := p.Writer.Save(ctx, artworks)
	if errors.Is(err, ErrNoData) {
		p.Logger.Warn("Keine Daten abgerufen, Snapshot wird nicht geschrieben.")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	p.Logger.Info("Daten erfolgreich aktualisiert",
		zap.String("run_id", files.RunID),
		zap.Int("total", files.Count),
		zap.Int("with_image", files.WithImage),
		zap.Int("with_date", files.WithDate))
	return files, nil
}
