package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"museumwiki/config"
	"museumwiki/metrics"
	"museumwiki/models"
	"museumwiki/providers"
)

// FetchService kümmert sich um die Orchestrierung eines Fetch-Laufs.
type FetchService struct {
	Config   *config.Config
	Provider providers.Provider
	Roster   []models.Artist
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	// Limiter begrenzt die Künstler-Abfragen auf eine pro ArtistDelay.
	Limiter *rate.Limiter
}

// NewFetchService erstellt eine neue Instanz des FetchService.
func NewFetchService(cfg *config.Config, provider providers.Provider, roster []models.Artist, logger *zap.Logger, m *metrics.Metrics) *FetchService {
	limit := rate.Inf
	if cfg.ArtistDelay > 0 {
		limit = rate.Every(cfg.ArtistDelay)
	}
	return &FetchService{
		Config:   cfg,
		Provider: provider,
		Roster:   roster,
		Logger:   logger,
		Metrics:  m,
		Limiter:  rate.NewLimiter(limit, 1),
	}
}

// Run führt einen Fetch im konfigurierten Modus aus. Fehler einzelner Abfragen werden
// geloggt und übersprungen, das Ergebnis ist dann entsprechend kleiner oder leer.
func (f *FetchService) Run(ctx context.Context) []models.Artwork {
	mode := f.Config.FetchMode
	var artworks []models.Artwork
	if mode == config.ModeArtists {
		artworks = f.RunForRoster(ctx)
	} else {
		mode = config.ModeGlobal
		artworks = f.RunGlobal(ctx)
	}

	if f.Config.Deduplicate {
		before := len(artworks)
		artworks = Deduplicate(artworks)
		f.Logger.Info("Duplikate entfernt", zap.Int("before", before), zap.Int("after", len(artworks)))
	}

	if f.Metrics != nil {
		f.Metrics.RecordFetchRun(mode, len(artworks))
	}
	return artworks
}

// RunGlobal führt die einzelne globale Abfrage aus.
func (f *FetchService) RunGlobal(ctx context.Context) []models.Artwork {
	log := f.Logger.With(zap.String("provider", f.Provider.Name()), zap.String("mode", config.ModeGlobal))

	artworks, err := f.Provider.FetchPaintings(ctx, f.Config.GlobalLimit)
	if err != nil {
		log.Error("Globale Abfrage fehlgeschlagen", zap.Error(err))
		f.recordFailure(config.ModeGlobal)
		return []models.Artwork{}
	}
	log.Info("Provider hat Ergebnisse geliefert", zap.Int("count", len(artworks)))
	return artworks
}

// RunForRoster fragt jeden Künstler der Liste nacheinander ab.
func (f *FetchService) RunForRoster(ctx context.Context) []models.Artwork {
	log := f.Logger.With(zap.String("provider", f.Provider.Name()), zap.String("mode", config.ModeArtists))

	all := []models.Artwork{}
	for _, artist := range f.Roster {
		if err := f.Limiter.Wait(ctx); err != nil {
			log.Warn("Fetch abgebrochen", zap.Error(err))
			break
		}

		artworks, err := f.Provider.FetchByCreator(ctx, artist, f.Config.ArtistLimit)
		if err != nil {
			log.Error("Abfrage für Künstler fehlgeschlagen", zap.String("artist", artist.Name), zap.Error(err))
			f.recordFailure(config.ModeArtists)
			continue
		}
		log.Info("Künstler abgefragt", zap.String("artist", artist.Name), zap.Int("count", len(artworks)))
		all = append(all, artworks...)
	}

	log.Info("Abfrage aller Künstler abgeschlossen", zap.Int("artists", len(f.Roster)), zap.Int("total_artworks", len(all)))
	return all
}

func (f *FetchService) recordFailure(mode string) {
	if f.Metrics != nil {
		f.Metrics.RecordQueryFailure(mode)
	}
}

// Deduplicate behält pro Wikidata-ID nur das erste Vorkommen, die Reihenfolge bleibt erhalten.
func Deduplicate(artworks []models.Artwork) []models.Artwork {
	seen := make(map[string]bool, len(artworks))
	out := make([]models.Artwork, 0, len(artworks))
	for _, a := range artworks {
		if a.ID != "" {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
		}
		out = append(out, a)
	}
	return out
}
