package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"museumwiki/config"
	"museumwiki/models"
)

// userAgentTransport fügt jeder Anfrage den konfigurierten User-Agent hinzu.
// Der Wikidata Query Service lehnt Anfragen ohne aussagekräftigen User-Agent ab.
type userAgentTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.UserAgent)
	return t.Transport.RoundTrip(req)
}

// Fetcher implementiert das Provider-Interface für den Wikidata Query Service.
type Fetcher struct {
	Config     *config.Config
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// NewFetcher erstellt einen neuen Wikidata Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Logger: logger,
		HTTPClient: &http.Client{
			Timeout: cfg.SPARQLTimeout,
			Transport: &userAgentTransport{
				Transport: http.DefaultTransport,
				UserAgent: cfg.SPARQLUserAgent,
			},
		},
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "wikidata"
}

// FetchPaintings führt die globale Gemälde-Abfrage aus.
func (f *Fetcher) FetchPaintings(ctx context.Context, limit int) ([]models.Artwork, error) {
	log := f.Logger.With(zap.Int("limit", limit))
	log.Info("Starte globale Abfrage auf Wikidata.")

	resp, err := f.query(ctx, BuildPaintingsQuery(f.Config.Languages(), limit))
	if err != nil {
		return nil, err
	}

	artworks := make([]models.Artwork, 0, len(resp.Results.Bindings))
	for _, b := range resp.Results.Bindings {
		artworks = append(artworks, mapBindingToModel(b))
	}

	log.Info("Globale Abfrage abgeschlossen", zap.Int("found_artworks", len(artworks)))
	return artworks, nil
}

// FetchByCreator führt die Abfrage für einen Künstler der Liste aus.
func (f *Fetcher) FetchByCreator(ctx context.Context, artist models.Artist, limit int) ([]models.Artwork, error) {
	log := f.Logger.With(zap.String("artist", artist.Name), zap.String("qid", artist.ID))
	log.Info("Starte Abfrage für Künstler.")

	q, err := BuildCreatorQuery(artist.ID, f.Config.Languages(), limit)
	if err != nil {
		return nil, err
	}
	resp, err := f.query(ctx, q)
	if err != nil {
		return nil, err
	}

	artworks := make([]models.Artwork, 0, len(resp.Results.Bindings))
	for _, b := range resp.Results.Bindings {
		a := mapBindingToModel(b)
		a.Createur = artist.Name
		a.CreateurID = artist.ID
		artworks = append(artworks, a)
	}

	log.Info("Abfrage für Künstler abgeschlossen", zap.Int("found_artworks", len(artworks)))
	return artworks, nil
}

// query schickt eine SPARQL-Abfrage per GET an den Endpoint und dekodiert das JSON-Ergebnis.
func (f *Fetcher) query(ctx context.Context, sparql string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", sparql)
	params.Set("format", "json")
	reqURL := f.Config.SPARQLEndpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sparql request bauen: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	f.Logger.Debug("Rufe SPARQL Endpoint auf", zap.String("endpoint", f.Config.SPARQLEndpoint))
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sparql request failed with status: %d", resp.StatusCode)
	}

	var sr SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("sparql antwort dekodieren: %w", err)
	}
	return &sr, nil
}

// mapBindingToModel konvertiert eine Ergebniszeile in unser internes Artwork-Modell.
func mapBindingToModel(b Binding) models.Artwork {
	uri := b.get("oeuvre", "")
	return models.Artwork{
		ID:          entityID(uri),
		Titre:       b.get("oeuvreLabel", models.UnknownTitle),
		Createur:    b.get("createurLabel", models.UnknownArtist),
		Date:        b.get("date", ""),
		ImageURL:    b.get("image", ""),
		Lieu:        b.get("lieuLabel", models.UnknownLocation),
		Genre:       b.get("genreLabel", ""),
		Mouvement:   b.get("mouvementLabel", ""),
		WikidataURL: uri,
	}
}
