package providers

import (
	"context"

	"museumwiki/models"
)

// Provider ist das Interface, das jede Datenquelle für Kunstwerke implementieren muss.
type Provider interface {
	// FetchPaintings holt bis zu limit Gemälde ohne Einschränkung auf einen Künstler.
	FetchPaintings(ctx context.Context, limit int) ([]models.Artwork, error)

	// FetchByCreator holt bis zu limit Gemälde eines einzelnen Künstlers.
	FetchByCreator(ctx context.Context, artist models.Artist, limit int) ([]models.Artwork, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "wikidata").
	Name() string
}
