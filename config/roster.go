package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"museumwiki/models"
)

// DefaultRoster ist die feste Künstlerliste für den Modus "artists".
var DefaultRoster = []models.Artist{
	{ID: "Q296", Name: "Claude Monet"},
	{ID: "Q5582", Name: "Vincent van Gogh"},
	{ID: "Q46373", Name: "Edgar Degas"},
	{ID: "Q39931", Name: "Pierre-Auguste Renoir"},
	{ID: "Q35548", Name: "Paul Cézanne"},
	{ID: "Q5593", Name: "Pablo Picasso"},
	{ID: "Q5598", Name: "Rembrandt"},
	{ID: "Q41264", Name: "Johannes Vermeer"},
	{ID: "Q762", Name: "Léonard de Vinci"},
	{ID: "Q42207", Name: "Le Caravage"},
}

type rosterFile struct {
	Artists []models.Artist `yaml:"artists"`
}

// LoadRoster liest die Künstlerliste aus einer YAML-Datei. Ein leerer Pfad liefert DefaultRoster.
func LoadRoster(path string) ([]models.Artist, error) {
	if path == "" {
		return DefaultRoster, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roster lesen: %w", err)
	}
	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("roster parsen: %w", err)
	}
	if len(rf.Artists) == 0 {
		return nil, fmt.Errorf("roster %s enthält keine Künstler", path)
	}
	for i, a := range rf.Artists {
		id := strings.TrimSpace(a.ID)
		if !models.ValidQID(id) {
			return nil, fmt.Errorf("roster eintrag %d: ungültige Wikidata-ID %q", i, a.ID)
		}
		rf.Artists[i].ID = id
		rf.Artists[i].Name = strings.TrimSpace(a.Name)
	}
	return rf.Artists, nil
}
