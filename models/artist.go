package models

// Artist ist ein Eintrag der Künstlerliste für den Fetch pro Künstler.
type Artist struct {
	ID   string `json:"id" yaml:"id"` // Wikidata-QID, z.B. "Q296"
	Name string `json:"name" yaml:"name"`
}

// ValidQID meldet, ob id eine Wikidata-Entitäts-ID der Form Q<Ziffern> ist.
func ValidQID(id string) bool {
	if len(id) < 2 || id[0] != 'Q' {
		return false
	}
	for _, r := range id[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
