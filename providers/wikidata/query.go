package wikidata

import (
	"fmt"
	"strings"

	"museumwiki/models"
)

// Q3305213 = Gemälde. P170 Urheber, P571 Datum, P18 Bild, P276 Ort, P136 Genre, P135 Bewegung.
const paintingsQuery = `SELECT DISTINCT ?oeuvre ?oeuvreLabel ?createurLabel ?date ?image ?lieuLabel ?genreLabel ?mouvementLabel
WHERE {
  ?oeuvre wdt:P31/wdt:P279* wd:Q3305213.
  OPTIONAL { ?oeuvre wdt:P170 ?createur. }
  OPTIONAL { ?oeuvre wdt:P571 ?date. }
  OPTIONAL { ?oeuvre wdt:P18 ?image. }
  OPTIONAL { ?oeuvre wdt:P276 ?lieu. }
  OPTIONAL { ?oeuvre wdt:P136 ?genre. }
  OPTIONAL { ?oeuvre wdt:P135 ?mouvement. }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "%s". }
}
LIMIT %d`

const creatorQuery = `SELECT DISTINCT ?oeuvre ?oeuvreLabel ?date ?image ?lieuLabel ?genreLabel ?mouvementLabel
WHERE {
  ?oeuvre wdt:P31/wdt:P279* wd:Q3305213.
  ?oeuvre wdt:P170 wd:%s.
  OPTIONAL { ?oeuvre wdt:P571 ?date. }
  OPTIONAL { ?oeuvre wdt:P18 ?image. }
  OPTIONAL { ?oeuvre wdt:P276 ?lieu. }
  OPTIONAL { ?oeuvre wdt:P136 ?genre. }
  OPTIONAL { ?oeuvre wdt:P135 ?mouvement. }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "%s". }
}
LIMIT %d`

// BuildPaintingsQuery erzeugt die globale Gemälde-Abfrage.
func BuildPaintingsQuery(languages string, limit int) string {
	return fmt.Sprintf(paintingsQuery, sanitizeLanguages(languages), limit)
}

// BuildCreatorQuery erzeugt die Abfrage für einen einzelnen Künstler.
func BuildCreatorQuery(qid, languages string, limit int) (string, error) {
	if !models.ValidQID(qid) {
		return "", fmt.Errorf("ungültige Wikidata-ID %q", qid)
	}
	return fmt.Sprintf(creatorQuery, qid, sanitizeLanguages(languages), limit), nil
}

// sanitizeLanguages lässt nur Sprachcodes durch, damit nichts in die Query injiziert wird.
func sanitizeLanguages(languages string) string {
	var out strings.Builder
	for _, r := range languages {
		if r == ',' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			out.WriteRune(r)
		}
	}
	if out.Len() == 0 {
		return "fr,en"
	}
	return out.String()
}
