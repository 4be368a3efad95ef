package wikidata

import "strings"

// SearchResponse ist die Top-Level-Struktur einer SPARQL-JSON-Antwort.
type SearchResponse struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Binding ist eine Ergebniszeile: Variablenname → Wert. Fehlende OPTIONALs fehlen in der Map.
type Binding map[string]Value

// Value repräsentiert einen einzelnen gebundenen Wert.
type Value struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// get liefert den Wert der Variable oder fallback, falls sie nicht gebunden ist.
func (b Binding) get(name, fallback string) string {
	if v, ok := b[name]; ok {
		return v.Value
	}
	return fallback
}

// entityID schneidet das letzte Pfadsegment einer Entity-URI ab.
func entityID(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
