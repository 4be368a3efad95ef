package models

// Snapshot ist die geordnete Ergebnismenge eines Fetch-Laufs.
type Snapshot []Artwork
