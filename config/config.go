package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"5000"`
	PageSize int    `envconfig:"PAGE_SIZE" default:"20"`

	// Snapshot-Dateien
	DataDir  string `envconfig:"DATA_DIR" default:"data"`
	// Leer = <DATA_DIR>/artworks_latest.csv
	DataPath string `envconfig:"DATA_PATH"`

	SPARQLEndpoint  string        `envconfig:"SPARQL_ENDPOINT" default:"https://query.wikidata.org/sparql"`
	SPARQLUserAgent string        `envconfig:"SPARQL_USER_AGENT" default:"MuseumWikiBot/1.0 (https://github.com/alexandrebrief/musuemwiki)"`
	SPARQLLanguages string        `envconfig:"SPARQL_LANGUAGES" default:"fr,en"`
	SPARQLTimeout   time.Duration `envconfig:"SPARQL_TIMEOUT" default:"60s"`

	// Fetch-Modus: "global" oder "artists"
	FetchMode        string        `envconfig:"FETCH_MODE" default:"global"`
	GlobalLimit      int           `envconfig:"GLOBAL_LIMIT" default:"100"`
	ArtistLimit      int           `envconfig:"ARTIST_LIMIT" default:"200"`
	ArtistDelay      time.Duration `envconfig:"ARTIST_DELAY" default:"1s"`
	ArtistRosterFile string        `envconfig:"ARTIST_ROSTER_FILE"`
	Deduplicate      bool          `envconfig:"DEDUPLICATE" default:"false"`

	// Leer = kein geplanter Fetch im Gallery-Prozess
	CronSchedule string `envconfig:"CRON_SCHEDULE"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// S3-Spiegel für Snapshots, deaktiviert solange kein Bucket gesetzt ist
	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
	S3Bucket string `envconfig:"S3_BUCKET"`

	// Postgres-Archiv aller Fetch-Läufe (optional)
	ArchiveDSN string `envconfig:"ARCHIVE_DSN"`
}

// LatestFileName ist der Dateiname der jeweils aktuellen Snapshot-CSV.
const LatestFileName = "artworks_latest.csv"

const (
	ModeGlobal  = "global"
	ModeArtists = "artists"
)

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if c.DataPath == "" {
		c.DataPath = filepath.Join(c.DataDir, LatestFileName)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate prüft die Werte, die envconfig nicht selbst abfangen kann.
func (c *Config) Validate() error {
	switch c.FetchMode {
	case ModeGlobal, ModeArtists:
	default:
		return fmt.Errorf("unbekannter FETCH_MODE %q (erlaubt: %s, %s)", c.FetchMode, ModeGlobal, ModeArtists)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE muss positiv sein, ist %d", c.PageSize)
	}
	if c.GlobalLimit <= 0 || c.ArtistLimit <= 0 {
		return fmt.Errorf("GLOBAL_LIMIT und ARTIST_LIMIT müssen positiv sein")
	}
	if c.ArtistDelay < 0 {
		return fmt.Errorf("ARTIST_DELAY darf nicht negativ sein")
	}
	return nil
}

// S3Enabled meldet, ob der Snapshot-Spiegel konfiguriert ist.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3URL != ""
}

// Languages liefert die Label-Sprachen in der Form, die der Wikidata-Label-Service erwartet.
func (c *Config) Languages() string {
	parts := strings.Split(c.SPARQLLanguages, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "fr,en"
	}
	return strings.Join(out, ",")
}
