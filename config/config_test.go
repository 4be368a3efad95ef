package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // keine .env aus dem Repo
	for _, k := range []string{"HTTP_PORT", "DATA_DIR", "DATA_PATH", "FETCH_MODE", "PAGE_SIZE", "ARTIST_DELAY", "S3_BUCKET"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, "data/artworks_latest.csv", cfg.DataPath)
	assert.Equal(t, ModeGlobal, cfg.FetchMode)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 100, cfg.GlobalLimit)
	assert.Equal(t, 200, cfg.ArtistLimit)
	assert.Equal(t, time.Second, cfg.ArtistDelay)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATA_PATH", "/srv/museum/latest.csv")
	t.Setenv("FETCH_MODE", "artists")
	t.Setenv("ARTIST_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/museum/latest.csv", cfg.DataPath)
	assert.Equal(t, ModeArtists, cfg.FetchMode)
	assert.Equal(t, 250*time.Millisecond, cfg.ArtistDelay)
}

func TestLoad_DataDirMovesLatest(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATA_PATH", "")
	os.Unsetenv("DATA_PATH")
	t.Setenv("DATA_DIR", "/srv/data")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, filepath.Join("/srv/data", LatestFileName), cfg.DataPath)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{FetchMode: ModeGlobal, PageSize: 20, GlobalLimit: 100, ArtistLimit: 200, ArtistDelay: time.Second}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid global", func(*Config) {}, false},
		{"valid artists", func(c *Config) { c.FetchMode = ModeArtists }, false},
		{"unknown mode", func(c *Config) { c.FetchMode = "all" }, true},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"zero limit", func(c *Config) { c.ArtistLimit = 0 }, true},
		{"negative delay", func(c *Config) { c.ArtistDelay = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Languages(t *testing.T) {
	assert.Equal(t, "fr,en", (&Config{SPARQLLanguages: " fr , en "}).Languages())
	assert.Equal(t, "de", (&Config{SPARQLLanguages: "de"}).Languages())
	assert.Equal(t, "fr,en", (&Config{SPARQLLanguages: " , "}).Languages())
}

func TestLoadRoster(t *testing.T) {
	t.Run("empty path returns built-in roster", func(t *testing.T) {
		roster, err := LoadRoster("")
		require.NoError(t, err)
		assert.Equal(t, DefaultRoster, roster)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.yaml")
		content := "artists:\n  - id: Q296\n    name: Claude Monet\n  - id: \" Q46373 \"\n    name: Edgar Degas\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		roster, err := LoadRoster(path)
		require.NoError(t, err)
		require.Len(t, roster, 2)
		assert.Equal(t, "Q296", roster[0].ID)
		assert.Equal(t, "Q46373", roster[1].ID)
		assert.Equal(t, "Edgar Degas", roster[1].Name)
	})

	t.Run("invalid id", func(t *testing.T) {
		for _, id := range []string{"monet", "Q", "Qabc", "Q296x", "q296"} {
			path := filepath.Join(t.TempDir(), "roster.yaml")
			require.NoError(t, os.WriteFile(path, []byte("artists:\n  - id: "+id+"\n    name: Claude Monet\n"), 0o644))
			_, err := LoadRoster(path)
			assert.Error(t, err, id)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.yaml")
		require.NoError(t, os.WriteFile(path, []byte("artists: []\n"), 0o644))
		_, err := LoadRoster(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRoster(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

// chdir wechselt für die Dauer des Tests das Arbeitsverzeichnis (wie t.Chdir ab Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
