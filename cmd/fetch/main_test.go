package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"museumwiki/config"
	"museumwiki/models"
	"museumwiki/services"
)

const sparqlResponse = `{"head":{"vars":["oeuvre","oeuvreLabel"]},"results":{"bindings":[
  {"oeuvre":{"type":"uri","value":"http://www.wikidata.org/entity/Q1"},"oeuvreLabel":{"type":"literal","value":"Nymphéas"},"date":{"type":"literal","value":"1906"}},
  {"oeuvre":{"type":"uri","value":"http://www.wikidata.org/entity/Q2"},"oeuvreLabel":{"type":"literal","value":"Les Meules"}}
]}}`

func baseConfig(endpoint string) func() (*config.Config, error) {
	return func() (*config.Config, error) {
		return &config.Config{
			PageSize:        20,
			DataDir:         "data",
			DataPath:        "data/artworks_latest.csv",
			SPARQLEndpoint:  endpoint,
			SPARQLUserAgent: "test",
			SPARQLLanguages: "fr,en",
			SPARQLTimeout:   5 * time.Second,
			FetchMode:       config.ModeGlobal,
			GlobalLimit:     100,
			ArtistLimit:     200,
		}, nil
	}
}

func execute(t *testing.T, load func() (*config.Config, error), args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(load, zap.NewNop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFetch_WritesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sparqlResponse))
	}))
	defer srv.Close()

	dir := t.TempDir()
	out, err := execute(t, baseConfig(srv.URL), "--data-dir", dir, "--mode", "global")
	require.NoError(t, err)
	assert.Contains(t, out, "2 œuvres (0 avec image, 1 avec date)")

	f, err := os.Open(filepath.Join(dir, config.LatestFileName))
	require.NoError(t, err)
	defer f.Close()
	got, err := services.ReadSnapshotCSV(f)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFetch_NoDataFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := execute(t, baseConfig(srv.URL), "--data-dir", dir)
	assert.ErrorIs(t, err, services.ErrNoData)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestFetch_InvalidMode(t *testing.T) {
	_, err := execute(t, baseConfig("http://127.0.0.1:0"), "--mode", "tout")
	assert.ErrorContains(t, err, "FETCH_MODE")
}

func TestApplyFlags(t *testing.T) {
	load := baseConfig("")

	t.Run("data-dir moves latest", func(t *testing.T) {
		cfg, _ := load()
		cmd := newRootCmd(load, zap.NewNop())
		require.NoError(t, cmd.ParseFlags([]string{"--data-dir", "/tmp/snap", "--dedupe", "--roster", "roster.yaml", "--mode", "artists"}))
		require.NoError(t, applyFlags(cmd.Flags(), cfg))
		assert.Equal(t, "/tmp/snap", cfg.DataDir)
		assert.Equal(t, filepath.Join("/tmp/snap", config.LatestFileName), cfg.DataPath)
		assert.True(t, cfg.Deduplicate)
		assert.Equal(t, "roster.yaml", cfg.ArtistRosterFile)
		assert.Equal(t, config.ModeArtists, cfg.FetchMode)
	})

	t.Run("explicit latest wins", func(t *testing.T) {
		cfg, _ := load()
		cmd := newRootCmd(load, zap.NewNop())
		require.NoError(t, cmd.ParseFlags([]string{"--data-dir", "/tmp/snap", "--latest", "/srv/latest.csv"}))
		require.NoError(t, applyFlags(cmd.Flags(), cfg))
		assert.Equal(t, "/srv/latest.csv", cfg.DataPath)
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		cfg, _ := load()
		cmd := newRootCmd(load, zap.NewNop())
		require.NoError(t, cmd.ParseFlags(nil))
		require.NoError(t, applyFlags(cmd.Flags(), cfg))
		assert.Equal(t, "data/artworks_latest.csv", cfg.DataPath)
		assert.Equal(t, config.ModeGlobal, cfg.FetchMode)
		assert.False(t, cfg.Deduplicate)
	})
}

func TestQueryCommand(t *testing.T) {
	out, err := execute(t, baseConfig(""), "query")
	require.NoError(t, err)
	assert.Contains(t, out, "wd:Q3305213")
	assert.Contains(t, out, "LIMIT 100")

	out, err = execute(t, baseConfig(""), "query", "--artist", "Q296")
	require.NoError(t, err)
	assert.Contains(t, out, "wdt:P170 wd:Q296")
	assert.Contains(t, out, "LIMIT 200")

	_, err = execute(t, baseConfig(""), "query", "--artist", "Q296 }")
	assert.Error(t, err)
}

func TestRepublishCommand(t *testing.T) {
	src := filepath.Join(t.TempDir(), "artworks_20261018_140509.json")
	data, err := services.EncodeSnapshotJSON([]models.Artwork{
		{ID: "Q1", Titre: "Nymphéas", Createur: "Claude Monet"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, data, 0o644))

	dir := t.TempDir()
	out, err := execute(t, baseConfig(""), "republish", src, "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 œuvres")
	_, err = os.Stat(filepath.Join(dir, config.LatestFileName))
	assert.NoError(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o644))
	_, err = execute(t, baseConfig(""), "republish", empty, "--data-dir", dir)
	assert.ErrorIs(t, err, services.ErrNoData)

	_, err = execute(t, baseConfig(""), "republish")
	assert.Error(t, err)
}
