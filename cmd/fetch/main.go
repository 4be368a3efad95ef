package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"museumwiki/config"
	"museumwiki/providers/wikidata"
	"museumwiki/services"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.Load, logging).ExecuteContext(ctx); err != nil {
		logging.Error("Fetch fehlgeschlagen", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

// newRootCmd baut die CLI. load liefert die Basiskonfiguration, Flags überschreiben sie.
func newRootCmd(load func() (*config.Config, error), logging *zap.Logger) *cobra.Command {
	loadConfig := func(cmd *cobra.Command) (*config.Config, error) {
		cfg, err := load()
		if err != nil {
			return nil, err
		}
		if err := applyFlags(cmd.Flags(), cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	root := &cobra.Command{
		Use:           "fetch",
		Short:         "Gemälde von Wikidata abrufen und als Snapshot speichern",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logging.Info("Starte Fetch",
				zap.String("mode", cfg.FetchMode),
				zap.String("endpoint", cfg.SPARQLEndpoint),
				zap.String("data_dir", cfg.DataDir))

			pipeline, err := services.BuildPipeline(cmd.Context(), cfg, logging, nil)
			if err != nil {
				return err
			}
			files, err := pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d œuvres (%d avec image, %d avec date) -> %s\n",
				files.Count, files.WithImage, files.WithDate, files.LatestPath)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("mode", "", "Fetch-Modus: global oder artists (Standard: FETCH_MODE)")
	pf.String("data-dir", "", "Zielverzeichnis der Snapshots (Standard: DATA_DIR)")
	pf.String("latest", "", "Pfad der Latest-CSV (Standard: <data-dir>/"+config.LatestFileName+")")
	pf.Bool("dedupe", false, "Doppelte Werke anhand der ID entfernen")
	pf.String("roster", "", "YAML-Datei mit der Künstlerliste für den Modus artists")

	root.AddCommand(newQueryCmd(loadConfig))
	root.AddCommand(newRepublishCmd(loadConfig, logging))
	return root
}

// applyFlags überträgt nur explizit gesetzte Flags auf cfg.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("mode") {
		cfg.FetchMode, _ = fs.GetString("mode")
	}
	if fs.Changed("data-dir") {
		cfg.DataDir, _ = fs.GetString("data-dir")
		if !fs.Changed("latest") {
			cfg.DataPath = filepath.Join(cfg.DataDir, config.LatestFileName)
		}
	}
	if fs.Changed("latest") {
		cfg.DataPath, _ = fs.GetString("latest")
	}
	if fs.Changed("dedupe") {
		cfg.Deduplicate, _ = fs.GetBool("dedupe")
	}
	if fs.Changed("roster") {
		cfg.ArtistRosterFile, _ = fs.GetString("roster")
	}
	return cfg.Validate()
}

func newQueryCmd(loadConfig func(*cobra.Command) (*config.Config, error)) *cobra.Command {
	var qid string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "SPARQL-Abfrage ausgeben, ohne sie auszuführen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if qid == "" {
				fmt.Fprintln(cmd.OutOrStdout(), wikidata.BuildPaintingsQuery(cfg.Languages(), cfg.GlobalLimit))
				return nil
			}
			q, err := wikidata.BuildCreatorQuery(qid, cfg.Languages(), cfg.ArtistLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), q)
			return nil
		},
	}
	cmd.Flags().StringVar(&qid, "artist", "", "QID eines Künstlers, z. B. Q296")
	return cmd
}

// newRepublishCmd schreibt einen vorhandenen JSON-Snapshot neu, inklusive Latest-CSV.
func newRepublishCmd(loadConfig func(*cobra.Command) (*config.Config, error), logging *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "republish <snapshot.json>",
		Short: "Vorhandenen JSON-Snapshot erneut als aktuellen Stand veröffentlichen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			artworks, err := services.ReadSnapshotJSON(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			writer := services.NewSnapshotWriter(cfg.DataDir, cfg.DataPath, logging, nil)
			files, err := writer.Save(cmd.Context(), artworks)
			if errors.Is(err, services.ErrNoData) {
				return fmt.Errorf("%s enthält keine Werke: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d œuvres -> %s\n", files.Count, files.LatestPath)
			return nil
		},
	}
}
