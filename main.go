package main

import (
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"museumwiki/config"
	"museumwiki/metrics"
	"museumwiki/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// defaultAPILimit ist die Anzahl Datensätze von /api/artworks ohne limit-Parameter.
const defaultAPILimit = 100

// refresher führt einen Fetch-Lauf aus. In Produktion ist das die services.Pipeline.
type refresher interface {
	Run(ctx context.Context) (*services.SnapshotFiles, error)
}

// pageNav beschreibt die Blätter-Links unter einer Trefferliste.
type pageNav struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// requestMetricsMiddleware zählt jede Anfrage nach Route und Status.
func requestMetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	gallery := services.NewGalleryService(cfg.DataPath, cfg.PageSize, logging, m)

	pipeline, err := services.BuildPipeline(context.Background(), cfg, logging, m)
	if err != nil {
		logging.Fatal("Pipeline setup failed", zap.Error(err))
	}

	router, err := newRouter(cfg, gallery, pipeline, m, logging)
	if err != nil {
		logging.Fatal("Template parsing failed", zap.Error(err))
	}

	if cfg.CronSchedule != "" {
		cronScheduler := cron.New()
		_, err := cronScheduler.AddFunc(cfg.CronSchedule, func() {
			logging.Info("Running scheduled fetch job...")
			files, err := pipeline.Run(context.Background())
			if err != nil {
				logging.Error("Cron job failed", zap.Error(err))
				return
			}
			logging.Info("Cron job completed", zap.Int("artworks", files.Count))
		})
		if err != nil {
			logging.Fatal("Invalid CRON_SCHEDULE", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort), zap.String("data_path", cfg.DataPath))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// newRouter baut die gin-Engine mit allen Routen. refresh darf nil sein.
func newRouter(cfg *config.Config, gallery *services.GalleryService, refresh refresher, m *metrics.Metrics, log *zap.Logger) (*gin.Engine, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	router := gin.Default()
	router.SetHTMLTemplate(tmpl)
	if m != nil {
		router.Use(requestMetricsMiddleware(m))
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupGalleryRoutes(router, gallery)
	setupAPIRoutes(router, gallery)
	if cfg.APISecretKey != "" && refresh != nil {
		setupAdminRoutes(router, cfg, refresh, log)
	}
	return router, nil
}

var templateFuncs = template.FuncMap{
	"artistURL": func(name string) string {
		return "/artist/" + url.PathEscape(name)
	},
}

func setupGalleryRoutes(router *gin.Engine, gallery *services.GalleryService) {
	router.GET("/", func(c *gin.Context) {
		snapshot := gallery.LoadSnapshot()
		page := services.Paginate(snapshot, parsePage(c.Query("page")), gallery.PageSize)
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Title":      "Galerie",
			"Query":      "",
			"Page":       page,
			"Nav":        newPageNav(page, "/", nil),
			"Stats":      services.ComputeStats(snapshot),
			"LastUpdate": gallery.LastUpdate().Format("02/01/2006"),
		})
	})

	router.GET("/search", func(c *gin.Context) {
		query := c.Query("q")
		page := gallery.Search(query, parsePage(c.Query("page")))
		c.HTML(http.StatusOK, "search.html", gin.H{
			"Title": "Recherche",
			"Query": query,
			"Page":  page,
			"Nav":   newPageNav(page, "/search", url.Values{"q": {query}}),
		})
	})

	router.GET("/artist/:name", func(c *gin.Context) {
		name := c.Param("name")
		c.HTML(http.StatusOK, "artist.html", gin.H{
			"Title":    name,
			"Query":    "",
			"Artist":   name,
			"Artworks": gallery.FilterByArtist(name),
		})
	})

	router.GET("/stats", func(c *gin.Context) {
		stats := gallery.ComputeStats()
		graphJSON, err := services.ArtistsChart(stats.TopArtists).JSON()
		if err != nil {
			gallery.Logger.Error("Chart encoding failed", zap.Error(err))
			graphJSON = "{}"
		}
		c.HTML(http.StatusOK, "stats.html", gin.H{
			"Title":     "Statistiques",
			"Query":     "",
			"Stats":     stats,
			"GraphJSON": graphJSON,
		})
	})

	router.GET("/about", func(c *gin.Context) {
		c.HTML(http.StatusOK, "about.html", gin.H{"Title": "À propos", "Query": ""})
	})
}

func setupAPIRoutes(router *gin.Engine, gallery *services.GalleryService) {
	router.GET("/api/artworks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gallery.Head(parseLimit(c.Query("limit"))))
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "records": len(gallery.LoadSnapshot())})
	})
}

func setupAdminRoutes(router *gin.Engine, cfg *config.Config, refresh refresher, log *zap.Logger) {
	rg := router.Group("/admin", apiKeyAuthMiddleware(cfg))

	rg.POST("/refresh", func(c *gin.Context) {
		go func() {
			log.Info("Manual refresh triggered")
			files, err := refresh.Run(context.Background())
			if err != nil {
				log.Error("Manual refresh failed", zap.Error(err))
				return
			}
			log.Info("Manual refresh completed", zap.Int("artworks", files.Count))
		}()
		c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
	})
}

// parsePage liest den page-Parameter; alles Nicht-Numerische ergibt Seite 1.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// parseLimit liest den limit-Parameter von /api/artworks.
func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return defaultAPILimit
	}
	return limit
}

func newPageNav(p services.Page, path string, params url.Values) pageNav {
	link := func(page int) string {
		v := url.Values{}
		for k, vals := range params {
			v[k] = vals
		}
		v.Set("page", strconv.Itoa(page))
		return path + "?" + v.Encode()
	}
	nav := pageNav{
		Page:       p.Page,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPrev(),
		HasNext:    p.HasNext(),
	}
	if nav.HasPrev {
		nav.PrevURL = link(p.Page - 1)
	}
	if nav.HasNext {
		nav.NextURL = link(p.Page + 1)
	}
	return nav
}
