package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"seriesgen/internal/api/handlers"
	"seriesgen/internal/api/middleware"
	"seriesgen/internal/config"
	"seriesgen/internal/export"
	"seriesgen/internal/metrics"
	"seriesgen/internal/store"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config    *config.Config
	Results   *store.ResultStore
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Publisher handlers.Publisher
	Log       *zap.Logger
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	cfg := d.Config

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.ErrorHandler(d.Log))
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	gen := handlers.NewGenerateHandler(handlers.Settings{
		Layout:         cfg.Layout.ToLayout(),
		Sheet:          cfg.Layout.Sheet,
		Seed:           cfg.Generator.Seed,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		MaxRows:        cfg.Server.MaxRows,
		PreviewRows:    cfg.Server.PreviewRows,
		ResultTTL:      cfg.Server.ResultTTL,
		Export:         export.Options{TimestampLayout: cfg.Output.TimestampLayout},
		FileName:       cfg.Output.FileName,
	}, d.Results, d.Metrics, d.Log)
	if d.Publisher != nil {
		gen.WithPublisher(d.Publisher)
	}

	router.GET("/health", handlers.Health)
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/generate", gen.Generate)
		v1.GET("/generate/:id/download", gen.Download)
		v1.POST("/generate/:id/publish", gen.Publish)
		v1.GET("/generate/:id/stats", gen.Stats)
		v1.DELETE("/generate/:id", gen.Discard)
		v1.GET("/template", gen.Template)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
