package api

import (
	"encoding/json"
	"net/http"

	_ "github.com/blaisecz/sleep-analytics/docs"
	"github.com/blaisecz/sleep-analytics/internal/api/handler"
	"github.com/blaisecz/sleep-analytics/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Router struct {
	recordHandler    *handler.SleepRecordHandler
	importHandler    *handler.ImportHandler
	analyticsHandler *handler.AnalyticsHandler
	logger           *zap.Logger
}

func NewRouter(recordHandler *handler.SleepRecordHandler, importHandler *handler.ImportHandler, analyticsHandler *handler.AnalyticsHandler, logger *zap.Logger) *Router {
	return &Router{
		recordHandler:    recordHandler,
		importHandler:    importHandler,
		analyticsHandler: analyticsHandler,
		logger:           logger,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1/users/{userId}", func(r chi.Router) {
		r.Route("/sleep-records", func(r chi.Router) {
			r.Post("/", rt.recordHandler.Create)
			r.Get("/", rt.recordHandler.List)
			r.Post("/import/apple-health", rt.importHandler.ImportAppleHealth)
			r.Post("/generate", rt.importHandler.Generate)

			r.Route("/{recordId}", func(r chi.Router) {
				r.Get("/", rt.recordHandler.Get)
				r.Put("/", rt.recordHandler.Replace)
				r.Delete("/", rt.recordHandler.Delete)
			})
		})

		r.Route("/sleep/analytics", func(r chi.Router) {
			r.Get("/", rt.analyticsHandler.Analyze)
			r.Get("/export", rt.analyticsHandler.Export)
		})
	})

	return r
}
