package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/adpulse/internal/http/auth"
	"github.com/MrJamesThe3rd/adpulse/internal/http/importcsv"
	"github.com/MrJamesThe3rd/adpulse/internal/http/record"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer token checks on /api/v1 when set.
	JWTSecret string
	Gatherer  prometheus.Gatherer
}

func New(
	opts Options,
	importV1 *importcsv.Handler,
	recordsV1 *record.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(auth.Middleware([]byte(opts.JWTSecret)))
		}

		r.Route("/import", func(r chi.Router) {
			importV1.Routes(r)
		})

		r.Route("/records", func(r chi.Router) {
			recordsV1.Routes(r)
		})
	})

	return router
}
