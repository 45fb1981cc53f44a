package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrJamesThe3rd/adpulse/internal/config"
	"github.com/MrJamesThe3rd/adpulse/internal/database"
	adpulseHttp "github.com/MrJamesThe3rd/adpulse/internal/http"
	importHandler "github.com/MrJamesThe3rd/adpulse/internal/http/importcsv"
	recordHandler "github.com/MrJamesThe3rd/adpulse/internal/http/record"
	"github.com/MrJamesThe3rd/adpulse/internal/importer"
	"github.com/MrJamesThe3rd/adpulse/internal/importer/meta"
	"github.com/MrJamesThe3rd/adpulse/internal/metrics"
	"github.com/MrJamesThe3rd/adpulse/internal/report"
	reportStore "github.com/MrJamesThe3rd/adpulse/internal/report/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	match, ok := meta.ParseHeaderMatch(cfg.Import.HeaderMatch)
	if !ok {
		slog.Error("invalid header match mode", "value", cfg.Import.HeaderMatch)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	importOpts := []importer.ServiceOption{
		importer.WithDefaultProfile(cfg.Import.Profile),
		importer.WithMetrics(metrics.NewImport(reg)),
	}
	if cfg.Import.HeaderMatch != "" {
		importOpts = append(importOpts, importer.WithHeaderMatch(match))
	}

	var (
		reportService = report.NewService(reportStore.New(db))
		importService = importer.NewService(importOpts...)
	)

	if _, err := importService.DefaultProfile(); err != nil {
		slog.Error("invalid import configuration", "error", err)
		os.Exit(1)
	}

	var (
		importH  = importHandler.NewHandler(importService, reportService, cfg.Server.MaxUploadSize)
		recordsH = recordHandler.NewHandler(reportService)
	)

	router := adpulseHttp.New(adpulseHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		Gatherer:       reg,
	}, importH, recordsH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "auth", cfg.Auth.JWTSecret != "")

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
