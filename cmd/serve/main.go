package main

import (
	"log"
	"net/http"
	"time"

	"github.com/telia-oss/github-pr-insights/env"
	filelog "github.com/telia-oss/github-pr-insights/log"
	"github.com/telia-oss/github-pr-insights/team"
	"github.com/telia-oss/github-pr-insights/web"
)

func main() {
	cfg, err := env.Read()
	if err != nil {
		log.Fatalf("failed to read configuration: %s", err)
	}

	logger, err := filelog.New(cfg.LogDirectory, cfg.LogDebug)
	if err != nil {
		log.Fatalf("failed to open log: %s", err)
	}
	defer logger.Close()

	load := func() (team.Report, error) {
		return team.ReadReport(cfg.MetricsFile)
	}
	s := web.NewServer(load, logger.Logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("serving team metrics", "op", "serve", "addr", cfg.Addr, "path", cfg.MetricsFile)
	log.Printf("serving %s on %s", cfg.MetricsFile, cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "op", "serve", "error", err.Error())
		log.Fatalf("server stopped: %s", err)
	}
}
