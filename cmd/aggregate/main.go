package main

import (
	"context"
	"fmt"
	"log"

	insights "github.com/telia-oss/github-pr-insights"
	"github.com/telia-oss/github-pr-insights/env"
	filelog "github.com/telia-oss/github-pr-insights/log"
	"github.com/telia-oss/github-pr-insights/pullrequest"
	"github.com/telia-oss/github-pr-insights/team"
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

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("aggregation failed", "op", "aggregate", "error", err.Error())
		logger.Close()
		log.Fatalf("aggregation failed: %s", err)
	}
	logger.Close()
}

func run(ctx context.Context, cfg env.Config, logger *filelog.Logger) error {
	window, err := pullrequest.ParseWindow(cfg.StartDate, cfg.EndDate)
	if err != nil {
		return err
	}

	store, err := pullrequest.LoadStore(cfg.OutputFile)
	if err != nil {
		return err
	}

	var files insights.FileGetter
	if cfg.OwnershipFile == "" {
		client, err := insights.NewGithubClient(cfg.Source())
		if err != nil {
			return fmt.Errorf("failed to create github client: %s", err)
		}
		files = client
	}
	teams, err := insights.ReadOwnership(ctx, files, cfg.Ownership())
	if err != nil {
		return err
	}

	a := &team.Aggregator{Window: window, NamingPrefix: cfg.NamingPrefix}
	report := a.Aggregate(teams, team.Records(store))
	for _, name := range report.Teams() {
		m := report[name]
		logger.Info("team aggregated",
			"op", "aggregate",
			"team", name,
			"repositories", m.Repos,
			"opened", m.OpenedPR,
			"closed", m.ClosedPR,
		)
	}

	if err := team.WriteReport(cfg.MetricsFile, report); err != nil {
		return err
	}
	logger.Info("team metrics saved", "op", "save", "path", cfg.MetricsFile, "teams", len(report))
	return nil
}
