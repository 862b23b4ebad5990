package main

import (
	"context"
	"fmt"
	"log"

	insights "github.com/telia-oss/github-pr-insights"
	"github.com/telia-oss/github-pr-insights/env"
	filelog "github.com/telia-oss/github-pr-insights/log"
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
		logger.Error("crawl failed", "op", "crawl", "error", err.Error())
		logger.Close()
		log.Fatalf("crawl failed: %s", err)
	}
	logger.Close()
}

func run(ctx context.Context, cfg env.Config, logger *filelog.Logger) error {
	source := cfg.Source()
	if err := source.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %s", err)
	}
	window, err := source.Window()
	if err != nil {
		return err
	}

	client, err := insights.NewGithubClient(source)
	if err != nil {
		return fmt.Errorf("failed to create github client: %s", err)
	}
	login, err := client.Authenticate(ctx)
	if err != nil {
		return err
	}
	logger.Info("authenticated", "op", "authenticate", "login", login, "credentials", len(source.AccessTokens))

	teams, err := insights.ReadOwnership(ctx, client, cfg.Ownership())
	if err != nil {
		return err
	}
	repos, err := insights.SelectRepositories(teams, source.IgnoreRepositories)
	if err != nil {
		return err
	}
	logger.Info("crawl started",
		"op", "crawl",
		"teams", len(teams),
		"repositories", len(repos),
		"start", window.Start.Format("2006-01-02"),
		"end", window.End.Format("2006-01-02"),
	)

	pool, err := insights.NewCredentialPool(source.AccessTokens)
	if err != nil {
		return err
	}
	crawler := insights.NewCrawler(client, pool, window.Start, logger.Logger)
	store, crawlErr := crawler.Crawl(ctx, repos)

	// Whatever was collected is persisted, also when the crawl was aborted.
	if err := store.Save(cfg.OutputFile); err != nil {
		return err
	}
	logger.Info("pull requests saved", "op", "save", "path", cfg.OutputFile, "pull_requests", store.Count())

	if exceptions := crawler.Exceptions(); len(exceptions) > 0 {
		if err := filelog.WriteExceptions(cfg.ExceptionFile, logger.RunID, exceptions); err != nil {
			return err
		}
		logger.Warn("crawl finished with exceptions", "op", "crawl", "exceptions", len(exceptions), "path", cfg.ExceptionFile)
	}
	return crawlErr
}
