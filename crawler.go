package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/telia-oss/github-pr-insights/pullrequest"
)

// DefaultBackoff is how long the crawl pauses after the credential pool rotates.
const DefaultBackoff = 60 * time.Second

// MaxRateLimitRetries bounds how often a single request is retried after the API
// rejected it for an exhausted rate limit.
const MaxRateLimitRetries = 5

// Severity tells the caller whether a failed step may be skipped.
type Severity int

// Severities
const (
	Recoverable Severity = iota
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "recoverable"
}

// CrawlError is a failed crawl step together with the entity it was working on.
type CrawlError struct {
	Op         string
	Repository string
	Number     int
	Severity   Severity
	Err        error
}

func (e *CrawlError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Repository != "" {
		fmt.Fprintf(&b, " repository %s", e.Repository)
	}
	if e.Number > 0 {
		fmt.Fprintf(&b, " PR %d", e.Number)
	}
	fmt.Fprintf(&b, " (%s): %s", e.Severity, e.Err)
	return b.String()
}

func (e *CrawlError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if err (or an error it wraps) is a fatal CrawlError.
func IsFatal(err error) bool {
	var ce *CrawlError
	return errors.As(err, &ce) && ce.Severity == Fatal
}

// Pagination states. Every (repository, PR, endpoint) walk has its own machine.
type state int

const (
	stateFetching state = iota
	stateRateLimited
	stateExhausted
	stateError
)

// fetchFunc requests the page after cursor and consumes its nodes.
type fetchFunc func(ctx context.Context, credential string, cursor *string) (Page, error)

// Crawler walks the list endpoints of a set of repositories.
type Crawler struct {
	Github Github
	Pool   *CredentialPool
	// Filter decides which listed pull requests are kept.
	Filter  pullrequest.Filter
	Backoff time.Duration
	Sleep   func(time.Duration)
	Logger  *slog.Logger

	exceptions *multierror.Error
}

// NewCrawler keeping the pull requests opened at or after since.
func NewCrawler(github Github, pool *CredentialPool, since time.Time, logger *slog.Logger) *Crawler {
	return &Crawler{
		Github:  github,
		Pool:    pool,
		Filter:  pullrequest.OpenedSince(since),
		Backoff: DefaultBackoff,
		Sleep:   time.Sleep,
		Logger:  logger,
	}
}

// Exceptions returns the recoverable errors recorded so far.
func (c *Crawler) Exceptions() []error {
	if c.exceptions == nil {
		return nil
	}
	return c.exceptions.Errors
}

// Crawl every repository in order. The returned store holds whatever was collected,
// also when a fatal error stops the crawl.
func (c *Crawler) Crawl(ctx context.Context, repositories []string) (pullrequest.Store, error) {
	store := make(pullrequest.Store)
	for _, repository := range repositories {
		if err := c.CrawlRepository(ctx, repository, store); err != nil {
			return store, err
		}
	}
	c.Logger.Info("crawl finished",
		"op", "crawl",
		"repositories", len(repositories),
		"pull_requests", store.Count(),
		"exceptions", len(c.Exceptions()),
	)
	return store, nil
}

// CrawlRepository lists the pull requests of a repository, enriches each of them with
// its comments and review threads and computes the derived metrics. Only fatal errors
// are returned; everything else is recorded as an exception.
func (c *Crawler) CrawlRepository(ctx context.Context, repository string, store pullrequest.Store) error {
	var pulls []*pullrequest.PullRequest

	err := c.paginate(ctx, "list pull requests", repository, 0, func(ctx context.Context, credential string, cursor *string) (Page, error) {
		page, err := c.Github.ListPullRequests(ctx, credential, repository, cursor)
		if err != nil {
			return Page{}, err
		}
		for _, e := range page.Malformed {
			c.record(&CrawlError{Op: "list pull requests", Repository: repository, Severity: Recoverable, Err: e})
		}
		for _, p := range page.PullRequests {
			if c.Filter == nil || c.Filter(*p) {
				pulls = append(pulls, p)
			}
		}
		return page.Page, nil
	})
	if err != nil {
		if IsFatal(err) {
			return err
		}
		// The repository is abandoned but what was listed so far is kept.
		c.record(err)
	}

	for _, p := range pulls {
		if err := c.enrich(ctx, repository, p); err != nil {
			return err
		}
		store.Add(repository, p)
	}

	c.Logger.Info("repository crawled", "op", "crawl repository", "repository", repository, "pull_requests", len(pulls))
	return nil
}

// enrich fetches the comments and review threads of p and computes its metrics.
func (c *Crawler) enrich(ctx context.Context, repository string, p *pullrequest.PullRequest) error {
	err := c.paginate(ctx, "list comments", repository, p.Number, func(ctx context.Context, credential string, cursor *string) (Page, error) {
		page, err := c.Github.ListComments(ctx, credential, repository, p.Number, cursor)
		if err != nil {
			return Page{}, err
		}
		p.GeneralComments = append(p.GeneralComments, page.Comments...)
		return page.Page, nil
	})
	if err := c.handle(err); err != nil {
		return err
	}

	err = c.paginate(ctx, "list review threads", repository, p.Number, func(ctx context.Context, credential string, cursor *string) (Page, error) {
		page, err := c.Github.ListReviewThreads(ctx, credential, repository, p.Number, cursor)
		if err != nil {
			return Page{}, err
		}
		for _, thread := range page.ReviewThreads {
			for _, comment := range thread.Comments {
				p.AddReviewer(comment.User)
			}
			p.ReviewThreads = append(p.ReviewThreads, thread)
		}
		p.TotalReviewComments += page.TotalComments
		return page.Page, nil
	})
	if err := c.handle(err); err != nil {
		return err
	}

	p.Enrich()
	return nil
}

// handle records recoverable errors and passes fatal ones through.
func (c *Crawler) handle(err error) error {
	if err == nil {
		return nil
	}
	if IsFatal(err) {
		return err
	}
	c.record(err)
	return nil
}

func (c *Crawler) record(err error) {
	c.Logger.Error("crawl step failed", "op", "record exception", "error", err.Error())
	c.exceptions = multierror.Append(c.exceptions, err)
}

// paginate drives the state machine of one (repository, PR, endpoint) walk. A fresh walk
// always starts with a null cursor and the cursor only moves forward.
func (c *Crawler) paginate(ctx context.Context, op, repository string, number int, fetch fetchFunc) error {
	var (
		cursor  *string
		page    Page
		err     error
		retry   bool
		retries int
	)
	logger := c.Logger.With("op", op, "repository", repository)
	if number > 0 {
		logger = logger.With("pr", number)
	}

	s := stateFetching
	for {
		switch s {
		case stateFetching:
			retry = false
			page, err = fetch(ctx, c.Pool.Current(), cursor)
			if err != nil {
				if isRateLimited(err) && retries < MaxRateLimitRetries {
					retries++
					retry = true
					c.Pool.Rotate()
					s = stateRateLimited
					continue
				}
				s = stateError
				continue
			}
			retries = 0
			if !page.Found {
				logger.Info("no data returned, stopping pagination")
				return nil
			}
			if page.HasNextPage {
				if page.EndCursor == "" {
					err = errors.New("next page announced without an end cursor")
					s = stateError
					continue
				}
				next := page.EndCursor
				cursor = &next
			}
			switch {
			case c.Pool.Observe(page.RateLimitRemaining):
				s = stateRateLimited
			case page.HasNextPage:
				s = stateFetching
			default:
				s = stateExhausted
			}

		case stateRateLimited:
			if retry {
				logger.Info("rate limit exceeded, pausing and retrying with the next credential",
					"error", err.Error(),
					"attempt", retries,
					"credential", c.Pool.Index(),
					"backoff", c.Backoff.String(),
				)
			} else {
				logger.Info("rate limit below threshold, pausing and rotating credential",
					"remaining", page.RateLimitRemaining,
					"credential", c.Pool.Index(),
					"backoff", c.Backoff.String(),
				)
			}
			if c.Backoff > 0 && c.Sleep != nil {
				c.Sleep(c.Backoff)
			}
			// A rejected request is repeated with the same cursor.
			if retry || page.HasNextPage {
				s = stateFetching
			} else {
				s = stateExhausted
			}

		case stateExhausted:
			logger.Debug("pagination finished")
			return nil

		case stateError:
			severity := Recoverable
			if isUnauthorized(err) {
				severity = Fatal
			}
			logger.Error("pagination failed", "error", err.Error(), "severity", severity.String())
			return &CrawlError{Op: op, Repository: repository, Number: number, Severity: severity, Err: err}
		}
	}
}

// isUnauthorized matches the status line returned for a revoked or invalid token.
func isUnauthorized(err error) bool {
	return strings.Contains(err.Error(), "401 Unauthorized")
}

// isRateLimited matches the errors returned once a token has no budget left, both the
// GraphQL RATE_LIMITED error and the REST 403 message.
func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit exceeded") || strings.Contains(msg, "rate_limited")
}
