package insights

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shurcooL/githubv4"
	"github.com/telia-oss/github-pr-insights/pullrequest"
)

// Source represents the configuration for a crawl.
type Source struct {
	Organization        string   `json:"organization"`
	AccessTokens        []string `json:"access_tokens"`
	BaseURL             string   `json:"base_url"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	IgnoreRepositories  []string `json:"ignore_repositories,omitempty"`
	SkipSSLVerification bool     `json:"skip_ssl_verification,omitempty"`
}

// Validate the source configuration.
func (s *Source) Validate() error {
	if len(s.AccessTokens) == 0 {
		return errors.New("at least one access token is required")
	}
	for i, t := range s.AccessTokens {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("access token %d is empty", i)
		}
	}
	if s.Organization == "" {
		return errors.New("organization is required")
	}
	if s.StartDate == "" || s.EndDate == "" {
		return errors.New("start_date & end_date are required")
	}
	return nil
}

// Window parses the reporting window.
func (s *Source) Window() (pullrequest.Window, error) {
	return pullrequest.ParseWindow(s.StartDate, s.EndDate)
}

// V3Endpoint is the REST endpoint, empty for github.com.
func (s *Source) V3Endpoint() string {
	if base := s.base(); base != "" {
		return base + "/api/v3/"
	}
	return ""
}

// V4Endpoint is the GraphQL endpoint, empty for github.com.
func (s *Source) V4Endpoint() string {
	if base := s.base(); base != "" {
		return base + "/api/graphql"
	}
	return ""
}

func (s *Source) base() string {
	base := strings.TrimSuffix(s.BaseURL, "/")
	base = strings.TrimSuffix(base, "/api/v3")
	return strings.TrimSuffix(base, "/api/graphql")
}

// PageInfo represents the GraphQL pageInfo object.
// https://developer.github.com/v4/object/pageinfo/
type PageInfo struct {
	EndCursor   githubv4.String
	HasNextPage bool
}

// RateLimitObject represents the GraphQL rateLimit object.
// https://developer.github.com/v4/object/ratelimit/
type RateLimitObject struct {
	Remaining int
}

// UserObject represents an actor that is a GraphQL user.
// https://developer.github.com/v4/object/user/
type UserObject struct {
	User struct {
		Name  string
		Login string
	} `graphql:"... on User"`
}

// PullRequestObject represents the GraphQL pull request node.
// https://developer.github.com/v4/object/pullrequest/
type PullRequestObject struct {
	ID             string
	Number         int
	Title          string
	State          string
	Closed         bool
	Author         UserObject
	MergedBy       UserObject
	ReviewRequests struct {
		Nodes []struct {
			RequestedReviewer UserObject
		}
	} `graphql:"reviewRequests(first:100)"`
	CreatedAt    githubv4.DateTime
	ClosedAt     githubv4.DateTime
	UpdatedAt    githubv4.DateTime
	MergedAt     githubv4.DateTime
	ChangedFiles int
	Additions    int
	Deletions    int
	Commits      struct {
		TotalCount int
	}
	Comments struct {
		TotalCount int
	}
}

// ReviewThreadObject represents the GraphQL review thread node.
// https://developer.github.com/v4/object/pullrequestreviewthread/
type ReviewThreadObject struct {
	IsResolved bool
	Comments   struct {
		TotalCount int
		Nodes      []ReviewCommentObject
	} `graphql:"comments(first:$commentFirst)"`
}

// ReviewCommentObject represents the GraphQL review comment node.
// https://developer.github.com/v4/object/pullrequestreviewcomment/
type ReviewCommentObject struct {
	Author            UserObject
	Body              string
	Path              string
	PullRequestReview *struct {
		State string
	}
	CreatedAt githubv4.DateTime
}

// CommentObject represents the GraphQL issue comment node.
// https://developer.github.com/v4/object/issuecomment/
type CommentObject struct {
	Author    UserObject
	Body      string
	CreatedAt githubv4.DateTime
}

// PullRequestFactory converts a pull request node into a record. Nodes without an id or
// number cannot be keyed and are rejected.
func PullRequestFactory(o PullRequestObject) (*pullrequest.PullRequest, error) {
	if o.ID == "" || o.Number <= 0 {
		return nil, fmt.Errorf("malformed pull request node (id: %q, number: %d)", o.ID, o.Number)
	}
	p := &pullrequest.PullRequest{
		ID:       o.ID,
		Number:   o.Number,
		Title:    o.Title,
		Status:   o.State,
		IsClosed: o.Closed,
		User:     userFactory(o.Author),
		Changes: pullrequest.Changes{
			Added:        o.Additions,
			Deleted:      o.Deletions,
			ChangedFiles: o.ChangedFiles,
		},
		OpenedAt:             timeFactory(o.CreatedAt),
		ClosedAt:             timeFactory(o.ClosedAt),
		MergedAt:             timeFactory(o.MergedAt),
		UpdatedAt:            timeFactory(o.UpdatedAt),
		TotalGeneralComments: o.Comments.TotalCount,
		TotalCommits:         o.Commits.TotalCount,
		Approver:             userFactory(o.MergedBy),
		ReviewThreads:        []pullrequest.ReviewThread{},
		GeneralComments:      []pullrequest.Comment{},
		Reviewers:            []pullrequest.User{},
	}
	for _, r := range o.ReviewRequests.Nodes {
		p.AddReviewer(userFactory(r.RequestedReviewer))
	}
	return p, nil
}

// ReviewThreadFactory converts a review thread node into a record.
func ReviewThreadFactory(o ReviewThreadObject) pullrequest.ReviewThread {
	thread := pullrequest.ReviewThread{
		IsResolved: o.IsResolved,
		Comments:   []pullrequest.Comment{},
	}
	for _, c := range o.Comments.Nodes {
		comment := pullrequest.Comment{
			User:     userFactory(c.Author),
			ForFile:  c.Path,
			Body:     c.Body,
			PostedAt: timeFactory(c.CreatedAt),
		}
		if c.PullRequestReview != nil {
			comment.State = c.PullRequestReview.State
		}
		thread.Comments = append(thread.Comments, comment)
	}
	return thread
}

// CommentFactory converts a general comment node into a record.
func CommentFactory(o CommentObject) pullrequest.Comment {
	return pullrequest.Comment{
		User:     userFactory(o.Author),
		Body:     o.Body,
		PostedAt: timeFactory(o.CreatedAt),
	}
}

// userFactory returns nil for actors that are not users (bots, deleted accounts).
func userFactory(o UserObject) *pullrequest.User {
	if o.User.Login == "" {
		return nil
	}
	return &pullrequest.User{Name: o.User.Name, Login: o.User.Login}
}

func timeFactory(t githubv4.DateTime) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.Time.UTC()
	return &u
}
