package insights

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/go-github/github"
	"github.com/shurcooL/githubv4"
	"github.com/telia-oss/github-pr-insights/pullrequest"
	"golang.org/x/oauth2"
)

// Page sizes of the three list queries.
const (
	PullRequestPageSize  = 50
	ReviewThreadPageSize = 100
	CommentPageSize      = 100
)

// Github for testing purposes.
//go:generate counterfeiter -o fakes/fake_github.go . Github
type Github interface {
	ListPullRequests(ctx context.Context, credential, repository string, cursor *string) (*PullRequestPage, error)
	ListReviewThreads(ctx context.Context, credential, repository string, number int, cursor *string) (*ReviewThreadPage, error)
	ListComments(ctx context.Context, credential, repository string, number int, cursor *string) (*CommentPage, error)
}

// Page is the pagination state returned with every list query.
type Page struct {
	// RateLimitRemaining is -1 when the API did not report a budget.
	RateLimitRemaining int
	// Found is false when the repository or pull request does not exist.
	Found       bool
	EndCursor   string
	HasNextPage bool
}

// PullRequestPage ...
type PullRequestPage struct {
	Page
	PullRequests []*pullrequest.PullRequest
	// Malformed holds one error per node that could not be converted.
	Malformed []error
}

// ReviewThreadPage ...
type ReviewThreadPage struct {
	Page
	ReviewThreads []pullrequest.ReviewThread
	// TotalComments sums the comment count of every thread on the page.
	TotalComments int
}

// CommentPage ...
type CommentPage struct {
	Page
	Comments []pullrequest.Comment
}

// GithubClient for handling requests to the Github V3 and V4 APIs.
type GithubClient struct {
	V3         *github.Client
	Owner      string
	v4Endpoint string
	transport  *http.Client

	mu sync.Mutex
	v4 map[string]*githubv4.Client
}

// NewGithubClient ...
func NewGithubClient(s *Source) (*GithubClient, error) {
	if len(s.AccessTokens) == 0 {
		return nil, errors.New("access token is required")
	}

	base := &http.Client{}
	if s.SkipSSLVerification {
		base.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	m := &GithubClient{
		Owner:      s.Organization,
		v4Endpoint: s.V4Endpoint(),
		transport:  base,
		v4:         make(map[string]*githubv4.Client),
	}
	client := m.httpClient(s.AccessTokens[0])

	if s.V3Endpoint() != "" {
		endpoint, err := url.Parse(s.V3Endpoint())
		if err != nil {
			return nil, fmt.Errorf("failed to parse v3 endpoint: %s", err)
		}
		m.V3, err = github.NewEnterpriseClient(endpoint.String(), endpoint.String(), client)
		if err != nil {
			return nil, err
		}
	} else {
		m.V3 = github.NewClient(client)
	}

	if m.v4Endpoint != "" {
		if _, err := url.Parse(m.v4Endpoint); err != nil {
			return nil, fmt.Errorf("failed to parse v4 endpoint: %s", err)
		}
	}
	return m, nil
}

func (m *GithubClient) httpClient(token string) *http.Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, m.transport)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))
}

// client returns the V4 client authenticated with credential, creating it on first use.
func (m *GithubClient) client(credential string) *githubv4.Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.v4[credential]; ok {
		return c
	}
	var c *githubv4.Client
	if m.v4Endpoint != "" {
		c = githubv4.NewEnterpriseClient(m.v4Endpoint, m.httpClient(credential))
	} else {
		c = githubv4.NewClient(m.httpClient(credential))
	}
	m.v4[credential] = c
	return c
}

// Authenticate verifies the first credential and returns the login it belongs to.
func (m *GithubClient) Authenticate(ctx context.Context) (string, error) {
	user, _, err := m.V3.Users.Get(ctx, "")
	if err != nil {
		return "", &CrawlError{Op: "authenticate", Severity: Fatal, Err: err}
	}
	return user.GetLogin(), nil
}

// GetFileContent downloads a file from the default branch of a repository. The repository
// is either "owner/name" or a name inside the configured organization.
func (m *GithubClient) GetFileContent(ctx context.Context, repository, path string) ([]byte, error) {
	owner, name := m.Owner, repository
	if parts := strings.Split(repository, "/"); len(parts) == 2 {
		owner, name = parts[0], parts[1]
	}
	file, _, _, err := m.V3.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("%s in %s/%s is not a file", path, owner, name)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %s", path, err)
	}
	return []byte(content), nil
}

// ListPullRequests gets one page of pull requests of a repository (newest last).
func (m *GithubClient) ListPullRequests(ctx context.Context, credential, repository string, cursor *string) (*PullRequestPage, error) {
	var query struct {
		RateLimit  *RateLimitObject
		Repository *struct {
			PullRequests struct {
				Nodes    []PullRequestObject
				PageInfo PageInfo
			} `graphql:"pullRequests(first:$prFirst,after:$prCursor)"`
		} `graphql:"repository(owner:$repositoryOwner,name:$repositoryName)"`
	}

	vars := map[string]interface{}{
		"repositoryOwner": githubv4.String(m.Owner),
		"repositoryName":  githubv4.String(repository),
		"prFirst":         githubv4.Int(PullRequestPageSize),
		"prCursor":        cursorVar(cursor),
	}

	page := &PullRequestPage{Page: Page{RateLimitRemaining: -1}}
	if err := m.client(credential).Query(ctx, &query, vars); err != nil {
		if isNotFound(err) {
			return page, nil
		}
		return nil, err
	}
	page.RateLimitRemaining = remaining(query.RateLimit)
	if query.Repository == nil {
		return page, nil
	}
	page.Page = newPage(page.RateLimitRemaining, query.Repository.PullRequests.PageInfo)
	for _, n := range query.Repository.PullRequests.Nodes {
		p, err := PullRequestFactory(n)
		if err != nil {
			page.Malformed = append(page.Malformed, err)
			continue
		}
		page.PullRequests = append(page.PullRequests, p)
	}
	return page, nil
}

// ListReviewThreads gets one page of review threads of a pull request.
func (m *GithubClient) ListReviewThreads(ctx context.Context, credential, repository string, number int, cursor *string) (*ReviewThreadPage, error) {
	var query struct {
		RateLimit  *RateLimitObject
		Repository *struct {
			PullRequest *struct {
				ReviewThreads struct {
					Nodes    []ReviewThreadObject
					PageInfo PageInfo
				} `graphql:"reviewThreads(first:$threadFirst,after:$threadCursor)"`
			} `graphql:"pullRequest(number:$prNumber)"`
		} `graphql:"repository(owner:$repositoryOwner,name:$repositoryName)"`
	}

	vars := map[string]interface{}{
		"repositoryOwner": githubv4.String(m.Owner),
		"repositoryName":  githubv4.String(repository),
		"prNumber":        githubv4.Int(number),
		"threadFirst":     githubv4.Int(ReviewThreadPageSize),
		"threadCursor":    cursorVar(cursor),
		"commentFirst":    githubv4.Int(CommentPageSize),
	}

	page := &ReviewThreadPage{Page: Page{RateLimitRemaining: -1}}
	if err := m.client(credential).Query(ctx, &query, vars); err != nil {
		if isNotFound(err) {
			return page, nil
		}
		return nil, err
	}
	page.RateLimitRemaining = remaining(query.RateLimit)
	if query.Repository == nil || query.Repository.PullRequest == nil {
		return page, nil
	}
	threads := query.Repository.PullRequest.ReviewThreads
	page.Page = newPage(page.RateLimitRemaining, threads.PageInfo)
	for _, n := range threads.Nodes {
		page.ReviewThreads = append(page.ReviewThreads, ReviewThreadFactory(n))
		page.TotalComments += n.Comments.TotalCount
	}
	return page, nil
}

// ListComments gets one page of general (issue) comments of a pull request.
func (m *GithubClient) ListComments(ctx context.Context, credential, repository string, number int, cursor *string) (*CommentPage, error) {
	var query struct {
		RateLimit  *RateLimitObject
		Repository *struct {
			PullRequest *struct {
				Comments struct {
					Nodes    []CommentObject
					PageInfo PageInfo
				} `graphql:"comments(first:$commentFirst,after:$commentCursor)"`
			} `graphql:"pullRequest(number:$prNumber)"`
		} `graphql:"repository(owner:$repositoryOwner,name:$repositoryName)"`
	}

	vars := map[string]interface{}{
		"repositoryOwner": githubv4.String(m.Owner),
		"repositoryName":  githubv4.String(repository),
		"prNumber":        githubv4.Int(number),
		"commentFirst":    githubv4.Int(CommentPageSize),
		"commentCursor":   cursorVar(cursor),
	}

	page := &CommentPage{Page: Page{RateLimitRemaining: -1}}
	if err := m.client(credential).Query(ctx, &query, vars); err != nil {
		if isNotFound(err) {
			return page, nil
		}
		return nil, err
	}
	page.RateLimitRemaining = remaining(query.RateLimit)
	if query.Repository == nil || query.Repository.PullRequest == nil {
		return page, nil
	}
	comments := query.Repository.PullRequest.Comments
	page.Page = newPage(page.RateLimitRemaining, comments.PageInfo)
	for _, n := range comments.Nodes {
		page.Comments = append(page.Comments, CommentFactory(n))
	}
	return page, nil
}

func newPage(remaining int, info PageInfo) Page {
	return Page{
		RateLimitRemaining: remaining,
		Found:              true,
		EndCursor:          string(info.EndCursor),
		HasNextPage:        info.HasNextPage,
	}
}

func cursorVar(cursor *string) *githubv4.String {
	if cursor == nil {
		return nil
	}
	return githubv4.NewString(githubv4.String(*cursor))
}

func remaining(r *RateLimitObject) int {
	if r == nil {
		return -1
	}
	return r.Remaining
}

// isNotFound matches the error GitHub returns for an unknown repository or pull request.
func isNotFound(err error) bool {
	return strings.Contains(err.Error(), "Could not resolve to a")
}
