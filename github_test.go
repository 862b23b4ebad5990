package insights_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	insights "github.com/telia-oss/github-pr-insights"
	"github.com/telia-oss/github-pr-insights/pullrequest"
)

func TestSourceEndpoints(t *testing.T) {
	tests := []struct {
		description string
		baseURL     string
		v3          string
		v4          string
	}{
		{
			description: "github.com",
			baseURL:     "",
			v3:          "",
			v4:          "",
		},
		{
			description: "enterprise base url",
			baseURL:     "https://github.example.com",
			v3:          "https://github.example.com/api/v3/",
			v4:          "https://github.example.com/api/graphql",
		},
		{
			description: "enterprise v3 url with trailing slash",
			baseURL:     "https://github.example.com/api/v3/",
			v3:          "https://github.example.com/api/v3/",
			v4:          "https://github.example.com/api/graphql",
		},
		{
			description: "enterprise graphql url",
			baseURL:     "https://github.example.com/api/graphql",
			v3:          "https://github.example.com/api/v3/",
			v4:          "https://github.example.com/api/graphql",
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			s := insights.Source{BaseURL: tc.baseURL}
			assert.Equal(t, tc.v3, s.V3Endpoint())
			assert.Equal(t, tc.v4, s.V4Endpoint())
		})
	}
}

func TestSourceValidate(t *testing.T) {
	valid := func() insights.Source {
		return insights.Source{
			Organization: "DigitalManufacturing",
			AccessTokens: []string{"a", "b"},
			StartDate:    "2021-10-01",
			EndDate:      "2021-11-01",
		}
	}

	tests := []struct {
		description string
		modify      func(*insights.Source)
		err         string
	}{
		{description: "valid", modify: func(*insights.Source) {}},
		{description: "no tokens", modify: func(s *insights.Source) { s.AccessTokens = nil }, err: "at least one access token is required"},
		{description: "blank token", modify: func(s *insights.Source) { s.AccessTokens = []string{"a", " "} }, err: "access token 1 is empty"},
		{description: "no organization", modify: func(s *insights.Source) { s.Organization = "" }, err: "organization is required"},
		{description: "no dates", modify: func(s *insights.Source) { s.EndDate = "" }, err: "start_date & end_date are required"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			s := valid()
			tc.modify(&s)
			err := s.Validate()
			if tc.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.err, err.Error())
		})
	}
}

func TestSourceWindow(t *testing.T) {
	s := insights.Source{StartDate: "2021-10-01", EndDate: "2021-11-01"}
	w, err := s.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.October, 1, 0, 0, 0, 0, time.UTC), w.Start)

	s.EndDate = "01/11/2021"
	_, err = s.Window()
	assert.Error(t, err)
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newGraphqlServer serves canned responses for the three list queries and records the
// requests it receives.
func newGraphqlServer(t *testing.T, responses map[string]string) (*httptest.Server, *[]graphqlRequest) {
	var requests []graphqlRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/graphql", func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		var key string
		switch {
		case strings.Contains(req.Query, "pullRequests("):
			key = "pullRequests"
		case strings.Contains(req.Query, "reviewThreads("):
			key = "reviewThreads"
		default:
			key = "comments"
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, responses[key])
	})
	mux.HandleFunc("/api/v3/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message": "Bad credentials"}`)
			return
		}
		fmt.Fprint(w, `{"login": "crawler-bot"}`)
	})
	mux.HandleFunc("/api/v3/repos/DigitalManufacturing/dmc-msownership/contents/Repo_Team_List.json", func(w http.ResponseWriter, r *http.Request) {
		content := base64.StdEncoding.EncodeToString([]byte(`{"Alpha": {}}`))
		fmt.Fprintf(w, `{"type": "file", "encoding": "base64", "name": "Repo_Team_List.json", "content": %q}`, content)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &requests
}

func newTestClient(t *testing.T, server *httptest.Server, tokens ...string) *insights.GithubClient {
	client, err := insights.NewGithubClient(&insights.Source{
		Organization: "DigitalManufacturing",
		AccessTokens: tokens,
		BaseURL:      server.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewGithubClient(t *testing.T) {
	client, err := insights.NewGithubClient(&insights.Source{Organization: "DigitalManufacturing", AccessTokens: []string{"token"}})
	require.NoError(t, err)
	assert.Equal(t, "DigitalManufacturing", client.Owner)

	_, err = insights.NewGithubClient(&insights.Source{Organization: "DigitalManufacturing"})
	assert.Error(t, err)
}

func TestListPullRequests(t *testing.T) {
	server, requests := newGraphqlServer(t, map[string]string{"pullRequests": `{"data": {
		"rateLimit": {"remaining": 4321},
		"repository": {"pullRequests": {
			"nodes": [
				{
					"id": "PR_1", "number": 12, "title": "DIGMANEXE-1 change", "state": "MERGED", "closed": true,
					"author": {"name": "Ann", "login": "ann"},
					"mergedBy": {"name": null, "login": "boss"},
					"reviewRequests": {"nodes": [{"requestedReviewer": {"name": "Rev", "login": "rev"}}, {"requestedReviewer": {}}]},
					"createdAt": "2021-10-04T09:00:00Z", "closedAt": "2021-10-04T09:15:00Z",
					"updatedAt": "2021-10-04T09:15:00Z", "mergedAt": "2021-10-04T09:15:00Z",
					"changedFiles": 3, "additions": 100, "deletions": 50,
					"commits": {"totalCount": 2}, "comments": {"totalCount": 1}
				},
				{
					"id": "", "number": 0, "title": "broken", "state": "OPEN", "closed": false,
					"author": null, "mergedBy": null, "reviewRequests": {"nodes": []},
					"createdAt": "2021-10-04T09:00:00Z", "closedAt": null, "updatedAt": null, "mergedAt": null,
					"changedFiles": 0, "additions": 0, "deletions": 0,
					"commits": {"totalCount": 0}, "comments": {"totalCount": 0}
				}
			],
			"pageInfo": {"endCursor": "Y3Vyc29yOjUw", "hasNextPage": true}
		}}
	}}`})

	client := newTestClient(t, server, "first", "second")
	cursor := "Y3Vyc29yOjA="
	page, err := client.ListPullRequests(context.TODO(), "second", "dmc-service", &cursor)
	require.NoError(t, err)

	assert.Equal(t, insights.Page{RateLimitRemaining: 4321, Found: true, EndCursor: "Y3Vyc29yOjUw", HasNextPage: true}, page.Page)
	require.Len(t, page.PullRequests, 1)
	assert.Len(t, page.Malformed, 1)

	p := page.PullRequests[0]
	assert.Equal(t, "PR_1", p.ID)
	assert.Equal(t, 12, p.Number)
	assert.Equal(t, pullrequest.StateMerged, p.Status)
	assert.Equal(t, &pullrequest.User{Name: "Ann", Login: "ann"}, p.User)
	assert.Equal(t, &pullrequest.User{Login: "boss"}, p.Approver)
	assert.Equal(t, []pullrequest.User{{Name: "Rev", Login: "rev"}}, p.Reviewers)
	assert.Equal(t, pullrequest.Changes{Added: 100, Deleted: 50, ChangedFiles: 3}, p.Changes)
	assert.Equal(t, time.Date(2021, time.October, 4, 9, 15, 0, 0, time.UTC), *p.MergedAt)
	assert.Equal(t, 2, p.TotalCommits)
	assert.Equal(t, 1, p.TotalGeneralComments)

	require.Len(t, *requests, 1)
	vars := (*requests)[0].Variables
	assert.Equal(t, "DigitalManufacturing", vars["repositoryOwner"])
	assert.Equal(t, "dmc-service", vars["repositoryName"])
	assert.Equal(t, cursor, vars["prCursor"])
	assert.Equal(t, float64(insights.PullRequestPageSize), vars["prFirst"])
}

func TestListPullRequestsFirstPage(t *testing.T) {
	server, requests := newGraphqlServer(t, map[string]string{"pullRequests": `{"data": {
		"rateLimit": {"remaining": 99},
		"repository": {"pullRequests": {"nodes": [], "pageInfo": {"endCursor": null, "hasNextPage": false}}}
	}}`})

	page, err := newTestClient(t, server, "token").ListPullRequests(context.TODO(), "token", "empty", nil)
	require.NoError(t, err)
	assert.Equal(t, insights.Page{RateLimitRemaining: 99, Found: true}, page.Page)
	assert.Empty(t, page.PullRequests)

	require.Len(t, *requests, 1)
	v, ok := (*requests)[0].Variables["prCursor"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestListPullRequestsMissingRepository(t *testing.T) {
	server, _ := newGraphqlServer(t, map[string]string{"pullRequests": `{"data": {
		"rateLimit": {"remaining": 4000},
		"repository": null
	}}`})

	page, err := newTestClient(t, server, "token").ListPullRequests(context.TODO(), "token", "gone", nil)
	require.NoError(t, err)
	assert.False(t, page.Found)
	assert.Equal(t, 4000, page.RateLimitRemaining)
}

func TestListReviewThreads(t *testing.T) {
	server, requests := newGraphqlServer(t, map[string]string{"reviewThreads": `{"data": {
		"rateLimit": {"remaining": 1000},
		"repository": {"pullRequest": {"reviewThreads": {
			"nodes": [
				{"isResolved": true, "comments": {"totalCount": 2, "nodes": [
					{"author": {"name": "Rev", "login": "rev"}, "body": "nit", "path": "main.go",
					 "pullRequestReview": {"state": "COMMENTED"}, "createdAt": "2021-10-04T09:05:00Z"},
					{"author": {"name": null, "login": "ann"}, "body": "done", "path": "main.go",
					 "pullRequestReview": null, "createdAt": "2021-10-04T09:07:00Z"}
				]}},
				{"isResolved": false, "comments": {"totalCount": 1, "nodes": [
					{"author": null, "body": "bot", "path": "go.mod", "pullRequestReview": null, "createdAt": null}
				]}}
			],
			"pageInfo": {"endCursor": "abc", "hasNextPage": false}
		}}}
	}}`})

	page, err := newTestClient(t, server, "token").ListReviewThreads(context.TODO(), "token", "dmc-service", 42, nil)
	require.NoError(t, err)
	assert.Equal(t, insights.Page{RateLimitRemaining: 1000, Found: true, EndCursor: "abc"}, page.Page)
	assert.Equal(t, 3, page.TotalComments)
	require.Len(t, page.ReviewThreads, 2)

	first := page.ReviewThreads[0]
	assert.True(t, first.IsResolved)
	require.Len(t, first.Comments, 2)
	assert.Equal(t, "COMMENTED", first.Comments[0].State)
	assert.Equal(t, "main.go", first.Comments[0].ForFile)
	assert.Equal(t, &pullrequest.User{Login: "ann"}, first.Comments[1].User)
	assert.Equal(t, "", first.Comments[1].State)

	second := page.ReviewThreads[1]
	assert.Nil(t, second.Comments[0].User)
	assert.Nil(t, second.Comments[0].PostedAt)

	vars := (*requests)[0].Variables
	assert.Equal(t, float64(42), vars["prNumber"])
	assert.Equal(t, float64(insights.CommentPageSize), vars["commentFirst"])
}

func TestListReviewThreadsMissingPullRequest(t *testing.T) {
	server, _ := newGraphqlServer(t, map[string]string{"reviewThreads": `{"data": {
		"rateLimit": {"remaining": 1000},
		"repository": {"pullRequest": null}
	}}`})

	page, err := newTestClient(t, server, "token").ListReviewThreads(context.TODO(), "token", "dmc-service", 404, nil)
	require.NoError(t, err)
	assert.False(t, page.Found)
	assert.Empty(t, page.ReviewThreads)
}

func TestListComments(t *testing.T) {
	server, _ := newGraphqlServer(t, map[string]string{"comments": `{"data": {
		"rateLimit": {"remaining": 50},
		"repository": {"pullRequest": {"comments": {
			"nodes": [{"author": {"name": "Bob", "login": "bob"}, "body": "lgtm", "createdAt": "2021-10-04T10:00:00Z"}],
			"pageInfo": {"endCursor": "next", "hasNextPage": true}
		}}}
	}}`})

	page, err := newTestClient(t, server, "token").ListComments(context.TODO(), "token", "dmc-service", 7, nil)
	require.NoError(t, err)
	assert.Equal(t, insights.Page{RateLimitRemaining: 50, Found: true, EndCursor: "next", HasNextPage: true}, page.Page)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "lgtm", page.Comments[0].Body)
	assert.Equal(t, time.Date(2021, time.October, 4, 10, 0, 0, 0, time.UTC), *page.Comments[0].PostedAt)
}

func TestListUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server, "token").ListPullRequests(context.TODO(), "token", "dmc-service", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 Unauthorized")
}

func TestAuthenticate(t *testing.T) {
	server, _ := newGraphqlServer(t, nil)

	login, err := newTestClient(t, server, "good").Authenticate(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, "crawler-bot", login)

	_, err = newTestClient(t, server, "revoked").Authenticate(context.TODO())
	require.Error(t, err)
	assert.True(t, insights.IsFatal(err))
}

func TestGetFileContent(t *testing.T) {
	server, _ := newGraphqlServer(t, nil)

	b, err := newTestClient(t, server, "good").GetFileContent(context.TODO(), "dmc-msownership", "Repo_Team_List.json")
	require.NoError(t, err)
	assert.Equal(t, `{"Alpha": {}}`, string(b))
}
