package pullrequest

import (
	"strconv"
	"time"
)

// Pull request states reported by the API.
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
	StateMerged = "MERGED"
)

// PullRequest represents a crawled pull request together with its derived metrics.
type PullRequest struct {
	ID                   string         `json:"id"`
	Number               int            `json:"PR_number"`
	Title                string         `json:"title"`
	Status               string         `json:"status"`
	IsClosed             bool           `json:"is_closed"`
	User                 *User          `json:"user"`
	Changes              Changes        `json:"changes"`
	OpenedAt             *time.Time     `json:"opened_at"`
	ClosedAt             *time.Time     `json:"closed_at"`
	MergedAt             *time.Time     `json:"merged_at"`
	UpdatedAt            *time.Time     `json:"updated_at"`
	PreReviewTime        *Minutes       `json:"pre_review_time"`
	PostReviewTime       *Minutes       `json:"post_review_time"`
	ReviewDuration       *Minutes       `json:"review_duration"`
	ReviewRate           *Rate          `json:"review_rate"`
	InspectionTime       *Minutes       `json:"inspection_time"`
	InspectionRate       *Rate          `json:"inspection_rate"`
	ReviewThreads        []ReviewThread `json:"review_threads"`
	TotalReviewComments  int            `json:"total_review_comments"`
	GeneralComments      []Comment      `json:"general_comments"`
	TotalGeneralComments int            `json:"total_general_comments"`
	TotalCommits         int            `json:"total_commits"`
	Reviewers            []User         `json:"reviewers"`
	Approver             *User          `json:"approver"`
}

// User is the author of a pull request or a comment.
type User struct {
	Name  string `json:"name"`
	Login string `json:"login"`
}

// DisplayName falls back to the login when the user has no name set.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// Changes holds the size of a pull request.
type Changes struct {
	Added        int `json:"added"`
	Deleted      int `json:"deleted"`
	ChangedFiles int `json:"changed_file"`
}

// LOC is the number of added and deleted lines.
func (c Changes) LOC() int {
	return c.Added + c.Deleted
}

// ReviewThread represents a group of review comments on one location of the diff.
type ReviewThread struct {
	IsResolved     bool      `json:"is_resolved"`
	Comments       []Comment `json:"comments"`
	ThreadDuration *Minutes  `json:"thread_duration"`
}

// Comment represents a review or general comment on a PR
type Comment struct {
	User     *User      `json:"user"`
	ForFile  string     `json:"for_file,omitempty"`
	Body     string     `json:"body"`
	State    string     `json:"state,omitempty"`
	PostedAt *time.Time `json:"posted_at"`
}

// Key is the identifier of the pull request inside its repository in the persisted document.
func (p *PullRequest) Key() string {
	return Key(p.Number)
}

// Key formats a pull request number as a persisted document key.
func Key(number int) string {
	return "PR" + strconv.Itoa(number)
}

// AddReviewer records u as a reviewer unless it is the author or already present.
func (p *PullRequest) AddReviewer(u *User) {
	if u == nil {
		return
	}
	if p.User != nil && *p.User == *u {
		return
	}
	for _, r := range p.Reviewers {
		if r == *u {
			return
		}
	}
	p.Reviewers = append(p.Reviewers, *u)
}

// Merged returns true if the pull request has a merge timestamp.
func (p *PullRequest) Merged() bool {
	return p.MergedAt != nil
}
