package team

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strconv"
	"time"

	"github.com/telia-oss/github-pr-insights/pullrequest"
)

// Buckets is the number of integration time buckets.
const Buckets = 8

// bucketBounds are the exclusive upper bounds (in minutes) of the first seven buckets.
var bucketBounds = [Buckets - 1]float64{10, 360, 1440, 10080, 302400, 1814400, 3628800}

// BucketLabels describe the integration time buckets in order.
var BucketLabels = [Buckets]string{
	"< 10 min",
	"10 min - 6 h",
	"6 h - 1 day",
	"1 day - 1 week",
	"1 week - 30 weeks",
	"30 weeks - 180 weeks",
	"180 weeks - 360 weeks",
	">= 360 weeks",
}

// BucketFor returns the index of the bucket holding a duration. Negative durations fall
// into the first bucket.
func BucketFor(minutes float64) int {
	for i, bound := range bucketBounds {
		if minutes < bound {
			return i
		}
	}
	return Buckets - 1
}

// Histogram counts closed pull requests per integration time bucket. It is persisted as
// {"opt1": n, ..., "opt8": n}.
type Histogram [Buckets]int

// MarshalJSON ...
func (h Histogram) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, Buckets)
	for i, n := range h {
		m[bucketKey(i)] = n
	}
	return json.Marshal(m)
}

// UnmarshalJSON ...
func (h *Histogram) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k, n := range m {
		i, err := bucketIndex(k)
		if err != nil {
			return err
		}
		h[i] = n
	}
	return nil
}

func bucketKey(i int) string {
	return "opt" + strconv.Itoa(i+1)
}

func bucketIndex(key string) (int, error) {
	for i := 0; i < Buckets; i++ {
		if bucketKey(i) == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown integration time bucket %q", key)
}

// Opener tallies the pull requests opened by one person.
type Opener struct {
	OpenCount int `json:"open_count"`
	LOCCount  int `json:"LOC_count"`
}

// PullRequestRef identifies a pull request together with its status.
type PullRequestRef struct {
	Repository string `json:"repository"`
	Number     int    `json:"PR_number"`
	Status     string `json:"status"`
}

// Update is the last update of a closed pull request.
type Update struct {
	PullRequestRef
	UpdatedAt *time.Time `json:"updated_at"`
}

// Metrics are the aggregated statistics of one team.
type Metrics struct {
	Repos     int `json:"repos"`
	Owners    int `json:"owners"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`

	OpenedPR  int               `json:"opened_pr"`
	OpenDates []time.Time       `json:"open_dates"`
	Openers   map[string]Opener `json:"openers"`

	IntegrationTime Histogram             `json:"integration_time"`
	PostReviewTimes []pullrequest.Minutes `json:"post_review_time"`
	PreReviewTimes  []pullrequest.Minutes `json:"pre_review_time"`
	InspectionRates []pullrequest.Rate    `json:"inspection_rate"`
	InspectionTimes []pullrequest.Minutes `json:"inspection_time"`
	Approvers       map[string]int        `json:"approvers"`
	Closed          []PullRequestRef      `json:"closed"`
	ClosedPR        int                   `json:"closed_pr"`
	CloseDates      []time.Time           `json:"close_dates"`
	Abandoned       int                   `json:"abandoned"`
	Updates         []Update              `json:"updates"`

	Reviewers                 map[string]int `json:"reviewers"`
	ReviewComments            int            `json:"review_comments"`
	ReviewThreads             int            `json:"review_threads"`
	PRsWithReviewThreads      int            `json:"pr_that_has_rvw_thrd"`
	ReviewThreadsResolved     int            `json:"review_threads_resolved"`
	ReviewThreadsUnresolved   int            `json:"review_threads_unresolved"`
	FollowNamingConvention    int            `json:"follow_name_conv"`
	NotFollowNamingConvention int            `json:"not_follow_name_conv"`
}

// NewMetrics returns an empty record with every list and tally initialised.
func NewMetrics() *Metrics {
	return &Metrics{
		OpenDates:       []time.Time{},
		Openers:         make(map[string]Opener),
		PostReviewTimes: []pullrequest.Minutes{},
		PreReviewTimes:  []pullrequest.Minutes{},
		InspectionRates: []pullrequest.Rate{},
		InspectionTimes: []pullrequest.Minutes{},
		Approvers:       make(map[string]int),
		Closed:          []PullRequestRef{},
		CloseDates:      []time.Time{},
		Updates:         []Update{},
		Reviewers:       make(map[string]int),
	}
}

// Report holds the metrics of every team.
type Report map[string]*Metrics

// Teams returns the team names of the report.
func (r Report) Teams() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return unique(names)
}

// WriteReport writes the report to path as an indented JSON document.
func WriteReport(path string, r Report) error {
	b, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal team metrics: %s", err)
	}
	if err := ioutil.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write team metrics: %s", err)
	}
	return nil
}

// ReadReport reads a document written by WriteReport.
func ReadReport(path string) (Report, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read team metrics: %s", err)
	}
	r := make(Report)
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team metrics: %s", err)
	}
	return r, nil
}
