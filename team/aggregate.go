package team

import (
	"sort"

	"github.com/telia-oss/github-pr-insights/pullrequest"
)

// DefaultNamingPrefix is the ticket prefix expected at the start of pull request titles.
const DefaultNamingPrefix = "DIGMANEXE"

// Record is a crawled pull request together with its repository.
type Record struct {
	Repository string
	PR         *pullrequest.PullRequest
}

// Records flattens a store.
func Records(store pullrequest.Store) []Record {
	var records []Record
	for repository := range store {
		for _, p := range store.Sorted(repository) {
			records = append(records, Record{Repository: repository, PR: p})
		}
	}
	return records
}

// Aggregator folds pull request records into team metrics.
type Aggregator struct {
	Window       pullrequest.Window
	NamingPrefix string
}

// Aggregate computes the metrics of every team in one pass over the records. The records
// are ordered by repository and number first, so the result does not depend on the order
// they are passed in.
func (a *Aggregator) Aggregate(teams []Team, records []Record) Report {
	prefix := a.NamingPrefix
	if prefix == "" {
		prefix = DefaultNamingPrefix
	}

	sorted := make([]Record, 0, len(records))
	for _, r := range records {
		if r.PR != nil {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Repository != sorted[j].Repository {
			return sorted[i].Repository < sorted[j].Repository
		}
		return sorted[i].PR.Number < sorted[j].PR.Number
	})

	byRepository := make(map[string][]Record)
	for _, r := range sorted {
		byRepository[r.Repository] = append(byRepository[r.Repository], r)
	}

	report := make(Report, len(teams))
	for _, t := range teams {
		m := NewMetrics()
		m.Repos = len(t.Repositories)
		m.Owners = len(t.CodeOwners)
		for _, repository := range t.Repositories {
			for _, r := range byRepository[repository] {
				m.add(r.Repository, r.PR, a.Window, prefix)
			}
		}
		report[t.Name] = m
	}
	return report
}

func (m *Metrics) add(repository string, p *pullrequest.PullRequest, w pullrequest.Window, prefix string) {
	loc := p.Changes.LOC()

	if p.Merged() && p.Approver != nil {
		m.Approvers[p.Approver.DisplayName()]++
	}

	if pullrequest.OpenedWithin(w.Start, w.End)(*p) {
		m.Additions += p.Changes.Added
		m.Deletions += p.Changes.Deleted
		if p.User != nil {
			o := m.Openers[p.User.DisplayName()]
			o.OpenCount++
			o.LOCCount += loc
			m.Openers[p.User.DisplayName()] = o
		}
		m.OpenedPR++
		m.OpenDates = append(m.OpenDates, *p.OpenedAt)
		m.classify(p.Title, prefix)
	}

	if p.ClosedAt != nil {
		ref := PullRequestRef{Repository: repository, Number: p.Number, Status: p.Status}
		if p.ReviewDuration != nil {
			m.IntegrationTime[BucketFor(float64(*p.ReviewDuration))]++
		}
		m.PostReviewTimes = appendMinutes(m.PostReviewTimes, p.PostReviewTime)
		m.PreReviewTimes = appendMinutes(m.PreReviewTimes, p.PreReviewTime)
		m.InspectionTimes = appendMinutes(m.InspectionTimes, p.InspectionTime)
		if p.InspectionRate != nil {
			m.InspectionRates = append(m.InspectionRates, *p.InspectionRate)
		}
		m.Closed = append(m.Closed, ref)
		m.ClosedPR++
		m.CloseDates = append(m.CloseDates, *p.ClosedAt)
		m.Updates = append(m.Updates, Update{PullRequestRef: ref, UpdatedAt: p.UpdatedAt})

		if len(p.ReviewThreads) > 0 {
			m.PRsWithReviewThreads++
		}
		for _, thread := range p.ReviewThreads {
			if thread.IsResolved {
				m.ReviewThreadsResolved++
			} else {
				m.ReviewThreadsUnresolved++
			}
		}
		m.tallyReviews(p)
		// Counted a second time for PRs that are both opened and closed in the window.
		m.classify(p.Title, prefix)
	}

	if pullrequest.Abandoned()(*p) {
		m.Abandoned++
	}
}

// tallyReviews counts the review threads of a closed PR and its non-author reviewers.
func (m *Metrics) tallyReviews(p *pullrequest.PullRequest) {
	reviewers := make(map[string]struct{})
	for _, thread := range p.ReviewThreads {
		for i, c := range thread.Comments {
			if c.PostedAt == nil {
				continue
			}
			if i == 0 {
				m.ReviewThreads++
			}
			if c.User == nil || (p.User != nil && c.User.Login == p.User.Login) {
				continue
			}
			m.ReviewComments++
			name := c.User.DisplayName()
			if _, ok := reviewers[name]; !ok {
				reviewers[name] = struct{}{}
				m.Reviewers[name]++
			}
		}
	}
}

func (m *Metrics) classify(title, prefix string) {
	if pullrequest.FollowsNamingConvention(title, prefix) {
		m.FollowNamingConvention++
	} else {
		m.NotFollowNamingConvention++
	}
}

func appendMinutes(list []pullrequest.Minutes, v *pullrequest.Minutes) []pullrequest.Minutes {
	if v == nil {
		return list
	}
	return append(list, *v)
}
