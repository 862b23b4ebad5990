package pullrequest

import "time"

// Filter is a function that reports whether a pull request matches.
type Filter func(PullRequest) bool

// OpenedSince returns true if the PR was opened at or after t
func OpenedSince(t time.Time) Filter {
	return func(p PullRequest) bool {
		return p.OpenedAt != nil && !p.OpenedAt.Before(t)
	}
}

// OpenedWithin returns true if the PR was opened in the half-open range [from, to)
func OpenedWithin(from, to time.Time) Filter {
	return func(p PullRequest) bool {
		return p.OpenedAt != nil && !p.OpenedAt.Before(from) && p.OpenedAt.Before(to)
	}
}

// Abandoned returns true if the last update closed the PR without merging it
func Abandoned() Filter {
	return func(p PullRequest) bool {
		return p.UpdatedAt != nil && p.Status == StateClosed
	}
}

func earliest(current, t *time.Time) *time.Time {
	if current == nil || t.Before(*current) {
		return t
	}
	return current
}

func latest(current, t *time.Time) *time.Time {
	if current == nil || t.After(*current) {
		return t
	}
	return current
}
