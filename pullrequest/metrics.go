package pullrequest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	minutesUnit = "Min"
	rateUnit    = "loc/min"
)

// Minutes is a duration in minutes, rounded to two decimals. It is persisted as "15.0 Min".
type Minutes float64

func (m Minutes) String() string {
	return formatFloat(float64(m)) + " " + minutesUnit
}

// MarshalJSON ...
func (m Minutes) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON ...
func (m *Minutes) UnmarshalJSON(data []byte) error {
	v, err := parseUnit(data, minutesUnit)
	if err != nil {
		return err
	}
	*m = Minutes(v)
	return nil
}

// Rate is a number of changed lines per minute. It is persisted as "10.0 loc/min".
type Rate float64

func (r Rate) String() string {
	return formatFloat(float64(r)) + " " + rateUnit
}

// MarshalJSON ...
func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON ...
func (r *Rate) UnmarshalJSON(data []byte) error {
	v, err := parseUnit(data, rateUnit)
	if err != nil {
		return err
	}
	*r = Rate(v)
	return nil
}

// Derived holds the metrics computed from the raw fields of a pull request.
type Derived struct {
	ReviewDuration  *Minutes
	ReviewRate      *Rate
	PreReviewTime   *Minutes
	PostReviewTime  *Minutes
	InspectionTime  *Minutes
	InspectionRate  *Rate
	ThreadDurations []*Minutes
}

// Derive computes the metrics of p. It only reads timestamps and size deltas, so calling
// it twice on the same input yields the same result. Metrics that depend on a missing
// timestamp are left nil.
func Derive(p PullRequest) Derived {
	var d Derived
	loc := float64(p.Changes.LOC())

	if p.OpenedAt != nil && p.ClosedAt != nil {
		dur := minutesBetween(*p.OpenedAt, *p.ClosedAt)
		d.ReviewDuration = &dur
		d.ReviewRate = rate(loc, dur)
	}

	var first, last *time.Time
	for _, thread := range p.ReviewThreads {
		var threadFirst, threadLast *time.Time
		for _, c := range thread.Comments {
			if c.PostedAt == nil {
				continue
			}
			threadFirst = earliest(threadFirst, c.PostedAt)
			threadLast = latest(threadLast, c.PostedAt)
		}
		var threadDuration *Minutes
		if threadFirst != nil && threadLast != nil {
			m := minutesBetween(*threadFirst, *threadLast)
			threadDuration = &m
			first = earliest(first, threadFirst)
			last = latest(last, threadLast)
		}
		d.ThreadDurations = append(d.ThreadDurations, threadDuration)
	}

	if first != nil && p.OpenedAt != nil {
		m := minutesBetween(*p.OpenedAt, *first)
		d.PreReviewTime = &m
	}
	if last != nil && p.ClosedAt != nil {
		m := minutesBetween(*last, *p.ClosedAt)
		d.PostReviewTime = &m
	}
	if first != nil && last != nil {
		m := minutesBetween(*first, *last)
		d.InspectionTime = &m
		d.InspectionRate = rate(loc, m)
	}
	return d
}

// Enrich stores the derived metrics on the pull request.
func (p *PullRequest) Enrich() {
	d := Derive(*p)
	p.ReviewDuration = d.ReviewDuration
	p.ReviewRate = d.ReviewRate
	p.PreReviewTime = d.PreReviewTime
	p.PostReviewTime = d.PostReviewTime
	p.InspectionTime = d.InspectionTime
	p.InspectionRate = d.InspectionRate
	for i := range p.ReviewThreads {
		p.ReviewThreads[i].ThreadDuration = d.ThreadDurations[i]
	}
}

// FollowsNamingConvention returns true if the title looks like "<PREFIX>-<number> ...".
// The prefix is compared case-insensitively.
func FollowsNamingConvention(title, prefix string) bool {
	parts := strings.Split(strings.TrimSpace(title), "-")
	if len(parts) < 2 {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(parts[0]), prefix) {
		return false
	}
	ticket := strings.Fields(parts[1])
	if len(ticket) == 0 {
		return false
	}
	return isNumeric(ticket[0])
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// rate is nil for durations that are not positive.
func rate(loc float64, dur Minutes) *Rate {
	if dur <= 0 {
		return nil
	}
	r := Rate(round(loc / float64(dur)))
	return &r
}

func minutesBetween(from, to time.Time) Minutes {
	return Minutes(round(to.Sub(from).Minutes()))
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func parseUnit(data []byte, unit string) (float64, error) {
	if string(data) == "null" {
		return 0, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, unit)), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s value %q: %s", unit, s, err)
	}
	return v, nil
}
