package pullrequest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"sort"
	"time"
)

const dateFormat = "2006-01-02"

// Store holds the crawled pull requests, keyed by repository name and then by Key(number).
type Store map[string]map[string]*PullRequest

// Add a pull request to the store.
func (s Store) Add(repository string, p *PullRequest) {
	if s[repository] == nil {
		s[repository] = make(map[string]*PullRequest)
	}
	s[repository][p.Key()] = p
}

// Count the pull requests in the store.
func (s Store) Count() int {
	var n int
	for _, pulls := range s {
		n += len(pulls)
	}
	return n
}

// Sorted returns the pull requests of a repository ordered by number.
func (s Store) Sorted(repository string) []*PullRequest {
	var out []*PullRequest
	for _, p := range s[repository] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Save writes the store to path as an indented JSON document.
func (s Store) Save(path string) error {
	b, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal pull requests: %s", err)
	}
	if err := ioutil.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write pull requests: %s", err)
	}
	return nil
}

// LoadStore reads a document written by Save.
func LoadStore(path string) (Store, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pull requests: %s", err)
	}
	s := make(Store)
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pull requests: %s", err)
	}
	return s, nil
}

// Window is the reporting period [Start, End), both at midnight UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses two calendar dates formatted as YYYY-MM-DD.
func ParseWindow(start, end string) (Window, error) {
	s, err := time.ParseInLocation(dateFormat, start, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date: %s", err)
	}
	e, err := time.ParseInLocation(dateFormat, end, time.UTC)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date: %s", err)
	}
	if e.Before(s) {
		return Window{}, errors.New("end date is before start date")
	}
	return Window{Start: s, End: e}, nil
}

// Contains returns true if t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
