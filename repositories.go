package insights

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	glob "github.com/sabhiram/go-gitignore"
	"github.com/telia-oss/github-pr-insights/team"
)

// SelectRepositories returns the repositories owned by any team, sorted, leaving out those
// that match one of the gitignore-style patterns.
func SelectRepositories(teams []team.Team, ignore []string) ([]string, error) {
	repos := team.Repositories(teams)
	if len(ignore) == 0 {
		return repos, nil
	}

	gc, err := glob.CompileIgnoreLines(ignore...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ignore patterns: %s", err)
	}

	selected := make([]string, 0, len(repos))
	for _, r := range repos {
		name := r
		if !strings.HasPrefix(r, "/") {
			name = "/" + r
		}
		if gc.MatchesPath(name) {
			continue
		}
		selected = append(selected, r)
	}
	return selected, nil
}

// FileGetter downloads a file from a repository.
type FileGetter interface {
	GetFileContent(ctx context.Context, repository, path string) ([]byte, error)
}

// OwnershipSource tells where the ownership mapping is read from. A local file takes
// precedence over a file in a repository.
type OwnershipSource struct {
	File       string
	Repository string
	Path       string
}

// ReadOwnership loads the ownership mapping and returns the teams it describes.
func ReadOwnership(ctx context.Context, files FileGetter, s OwnershipSource) ([]team.Team, error) {
	var (
		b   []byte
		err error
	)
	switch {
	case s.File != "":
		b, err = os.ReadFile(s.File)
	case s.Repository != "" && s.Path != "":
		b, err = files.GetFileContent(ctx, s.Repository, s.Path)
	default:
		return nil, &CrawlError{Op: "read ownership", Severity: Fatal, Err: fmt.Errorf("no ownership file or repository configured")}
	}
	if err != nil {
		return nil, &CrawlError{Op: "read ownership", Repository: s.Repository, Severity: Fatal, Err: err}
	}

	o, err := team.LoadOwnership(bytes.NewReader(b))
	if err != nil {
		return nil, &CrawlError{Op: "read ownership", Repository: s.Repository, Severity: Fatal, Err: err}
	}
	return o.Teams(), nil
}
