package team

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Group is one ownership group of a team.
type Group struct {
	ValidRepoList  []string `yaml:"validRepoList" json:"validRepoList"`
	CodeOwnersList []string `yaml:"codeOwnersList" json:"codeOwnersList"`
}

// Ownership maps a team name to its ownership groups.
type Ownership map[string]map[string]Group

// Team is a set of repositories and the identities owning them.
type Team struct {
	Name         string
	Repositories []string
	CodeOwners   []string
}

// LoadOwnership parses an ownership mapping. JSON documents are accepted as well since
// they are valid YAML. Unknown keys inside a group are rejected.
func LoadOwnership(r io.Reader) (Ownership, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var o Ownership
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("ownership mapping is empty")
		}
		return nil, fmt.Errorf("failed to parse ownership mapping: %w", err)
	}
	if len(o) == 0 {
		return nil, errors.New("ownership mapping is empty")
	}
	return o, nil
}

// Teams builds one Team per entry of the mapping, ordered by name. The repositories and
// code owners of a team are the de-duplicated union over all of its groups.
func (o Ownership) Teams() []Team {
	var teams []Team
	for name, groups := range o {
		var repos, owners []string
		for _, g := range groups {
			repos = append(repos, g.ValidRepoList...)
			owners = append(owners, g.CodeOwnersList...)
		}
		teams = append(teams, Team{
			Name:         name,
			Repositories: unique(repos),
			CodeOwners:   unique(owners),
		})
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}

// Repositories returns the union of the repositories of all teams, sorted.
func Repositories(teams []Team) []string {
	var repos []string
	for _, t := range teams {
		repos = append(repos, t.Repositories...)
	}
	return unique(repos)
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
