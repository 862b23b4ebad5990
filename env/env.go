package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	insights "github.com/telia-oss/github-pr-insights"
	"github.com/telia-oss/github-pr-insights/team"
)

// Defaults
const (
	DefaultOrganization        = "DigitalManufacturing"
	DefaultOwnershipRepository = "dmc-msownership"
	DefaultOwnershipPath       = "Repo_Team_List.json"
	DefaultOutputFile          = "repoPrDetails.json"
	DefaultExceptionFile       = "exceptionalSummary.txt"
	DefaultMetricsFile         = "teamMetrics.json"
	DefaultAddr                = ":8080"
	DefaultNamingPrefix        = team.DefaultNamingPrefix
)

// Config stores the env vars shared by the commands
type Config struct {
	StartDate           string
	EndDate             string
	Tokens              []string
	GithubURL           string
	Organization        string
	OwnershipFile       string
	OwnershipRepository string
	OwnershipPath       string
	IgnoreRepositories  []string
	NamingPrefix        string
	SkipSSLVerification bool
	OutputFile          string
	ExceptionFile       string
	MetricsFile         string
	Addr                string
	LogDirectory        string
	LogDebug            bool
}

// Read parses the env vars into a Config struct
func Read() (Config, error) {
	c := Config{}
	c.StartDate = os.Getenv("START_DATE")
	c.EndDate = os.Getenv("END_DATE")
	c.Tokens = list(os.Getenv("GIT_TOKEN"))
	c.GithubURL = os.Getenv("GITHUB_URL")
	c.Organization = get("GITHUB_ORGANIZATION", DefaultOrganization)
	c.OwnershipFile = os.Getenv("OWNERSHIP_FILE")
	c.OwnershipRepository = get("OWNERSHIP_REPOSITORY", DefaultOwnershipRepository)
	c.OwnershipPath = get("OWNERSHIP_PATH", DefaultOwnershipPath)
	c.IgnoreRepositories = list(os.Getenv("IGNORE_REPOSITORIES"))
	c.NamingPrefix = get("NAMING_PREFIX", DefaultNamingPrefix)
	c.OutputFile = get("OUTPUT_FILE", DefaultOutputFile)
	c.ExceptionFile = get("EXCEPTION_FILE", DefaultExceptionFile)
	c.MetricsFile = get("METRICS_FILE", DefaultMetricsFile)
	c.Addr = get("ADDR", DefaultAddr)
	c.LogDirectory = get("LOG_DIRECTORY", os.TempDir())
	c.LogDebug = os.Getenv("LOG_DEBUG") != ""

	if v := os.Getenv("SKIP_SSL_VERIFICATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("invalid SKIP_SSL_VERIFICATION: %s", err)
		}
		c.SkipSSLVerification = b
	}
	return c, nil
}

// Source converts the config into the crawl configuration.
func (c Config) Source() *insights.Source {
	return &insights.Source{
		Organization:        c.Organization,
		AccessTokens:        c.Tokens,
		BaseURL:             c.GithubURL,
		StartDate:           c.StartDate,
		EndDate:             c.EndDate,
		IgnoreRepositories:  c.IgnoreRepositories,
		SkipSSLVerification: c.SkipSSLVerification,
	}
}

// Ownership tells where to read the ownership mapping from.
func (c Config) Ownership() insights.OwnershipSource {
	return insights.OwnershipSource{
		File:       c.OwnershipFile,
		Repository: c.OwnershipRepository,
		Path:       c.OwnershipPath,
	}
}

func get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func list(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
