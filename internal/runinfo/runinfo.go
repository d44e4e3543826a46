// Package runinfo records which CI job produced a run so saved cases can be
// traced back to it.
package runinfo

import (
	"os"
	"regexp"
	"strings"
)

// Info is attached to every case summary.
type Info struct {
	CI          bool   `json:"ci,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Repository  string `json:"repository,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Commit      string `json:"commit,omitempty"`
	RunID       string `json:"run_id,omitempty"`
	PullRequest string `json:"pull_request,omitempty"`
	BuildURL    string `json:"build_url,omitempty"`
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type provider struct {
	name       string
	marker     string
	repository []string
	branch     []string
	commit     []string
	runID      []string
	buildURL   []string
}

var providers = []provider{
	{
		name:       "github_actions",
		marker:     "GITHUB_ACTIONS",
		repository: []string{"GITHUB_REPOSITORY"},
		branch:     []string{"GITHUB_HEAD_REF", "GITHUB_REF_NAME"},
		commit:     []string{"GITHUB_SHA"},
		runID:      []string{"GITHUB_RUN_ID"},
	},
	{
		name:       "gitlab_ci",
		marker:     "GITLAB_CI",
		repository: []string{"CI_PROJECT_PATH"},
		branch:     []string{"CI_COMMIT_REF_NAME"},
		commit:     []string{"CI_COMMIT_SHA"},
		runID:      []string{"CI_PIPELINE_ID"},
		buildURL:   []string{"CI_JOB_URL"},
	},
	{
		name:       "buildkite",
		marker:     "BUILDKITE",
		repository: []string{"BUILDKITE_REPO"},
		branch:     []string{"BUILDKITE_BRANCH"},
		commit:     []string{"BUILDKITE_COMMIT"},
		runID:      []string{"BUILDKITE_BUILD_ID"},
		buildURL:   []string{"BUILDKITE_BUILD_URL"},
	},
	{
		name:     "jenkins",
		marker:   "JENKINS_URL",
		branch:   []string{"BRANCH_NAME", "GIT_BRANCH"},
		commit:   []string{"GIT_COMMIT"},
		runID:    []string{"BUILD_ID"},
		buildURL: []string{"BUILD_URL"},
	},
}

var pullRefPattern = regexp.MustCompile(`^refs/pull/([0-9]+)/`)

// FromEnv reads run metadata from the process environment. It returns nil
// outside CI when no DIFFSQL_CI_* override is set.
func FromEnv() *Info {
	return FromLookup(os.LookupEnv)
}

// FromLookup is FromEnv with an injectable environment.
func FromLookup(lookup LookupFunc) *Info {
	get := func(keys ...string) string {
		for _, key := range keys {
			if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	info := Info{}
	for _, p := range providers {
		marker := get(p.marker)
		if marker == "" || isFalse(marker) {
			continue
		}
		info = Info{
			CI:         true,
			Provider:   p.name,
			Repository: get(p.repository...),
			Branch:     get(p.branch...),
			Commit:     get(p.commit...),
			RunID:      get(p.runID...),
			BuildURL:   get(p.buildURL...),
		}
		break
	}
	if info.Provider == "github_actions" && info.Repository != "" && info.RunID != "" {
		server := get("GITHUB_SERVER_URL")
		if server == "" {
			server = "https://github.com"
		}
		info.BuildURL = strings.TrimRight(server, "/") + "/" + info.Repository + "/actions/runs/" + info.RunID
	}
	if m := pullRefPattern.FindStringSubmatch(get("GITHUB_REF")); len(m) > 1 {
		info.PullRequest = m[1]
	}
	if !info.CI && isTrue(get("CI")) {
		info.CI = true
		info.Provider = "generic"
	}

	overridden := false
	for key, dst := range map[string]*string{
		"DIFFSQL_CI_PROVIDER":     &info.Provider,
		"DIFFSQL_CI_REPOSITORY":   &info.Repository,
		"DIFFSQL_CI_BRANCH":       &info.Branch,
		"DIFFSQL_CI_COMMIT":       &info.Commit,
		"DIFFSQL_CI_RUN_ID":       &info.RunID,
		"DIFFSQL_CI_PULL_REQUEST": &info.PullRequest,
		"DIFFSQL_CI_BUILD_URL":    &info.BuildURL,
	} {
		if v := get(key); v != "" {
			*dst = v
			overridden = true
		}
	}
	if overridden {
		info.CI = true
	}
	if v := get("DIFFSQL_CI"); v != "" {
		info.CI = isTrue(v)
	}

	info.Provider = strings.ToLower(info.Provider)
	info.Branch = strings.TrimPrefix(strings.TrimPrefix(info.Branch, "refs/heads/"), "origin/")
	if info.CI && info.Provider == "" {
		info.Provider = "generic"
	}
	if info == (Info{}) {
		return nil
	}
	return &info
}

func isTrue(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func isFalse(raw string) bool {
	switch strings.ToLower(raw) {
	case "0", "false", "no", "off":
		return true
	}
	return false
}
