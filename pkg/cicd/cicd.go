// Package cicd detects the CI/CD platform scheck is running under.
// Detection feeds the non-interactive bypass for confirmation prompts:
// automated pipelines must never hang waiting for operator input.
package cicd

import "os"

// Platform represents a CI/CD platform.
type Platform string

const (
	PlatformGitHubActions Platform = "github-actions"
	PlatformGitLabCI      Platform = "gitlab-ci"
	PlatformJenkins       Platform = "jenkins"
	PlatformAzureDevOps   Platform = "azure-devops"
	PlatformCircleCI      Platform = "circleci"
	PlatformBitbucket     Platform = "bitbucket"
	PlatformGeneric       Platform = "generic"
	PlatformNone          Platform = ""
)

// platformEnvVars maps marker environment variables to platforms,
// checked in order. The generic "CI" variable comes last so a specific
// platform wins when both are set.
var platformEnvVars = []struct {
	env      string
	platform Platform
}{
	{"GITHUB_ACTIONS", PlatformGitHubActions},
	{"GITLAB_CI", PlatformGitLabCI},
	{"JENKINS_URL", PlatformJenkins},
	{"TF_BUILD", PlatformAzureDevOps},
	{"CIRCLECI", PlatformCircleCI},
	{"BITBUCKET_BUILD_NUMBER", PlatformBitbucket},
	{"CI", PlatformGeneric},
}

// Detect returns the CI platform indicated by the process environment,
// or PlatformNone outside CI.
func Detect() Platform {
	return detectFrom(os.Getenv)
}

// detectFrom is Detect with an injectable environment lookup.
func detectFrom(getenv func(string) string) Platform {
	for _, m := range platformEnvVars {
		if v := getenv(m.env); v != "" && v != "false" && v != "0" {
			return m.platform
		}
	}
	return PlatformNone
}

// IsCI reports whether a CI environment was detected.
func IsCI() bool {
	return Detect() != PlatformNone
}
