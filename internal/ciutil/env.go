package ciutil

import (
	"log/slog"
	"net/url"
	"os"
)

// Environment variables inspected by this package.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	EnvTestDatabaseURL = "TASKAPI_TEST_DB_URL" // preferred
	EnvAppDatabaseURL  = "TASKAPI_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// TestDatabaseURLVars lists the variables consulted for the test database,
// most preferred first.
var TestDatabaseURLVars = []string{EnvTestDatabaseURL, EnvAppDatabaseURL, EnvDatabaseURL}

// IsCI reports whether the process runs under a CI provider.
func IsCI() bool {
	for _, name := range []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// GetEnvWithFallbacks returns the value of the first non-empty variable in
// names, or defaultValue. Falling back past the first name is logged.
func GetEnvWithFallbacks(names []string, defaultValue string, logger *slog.Logger) string {
	for i, name := range names {
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		if i > 0 && logger != nil {
			logger.Debug("using fallback environment variable",
				slog.String("used_var", name),
				slog.String("preferred_var", names[0]),
				slog.String("value", MaskDatabaseURL(val)))
		}
		return val
	}
	return defaultValue
}

// GetTestDatabaseURL resolves the test database URL from TestDatabaseURLVars.
func GetTestDatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks(TestDatabaseURLVars, "", logger)
}

// MaskDatabaseURL hides the password of a URL. Values that do not parse as
// URLs are returned unchanged.
func MaskDatabaseURL(value string) string {
	u, err := url.Parse(value)
	if err != nil || u.User == nil {
		return value
	}
	return u.Redacted()
}
