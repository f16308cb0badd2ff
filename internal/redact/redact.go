// Package redact scrubs connection strings, credentials, SQL text, file paths,
// host addresses and email addresses from error messages before they are logged.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	DSNPlaceholder   = "[REDACTED_DSN]"
	SecretValue      = "[REDACTED]"
	SQLPlaceholder   = "[REDACTED_SQL]"
	PathPlaceholder  = "[REDACTED_PATH]"
	HostPlaceholder  = "[REDACTED_HOST]"
	EmailPlaceholder = "[REDACTED_EMAIL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules consume text later rules would
// otherwise split (a DSN contains a host and a path).
var rules = []rule{
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|pgx)://\S+`), DSNPlaceholder},
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|token)\s*[=:]\s*[^\s&,;]+`), "${1}=" + SecretValue},
	{regexp.MustCompile(`\b(?:SELECT|INSERT INTO|UPDATE|DELETE FROM|TRUNCATE)\b[^\n]*`), SQLPlaceholder},
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), PathPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), EmailPlaceholder},
	{regexp.MustCompile(`\b(?:localhost|(?:[A-Za-z0-9-]+\.)+[A-Za-z0-9-]+):\d{2,5}\b`), HostPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
