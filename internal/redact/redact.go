// Package redact strips credentials, tokens, addresses and SQL fragments from
// strings before they are logged.
package redact

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules run in order; connection strings and JWTs go first so the generic
// key=value rules never see their pieces.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgresql|postgres|database|db)://[^@\s]+@`), "[REDACTED_CREDENTIAL]"},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), "[REDACTED_JWT]"},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[=:]\s*\S+`), "[REDACTED_CREDENTIAL]"},
	{regexp.MustCompile(`(?i)(api[_-]?key|secret|token)\s*[=:]\s*\S+`), "[REDACTED_KEY]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`(?i)\b(?:SELECT|INSERT|UPDATE|DELETE)\b.*?\b(?:FROM|INTO|SET)\b\s+\w+`), "[REDACTED_SQL]"},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.placeholder)
	}
	return input
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
