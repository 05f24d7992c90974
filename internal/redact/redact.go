// Package redact removes credentials from strings before they are logged,
// shown to the user or stored. Error messages returned by the model API can
// echo request URLs that carry the API key, so every error that leaves the
// Gemini adapter passes through here.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

// rule pairs a pattern with the text that replaces each match.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules are applied in order; more specific patterns come first.
var rules = []rule{
	// Google API keys, e.g. in "...?key=AIza...".
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`), RedactedKeyPlaceholder},
	// key query parameters in URLs.
	{regexp.MustCompile(`([?&](?:key|api_key|apikey)=)[^&\s"']+`), "${1}" + RedactedKeyPlaceholder},
	// Authorization headers.
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/]{8,}=*`), "${1}" + RedactedCredentialPlaceholder},
	// key/token/secret assignments such as "api_key: abcd1234...".
	{
		regexp.MustCompile(`(?i)((?:api[_-]?key|token|secret|password)['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		"${1}" + RedactedKeyPlaceholder,
	},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
}

// String redacts sensitive information from the input string
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

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
