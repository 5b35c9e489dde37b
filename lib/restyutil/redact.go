package restyutil

import "regexp"

var (
	credentialParamRegex = regexp.MustCompile(`(?i)\b(key|api_key|tornstats_api)=[^&\s"']+`)
	bearerRegex          = regexp.MustCompile(`(?i)\bbearer\s+[^\s"']+`)
)

// Redact masks TornStats credentials in URLs, headers and error strings
// before they reach logs, spans or dump files.
func Redact(s string) string {
	s = credentialParamRegex.ReplaceAllString(s, "${1}=REDACTED")
	s = bearerRegex.ReplaceAllString(s, "Bearer REDACTED")
	return s
}
