package util

import "regexp"

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reToken = regexp.MustCompile(`(?i)(api|secret|token|key)[=:]\s*([A-Za-z0-9-_]{8,})`)

	// JSON members whose name mentions a credential, string values only.
	reJSONSecret = regexp.MustCompile(`(?i)"([a-z0-9_-]*(?:api_?key|secret|token|password)[a-z0-9_-]*)"\s*:\s*"(?:[^"\\]|\\.)*"`)
)

func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reJSONSecret.ReplaceAllString(s, `"$1":"[redacted]"`)
	s = reToken.ReplaceAllString(s, "$1=[redacted]")
	return s
}

// RedactToken keeps the first four characters of a credential.
func RedactToken(tok string) string {
	if tok == "" {
		return "missing"
	}
	r := []rune(tok)
	if len(r) <= 4 {
		return "..."
	}
	return string(r[:4]) + "..."
}
