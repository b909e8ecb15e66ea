package upload

import (
	"net/url"
	"strings"
)

const duplicatedPrefix = "api/v1/"

// FileURL resolves a stored file reference into a retrieval URL under base.
// Absolute http(s) URLs are returned unchanged. Path-like inputs lose their
// leading slashes and one duplicated "api/v1/" prefix before being joined
// to base. Anything else is treated as a bare file id.
func FileURL(base, input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if isAbsoluteURL(input) {
		return input
	}

	base = strings.TrimRight(base, "/")
	if strings.Contains(input, "/") {
		p := strings.TrimLeft(input, "/")
		p = strings.TrimPrefix(p, duplicatedPrefix)
		return base + "/" + p
	}
	return base + "/mastergetfile/" + url.PathEscape(input)
}

func isAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
