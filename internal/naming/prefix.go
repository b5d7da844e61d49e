package naming

import "strings"

// StripPrefix removes a leading ancestor name from a display string.
//
// The comparison is case-insensitive and whitespace-tolerant: if full
// (trimmed) starts with prefix (trimmed) followed by a space, the
// remainder after that space is returned, trimmed. If full equals
// prefix case-insensitively, an empty string is returned. In every
// other case full is returned unchanged; there is no partial or fuzzy
// stripping.
//
// Examples:
//
//	StripPrefix("Büro Homepod", "Büro")                          -> "Homepod"
//	StripPrefix("Wohnzimmer Deckenleuchte Licht", "Wohnzimmer Deckenleuchte") -> "Licht"
//	StripPrefix("Gartenlicht", "Garten")                         -> "Gartenlicht"
func StripPrefix(full, prefix string) string {
	if full == "" || prefix == "" {
		return full
	}

	fullLower := strings.ToLower(strings.TrimSpace(full))
	prefixLower := strings.ToLower(strings.TrimSpace(prefix))

	if strings.HasPrefix(fullLower, prefixLower+" ") {
		return strings.TrimSpace(full[len(prefix)+1:])
	}

	if fullLower == prefixLower {
		return ""
	}

	return full
}
