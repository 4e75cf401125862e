package utils

import "strings"

// Truncate cuts s to max characters and appends "..." when it was longer
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// CatalogFileName builds the download name of a catalog: every character of name outside
// [a-zA-Z0-9] becomes "_", followed by "_v<version>.pdf"
func CatalogFileName(name, version string) string {
	var b strings.Builder
	b.Grow(len(name) + len(version) + 6)
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteString("_v")
	b.WriteString(version)
	b.WriteString(".pdf")
	return b.String()
}
