package collector

import "strings"

// reitNoise lists suffix words that vary between data sources.
var reitNoise = []string{"reit", "real estate investment trust", "trust", "limited", "ltd"}

// normalizeName lowercases a REIT name and strips punctuation and the
// suffix words data sources disagree on.
func normalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, r := range []string{",", ".", "(", ")", "-"} {
		s = strings.ReplaceAll(s, r, " ")
	}
	for _, noise := range reitNoise {
		s = strings.ReplaceAll(s, noise, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}

func contains(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}
