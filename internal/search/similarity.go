package search

import "github.com/pmezard/go-difflib/difflib"

// Similarity is a sequence-alignment ratio in [0,1] between two normalized
// strings: matching blocks over total length, computed per character. Exact
// equality scores 1.0 and an empty side scores 0.0 without running the
// matcher.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
