package monitor

import "strings"

// ContainsAll reports whether the lowercased body contains every keyword as a substring.
// Keywords are expected lowercased already. An empty keyword list never matches.
func ContainsAll(body string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	lowered := strings.ToLower(body)
	for _, kw := range keywords {
		if !strings.Contains(lowered, kw) {
			return false
		}
	}
	return true
}
