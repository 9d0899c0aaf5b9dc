// Package messaging holds the text helpers shared by the WhatsApp and
// delivery lookup flows.
package messaging

import "strings"

const colombiaCountryCode = "57"

// NormalizeColombianPhone strips formatting from raw and returns the number
// with the Colombian country code. Numbers with fewer than ten digits are invalid.
func NormalizeColombianPhone(raw string) (string, bool) {
	digits := onlyDigits(raw)

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, colombiaCountryCode):
		return digits, true
	case len(digits) == 10:
		// mobile numbers start with 3, landlines get the same prefix
		return colombiaCountryCode + digits, true
	case len(digits) >= 10:
		return digits, true
	default:
		return "", false
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
