package messaging

import "regexp"

var deliveryCodePattern = regexp.MustCompile(`(?i)c[oó]digo[:\s]*[\s]*([a-zA-Z0-9]+)`)

// ExtractDeliveryCode returns the first code following "código"/"codigo" in note.
func ExtractDeliveryCode(note string) (string, bool) {
	match := deliveryCodePattern.FindStringSubmatch(note)
	if len(match) < 2 {
		return "", false
	}
	return match[1], true
}
