package utils

import "strings"

// NormalizePhoneNumber strips formatting characters so the same number
// always stores identically. Country code handling stays with the
// caller; numbers are kept as entered otherwise.
func NormalizePhoneNumber(phoneNumber string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(phoneNumber))
}
