// Package phone normalizes subscriber numbers the way the sign-in form does:
// everything is coerced into the +998 national format before it is sent.
package phone

import "strings"

const (
	// CountryPrefix is the only dialing prefix the backend accepts.
	CountryPrefix = "+998"

	// maxLength is prefix plus a nine-digit subscriber number.
	maxLength = 13
)

// Normalize coerces raw into "+998" followed by up to nine digits. Non-digit
// characters after the prefix are dropped and the result is truncated to the
// national length. Input that already carries the prefix is preserved.
func Normalize(raw string) string {
	rest := strings.TrimSpace(raw)
	rest = strings.TrimPrefix(rest, CountryPrefix)

	var digits strings.Builder
	digits.Grow(len(rest))
	for _, r := range rest {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	out := CountryPrefix + digits.String()
	if len(out) > maxLength {
		out = out[:maxLength]
	}
	return out
}
