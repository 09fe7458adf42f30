// Package phone canonicalizes Korean phone numbers. The canonical form is
// the join key between the member sheet and the order sheet, so it must be
// deterministic and idempotent for any input.
package phone

import "strings"

const mobilePrefix = "010"

// MinDigits is the minimum digit count for a phone number to be accepted
// by the order form (covers the shortest Seoul landlines).
const MinDigits = 10

// Normalize strips all non-digit characters and reformats 11-digit mobile
// numbers as 010-XXXX-XXXX. Anything else (landlines, malformed input)
// comes back as the bare digit string. Garbage in produces a deterministic
// garbage key rather than an error.
// POST: Normalize(Normalize(s)) == Normalize(s) for all s
func Normalize(raw string) string {
	digits := Digits(raw)
	if len(digits) == 11 && strings.HasPrefix(digits, mobilePrefix) {
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:]
	}
	return digits
}

// Digits returns only the decimal digits of raw, in order.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Last4 returns the last four digits of the number, used as the order-id
// suffix. Numbers with fewer than four digits are returned whole.
func Last4(raw string) string {
	digits := Digits(raw)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
