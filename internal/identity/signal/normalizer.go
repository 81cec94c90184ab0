// Package signal turns raw correlation hints (device tokens, phone numbers,
// user agents) into the stable, salted values the identity store keys on.
//
// Nothing here returns an error: malformed input degrades to the empty value,
// which callers treat as "hint absent".
package signal

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/mssola/useragent"
)

const (
	maxDeviceTokenBytes = 4096
	minPhoneDigits      = 8
	maxPhoneDigits      = 15
)

// Normalizer hashes correlation hints with per-deployment salts.
type Normalizer struct {
	deviceSalt string
	phoneSalt  string
}

func NewNormalizer(deviceSalt, phoneSalt string) *Normalizer {
	return &Normalizer{deviceSalt: deviceSalt, phoneSalt: phoneSalt}
}

// NormalizeDeviceToken returns the hex SHA-256 of the whole trimmed token and
// the device salt. Blank or oversized tokens yield "" and are treated as no
// device hint.
func (n *Normalizer) NormalizeDeviceToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" || len(token) > maxDeviceTokenBytes {
		return ""
	}
	return saltedHash(token, n.deviceSalt)
}

// NormalizePhone keeps the digits of raw and returns them in "+<digits>"
// form. Numbers outside the E.164 length range yield "".
func (n *Normalizer) NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 1)
	b.WriteByte('+')
	digits := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return ""
	}
	return b.String()
}

// HashPhone hashes an already normalised phone number.
func (n *Normalizer) HashPhone(e164 string) string {
	if e164 == "" {
		return ""
	}
	return saltedHash(e164, n.phoneSalt)
}

// PhoneHash normalises and hashes in one step.
func (n *Normalizer) PhoneHash(raw string) string {
	return n.HashPhone(n.NormalizePhone(raw))
}

// DeviceLabel renders a user agent as "Browser on OS" for display next to an
// account. Blank input yields "".
func (n *Normalizer) DeviceLabel(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return ""
	}
	ua := useragent.New(userAgent)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown browser"
	}
	os := ua.OS()
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "unknown OS"
	}
	label := browser + " on " + os
	if ua.Mobile() {
		label += " (mobile)"
	}
	return strings.TrimSpace(label)
}

func saltedHash(value, salt string) string {
	sum := sha256.Sum256([]byte(value + "|" + salt))
	return hex.EncodeToString(sum[:])
}
