// internal/service/contact.go
package service

import (
	"strings"

	"github.com/candraczapansky/salon-notify/internal/model"
)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone reduces a phone number to an E.164-style key. Numbers are
// compared by their last ten digits, so "+1 (555) 123-4567", "5551234567"
// and "15551234567" all normalize to "+15551234567".
func NormalizePhone(phone string) string {
	digits := strings.Builder{}
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case d == "":
		return ""
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	case len(d) > 10:
		// keep the significant tail, assume NANP
		return "+1" + d[len(d)-10:]
	default:
		return "+" + d
	}
}

// NormalizeContact produces the canonical contact key for a channel. The key
// is what recipient dedup and the opt-out registry operate on.
func NormalizeContact(channel, address string) string {
	if channel == model.ChannelSMS {
		return NormalizePhone(address)
	}
	return NormalizeEmail(address)
}
