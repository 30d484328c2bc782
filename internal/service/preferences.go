// internal/service/preferences.go
package service

import "github.com/candraczapansky/salon-notify/internal/model"

// Skip reasons recorded when a send is gated out. Gated skips are not
// errors.
const (
	SkipReasonNoContact       = "no contact address"
	SkipReasonPreference      = "preference disabled"
	SkipReasonConfirmationSMS = "confirmation sms suppressed"
	SkipReasonOptedOut        = "opted out"
)

// AllowedByPreference applies the per-trigger gating matrix: the client must
// have a contact address for the channel and the matching preference flag.
//
// booking_confirmation never goes out over SMS; the booking flow already
// texts a confirmation synchronously and a rule send would duplicate it.
// after_payment SMS is lenient and accepts any sms consent flag.
func AllowedByPreference(trigger, channel string, client *model.Client) (bool, string) {
	if client.ContactFor(channel) == "" {
		return false, SkipReasonNoContact
	}

	if channel == model.ChannelSMS {
		return allowedSMS(trigger, client)
	}
	return allowedEmail(trigger, client)
}

func allowedEmail(trigger string, c *model.Client) (bool, string) {
	var ok bool
	switch trigger {
	case model.TriggerBookingConfirmation, model.TriggerAppointmentReminder:
		ok = c.EmailAppointmentReminders
	case model.TriggerCancellation, model.TriggerAfterPayment:
		ok = c.EmailAccountManagement
	case model.TriggerFollowUp:
		ok = c.EmailPromotions
	default:
		// custom and unknown triggers are always allowed
		return true, ""
	}
	if !ok {
		return false, SkipReasonPreference
	}
	return true, ""
}

func allowedSMS(trigger string, c *model.Client) (bool, string) {
	var ok bool
	switch trigger {
	case model.TriggerBookingConfirmation:
		return false, SkipReasonConfirmationSMS
	case model.TriggerAppointmentReminder:
		ok = c.SMSAppointmentReminders
	case model.TriggerCancellation:
		ok = c.SMSAccountManagement || c.SMSAppointmentReminders
	case model.TriggerAfterPayment:
		ok = c.SMSAccountManagement || c.SMSAppointmentReminders || c.SMSPromotions
	case model.TriggerFollowUp:
		ok = c.SMSPromotions
	default:
		return true, ""
	}
	if !ok {
		return false, SkipReasonPreference
	}
	return true, ""
}
