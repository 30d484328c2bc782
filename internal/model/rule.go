// internal/model/rule.go
package model

import "time"

// Trigger kinds a rule can subscribe to.
const (
	TriggerBookingConfirmation = "booking_confirmation"
	TriggerAppointmentReminder = "appointment_reminder"
	TriggerCancellation        = "cancellation"
	TriggerFollowUp            = "follow_up"
	TriggerAfterPayment        = "after_payment"
	TriggerCustom              = "custom"
)

// Channels a rule or campaign can send on.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Rule is an operator-authored mapping from a trigger kind and channel to a
// message template. Rules are read-only to the dispatcher; only sent_count is
// updated on the send path.
type Rule struct {
	ID                int        `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Trigger           string     `db:"trigger" json:"trigger"`
	CustomTriggerName string     `db:"custom_trigger_name" json:"custom_trigger_name,omitempty"`
	Channel           string     `db:"channel" json:"channel"`
	Active            bool       `db:"active" json:"active"`
	Subject           string     `db:"subject" json:"subject,omitempty"`
	Body              string     `db:"body" json:"body"`
	LocationID        *int       `db:"location_id" json:"location_id,omitempty"`
	SentCount         int        `db:"sent_count" json:"sent_count"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// Matches reports whether the rule subscribes to the given trigger. Custom
// rules match on their custom trigger name instead of the kind.
func (r *Rule) Matches(trigger, customTriggerName string) bool {
	if r.Trigger == TriggerCustom {
		return customTriggerName != "" && r.CustomTriggerName == customTriggerName
	}
	return r.Trigger == trigger
}
