// internal/model/recipient.go
package model

import "time"

// Recipient statuses. A row moves pending -> claimed -> sent|failed. The
// claim is one-way: a claimed row is never returned to pending.
const (
	RecipientStatusPending = "pending"
	RecipientStatusClaimed = "claimed"
	RecipientStatusSent    = "sent"
	RecipientStatusFailed  = "failed"
)

// CampaignRecipient is one deduplicated contact inside a campaign. Contact is
// the normalized address (lowercase email or E.164-style phone); a campaign
// never holds two rows with the same contact, even when several client
// accounts share the address.
type CampaignRecipient struct {
	ID          int        `db:"id" json:"id"`
	CampaignID  int        `db:"campaign_id" json:"campaign_id"`
	ClientID    int        `db:"client_id" json:"client_id"`
	Contact     string     `db:"contact" json:"contact"`
	Status      string     `db:"status" json:"status"`
	ErrorReason string     `db:"error_reason" json:"error_reason,omitempty"`
	SentAt      *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
