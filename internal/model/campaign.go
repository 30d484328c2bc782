// internal/model/campaign.go
package model

import "time"

// Campaign statuses. Transitions are monotonic forward, except "sending"
// which a campaign revisits across drip ticks until it is exhausted.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusSending   = "sending"
	CampaignStatusSent      = "sent"
	CampaignStatusFailed    = "failed"
)

// Audience selectors.
const (
	AudienceAllClients      = "all_clients"
	AudiencePromotionsOptIn = "promotions_opt_in"
	AudienceSpecific        = "specific"
)

type Campaign struct {
	ID          int        `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Channel     string     `db:"channel" json:"channel"`
	Audience    string     `db:"audience" json:"audience"`
	ClientIDs   []int64    `db:"client_ids" json:"client_ids,omitempty"` // only for audience=specific
	Subject     string     `db:"subject" json:"subject,omitempty"`
	Content     string     `db:"content" json:"content"`
	LocationID  *int       `db:"location_id" json:"location_id,omitempty"`
	Status      string     `db:"status" json:"status"`
	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	SentAt      *time.Time `db:"sent_at" json:"sent_at,omitempty"`

	// Aggregate counters, monotonically increased by batch deltas.
	SentCount         int `db:"sent_count" json:"sent_count"`
	DeliveredCount    int `db:"delivered_count" json:"delivered_count"`
	FailedCount       int `db:"failed_count" json:"failed_count"`
	OpenedCount       int `db:"opened_count" json:"opened_count"`
	ClickedCount      int `db:"clicked_count" json:"clicked_count"`
	UnsubscribedCount int `db:"unsubscribed_count" json:"unsubscribed_count"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// Sendable reports whether the campaign may enter the drip pipeline.
func (c *Campaign) Sendable() bool {
	return c.Status == CampaignStatusDraft ||
		c.Status == CampaignStatusScheduled ||
		c.Status == CampaignStatusSending
}
