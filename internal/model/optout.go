// internal/model/optout.go
package model

import "time"

// Opt-out reasons.
const (
	OptOutReasonCarrierBlock = "carrier_block"
	OptOutReasonHardBounce   = "hard_bounce"
	OptOutReasonUnsubscribe  = "unsubscribe"
	OptOutReasonManual       = "manual"
)

// OptOutEntry is a permanent, contact-level suppression of all future sends.
// Contact is normalized (lowercase email or E.164-style phone). Entries are
// created automatically from provider hard-block signals and are never
// removed automatically.
type OptOutEntry struct {
	ID        int       `db:"id" json:"id"`
	Contact   string    `db:"contact" json:"contact"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
