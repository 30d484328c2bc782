package repository

import (
	"database/sql"
	"time"

	"github.com/candraczapansky/salon-notify/internal/model"
)

type RecipientRepositoryInterface interface {
	CountForCampaign(campaignID int) (int, error)
	BulkInsert(recipients []*model.CampaignRecipient) error
	ListPending(campaignID, limit int) ([]*model.CampaignRecipient, error)
	Claim(recipientID int) (bool, error)
	MarkSent(recipientID int, sentAt time.Time) error
	MarkFailed(recipientID int, reason string) error
	CountOutstanding(campaignID int) (int, error)
	StatusCounts(campaignID int) (map[string]int, error)
}

type RecipientRepository struct {
	DB *sql.DB
}

func (r *RecipientRepository) CountForCampaign(campaignID int) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaign_recipients WHERE campaign_id=$1`, campaignID).Scan(&count)
	return count, err
}

// BulkInsert creates the seeded recipient rows. ON CONFLICT DO NOTHING on the
// (campaign_id, contact) unique index keeps seeding idempotent even against a
// concurrent seeder.
func (r *RecipientRepository) BulkInsert(recipients []*model.CampaignRecipient) error {
	if len(recipients) == 0 {
		return nil
	}
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
        INSERT INTO campaign_recipients (campaign_id, client_id, contact, status, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (campaign_id, contact) DO NOTHING
    `)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range recipients {
		if rec.Status == "" {
			rec.Status = model.RecipientStatusPending
		}
		if _, err := stmt.Exec(rec.CampaignID, rec.ClientID, rec.Contact, rec.Status); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *RecipientRepository) ListPending(campaignID, limit int) ([]*model.CampaignRecipient, error) {
	query := `
        SELECT id, campaign_id, client_id, contact, status, error_reason, sent_at, created_at
        FROM campaign_recipients
        WHERE campaign_id=$1 AND status=$2
        ORDER BY id
        LIMIT $3
    `
	rows, err := r.DB.Query(query, campaignID, model.RecipientStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := []*model.CampaignRecipient{}
	for rows.Next() {
		var rec model.CampaignRecipient
		if err := rows.Scan(&rec.ID, &rec.CampaignID, &rec.ClientID, &rec.Contact,
			&rec.Status, &rec.ErrorReason, &rec.SentAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recipients = append(recipients, &rec)
	}
	return recipients, rows.Err()
}

// Claim performs the atomic pending -> claimed transition. It returns true
// iff this call won the row; a concurrent tick or process instance that
// already claimed it makes the guarded UPDATE touch zero rows.
func (r *RecipientRepository) Claim(recipientID int) (bool, error) {
	res, err := r.DB.Exec(`
        UPDATE campaign_recipients SET status=$1
        WHERE id=$2 AND status=$3
    `, model.RecipientStatusClaimed, recipientID, model.RecipientStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *RecipientRepository) MarkSent(recipientID int, sentAt time.Time) error {
	_, err := r.DB.Exec(`UPDATE campaign_recipients SET status=$1, sent_at=$2, error_reason='' WHERE id=$3`,
		model.RecipientStatusSent, sentAt, recipientID)
	return err
}

func (r *RecipientRepository) MarkFailed(recipientID int, reason string) error {
	_, err := r.DB.Exec(`UPDATE campaign_recipients SET status=$1, error_reason=$2 WHERE id=$3`,
		model.RecipientStatusFailed, reason, recipientID)
	return err
}

// CountOutstanding counts rows still undecided: pending rows plus rows
// claimed by a tick that has not resolved them yet. The campaign stays in
// sending until both reach zero.
func (r *RecipientRepository) CountOutstanding(campaignID int) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaign_recipients WHERE campaign_id=$1 AND status IN ($2, $3)`,
		campaignID, model.RecipientStatusPending, model.RecipientStatusClaimed).Scan(&count)
	return count, err
}

func (r *RecipientRepository) StatusCounts(campaignID int) (map[string]int, error) {
	rows, err := r.DB.Query(`SELECT status, COUNT(*) FROM campaign_recipients WHERE campaign_id=$1 GROUP BY status`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{
		model.RecipientStatusPending: 0,
		model.RecipientStatusClaimed: 0,
		model.RecipientStatusSent:    0,
		model.RecipientStatusFailed:  0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

var _ RecipientRepositoryInterface = (*RecipientRepository)(nil)
