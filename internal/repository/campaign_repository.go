package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/candraczapansky/salon-notify/internal/apperrors"
	"github.com/candraczapansky/salon-notify/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	Update(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	ListCampaigns(offset, limit int, channel, status string) ([]*model.Campaign, int, error)
	ListDue(now time.Time) ([]*model.Campaign, error)
	UpdateStatus(campaignID int, status string) error
	MarkSent(campaignID int, sentAt time.Time) error
	AddCounters(campaignID, sent, failed int) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, channel, audience, client_ids, subject, content, location_id, status,
    scheduled_at, sent_at, sent_count, delivered_count, failed_count, opened_count, clicked_count,
    unsubscribed_count, created_at, updated_at`

func scanCampaign(row interface{ Scan(...interface{}) error }) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Channel, &c.Audience, pq.Array(&c.ClientIDs),
		&c.Subject, &c.Content, &c.LocationID, &c.Status, &c.ScheduledAt, &c.SentAt,
		&c.SentCount, &c.DeliveredCount, &c.FailedCount, &c.OpenedCount, &c.ClickedCount,
		&c.UnsubscribedCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	query := `
        INSERT INTO campaigns (name, channel, audience, client_ids, subject, content, location_id, status, scheduled_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.Name, c.Channel, c.Audience, pq.Array(c.ClientIDs),
		c.Subject, c.Content, c.LocationID, c.Status, c.ScheduledAt, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) Update(c *model.Campaign) error {
	query := `
        UPDATE campaigns
        SET name=$1, audience=$2, client_ids=$3, subject=$4, content=$5, location_id=$6,
            status=$7, scheduled_at=$8, updated_at=NOW()
        WHERE id=$9
    `
	_, err := r.DB.Exec(query, c.Name, c.Audience, pq.Array(c.ClientIDs), c.Subject,
		c.Content, c.LocationID, c.Status, c.ScheduledAt, c.ID)
	return err
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	c, err := scanCampaign(r.DB.QueryRow(`SELECT `+campaignColumns+` FROM campaigns WHERE id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) ListCampaigns(offset, limit int, channel, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if channel != "" {
		query += fmt.Sprintf(" AND channel=$%d", argPos)
		args = append(args, channel)
		argPos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	argsCount := []interface{}{}
	argPosCount := 1
	if channel != "" {
		countQuery += fmt.Sprintf(" AND channel=$%d", argPosCount)
		argsCount = append(argsCount, channel)
		argPosCount++
	}
	if status != "" {
		countQuery += fmt.Sprintf(" AND status=$%d", argPosCount)
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// ListDue returns campaigns eligible for a drip tick: scheduled ones whose
// time has passed, plus campaigns already mid-send from a prior tick.
func (r *CampaignRepository) ListDue(now time.Time) ([]*model.Campaign, error) {
	query := `
        SELECT ` + campaignColumns + ` FROM campaigns
        WHERE (status=$1 AND scheduled_at <= $2) OR status=$3
        ORDER BY id
    `
	rows, err := r.DB.Query(query, model.CampaignStatusScheduled, now, model.CampaignStatusSending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) UpdateStatus(campaignID int, status string) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2`, status, campaignID)
	return err
}

func (r *CampaignRepository) MarkSent(campaignID int, sentAt time.Time) error {
	_, err := r.DB.Exec(`UPDATE campaigns SET status=$1, sent_at=$2, updated_at=NOW() WHERE id=$3`,
		model.CampaignStatusSent, sentAt, campaignID)
	return err
}

// AddCounters applies the deltas produced by one drip batch. Counters only
// ever grow; they are never recomputed from scratch. delivered_count is left
// untouched: it waits on provider delivery receipts, which no sender reports
// yet.
func (r *CampaignRepository) AddCounters(campaignID, sent, failed int) error {
	query := `
        UPDATE campaigns
        SET sent_count=sent_count+$1, failed_count=failed_count+$2, updated_at=NOW()
        WHERE id=$3
    `
	_, err := r.DB.Exec(query, sent, failed, campaignID)
	return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
