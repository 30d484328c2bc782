package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/candraczapansky/salon-notify/internal/model"
)

type ClientRepositoryInterface interface {
	GetByID(id int) (*model.Client, error)
	ListAll() ([]*model.Client, error)
	ListByIDs(ids []int64) ([]*model.Client, error)
	ListPromotionsOptIn(channel string) ([]*model.Client, error)
	ClearMessagingConsent(email, phone string) error
}

type ClientRepository struct {
	DB *sql.DB
}

const clientColumns = `id, first_name, last_name, email, phone,
    email_appointment_reminders, sms_appointment_reminders,
    email_account_management, sms_account_management,
    email_promotions, sms_promotions`

func scanClient(row interface{ Scan(...interface{}) error }) (*model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.EmailAppointmentReminders, &c.SMSAppointmentReminders,
		&c.EmailAccountManagement, &c.SMSAccountManagement,
		&c.EmailPromotions, &c.SMSPromotions)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) GetByID(id int) (*model.Client, error) {
	c, err := scanClient(r.DB.QueryRow(`SELECT `+clientColumns+` FROM clients WHERE id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return c, nil
}

func (r *ClientRepository) ListAll() ([]*model.Client, error) {
	return r.list(`SELECT `+clientColumns+` FROM clients ORDER BY id`)
}

func (r *ClientRepository) ListByIDs(ids []int64) ([]*model.Client, error) {
	return r.list(`SELECT `+clientColumns+` FROM clients WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
}

// ListPromotionsOptIn returns clients who consented to marketing on the
// given channel.
func (r *ClientRepository) ListPromotionsOptIn(channel string) ([]*model.Client, error) {
	column := "email_promotions"
	if channel == model.ChannelSMS {
		column = "sms_promotions"
	}
	return r.list(`SELECT ` + clientColumns + ` FROM clients WHERE ` + column + `=true ORDER BY id`)
}

func (r *ClientRepository) list(query string, args ...interface{}) ([]*model.Client, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []*model.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// ClearMessagingConsent drops every consent flag for all accounts matching
// the blocked email or phone. Applied when a provider reports a permanent
// block, as a conservative follow-up to the opt-out entry.
func (r *ClientRepository) ClearMessagingConsent(email, phone string) error {
	query := `
        UPDATE clients
        SET email_appointment_reminders=false, sms_appointment_reminders=false,
            email_account_management=false, sms_account_management=false,
            email_promotions=false, sms_promotions=false
        WHERE ($1 <> '' AND LOWER(email)=$1)
           OR ($2 <> '' AND RIGHT(REGEXP_REPLACE(phone, '\D', '', 'g'), 10) = RIGHT(REGEXP_REPLACE($2, '\D', '', 'g'), 10))
    `
	_, err := r.DB.Exec(query, email, phone)
	return err
}

var _ ClientRepositoryInterface = (*ClientRepository)(nil)
