package repository

import (
	"database/sql"

	"github.com/candraczapansky/salon-notify/internal/model"
)

type OptOutRepositoryInterface interface {
	Exists(contact string) (bool, error)
	Create(entry *model.OptOutEntry) error
	List() ([]*model.OptOutEntry, error)
	Delete(contact string) error
}

type OptOutRepository struct {
	DB *sql.DB
}

func (r *OptOutRepository) Exists(contact string) (bool, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM opt_outs WHERE contact=$1`, contact).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the suppression entry. Re-registering an already opted-out
// contact is a no-op.
func (r *OptOutRepository) Create(entry *model.OptOutEntry) error {
	query := `
        INSERT INTO opt_outs (contact, reason, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (contact) DO NOTHING
    `
	_, err := r.DB.Exec(query, entry.Contact, entry.Reason)
	return err
}

func (r *OptOutRepository) List() ([]*model.OptOutEntry, error) {
	rows, err := r.DB.Query(`SELECT id, contact, reason, created_at FROM opt_outs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*model.OptOutEntry{}
	for rows.Next() {
		var e model.OptOutEntry
		if err := rows.Scan(&e.ID, &e.Contact, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Delete removes an entry. Only the admin surface calls this; the send paths
// never clear opt-outs.
func (r *OptOutRepository) Delete(contact string) error {
	_, err := r.DB.Exec(`DELETE FROM opt_outs WHERE contact=$1`, contact)
	return err
}

var _ OptOutRepositoryInterface = (*OptOutRepository)(nil)
