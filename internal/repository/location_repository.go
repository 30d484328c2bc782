package repository

import (
	"database/sql"

	"github.com/candraczapansky/salon-notify/internal/model"
)

type LocationRepositoryInterface interface {
	GetByID(id int) (*model.Location, error)
	GetByName(name string) (*model.Location, error)
	List() ([]*model.Location, error)
}

type LocationRepository struct {
	DB *sql.DB
}

const locationColumns = `id, name, phone, address, city, state, zip`

func scanLocation(row interface{ Scan(...interface{}) error }) (*model.Location, error) {
	var l model.Location
	err := row.Scan(&l.ID, &l.Name, &l.Phone, &l.Address, &l.City, &l.State, &l.Zip)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepository) GetByID(id int) (*model.Location, error) {
	l, err := scanLocation(r.DB.QueryRow(`SELECT `+locationColumns+` FROM locations WHERE id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return l, nil
}

// GetByName does a case-insensitive lookup, for the legacy location-tag shim.
func (r *LocationRepository) GetByName(name string) (*model.Location, error) {
	l, err := scanLocation(r.DB.QueryRow(`SELECT `+locationColumns+` FROM locations WHERE LOWER(name)=LOWER($1)`, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

func (r *LocationRepository) List() ([]*model.Location, error) {
	rows, err := r.DB.Query(`SELECT ` + locationColumns + ` FROM locations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []*model.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

var _ LocationRepositoryInterface = (*LocationRepository)(nil)
