package repository

import (
	"database/sql"

	"github.com/candraczapansky/salon-notify/internal/model"
)

// ScheduleRepositoryInterface reads the booking application's reference
// records needed to fill template variables. This service never writes them.
type ScheduleRepositoryInterface interface {
	GetAppointment(id int) (*model.Appointment, error)
	GetService(id int) (*model.Service, error)
	GetStaff(id int) (*model.Staff, error)
}

type ScheduleRepository struct {
	DB *sql.DB
}

func (r *ScheduleRepository) GetAppointment(id int) (*model.Appointment, error) {
	query := `SELECT id, client_id, service_id, staff_id, location_id, start_time, end_time, status
              FROM appointments WHERE id=$1`
	var a model.Appointment
	err := r.DB.QueryRow(query, id).Scan(&a.ID, &a.ClientID, &a.ServiceID, &a.StaffID,
		&a.LocationID, &a.StartTime, &a.EndTime, &a.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *ScheduleRepository) GetService(id int) (*model.Service, error) {
	var s model.Service
	err := r.DB.QueryRow(`SELECT id, name, duration, price FROM services WHERE id=$1`, id).
		Scan(&s.ID, &s.Name, &s.Duration, &s.Price)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepository) GetStaff(id int) (*model.Staff, error) {
	var s model.Staff
	err := r.DB.QueryRow(`SELECT id, name FROM staff WHERE id=$1`, id).Scan(&s.ID, &s.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

var _ ScheduleRepositoryInterface = (*ScheduleRepository)(nil)
