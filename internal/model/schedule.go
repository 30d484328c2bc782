// internal/model/schedule.go
package model

import "time"

// Appointment, Service and Staff are external reference records. Their CRUD
// and scheduling logic live in the booking application; this service only
// reads them to populate template variables.

type Appointment struct {
	ID         int       `db:"id" json:"id"`
	ClientID   int       `db:"client_id" json:"client_id"`
	ServiceID  int       `db:"service_id" json:"service_id"`
	StaffID    int       `db:"staff_id" json:"staff_id"`
	LocationID *int      `db:"location_id" json:"location_id,omitempty"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	Status     string    `db:"status" json:"status"`
}

type Service struct {
	ID       int     `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Duration int     `db:"duration" json:"duration"` // minutes
	Price    float64 `db:"price" json:"price"`
}

type Staff struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
