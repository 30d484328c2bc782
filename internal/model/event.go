// internal/model/event.go
package model

import "time"

// TriggerEvent is the business-event contract consumed by the dispatcher.
// The booking application publishes one whenever something notification-worthy
// happens (booking created, appointment cancelled, payment taken, ...).
//
// TestEmail/TestPhone are operator test overrides: when set, the dispatcher
// bypasses client lookup and preference gating and sends straight to the
// given address. TestRuleID optionally narrows a test send to a single rule.
type TriggerEvent struct {
	ID                string `json:"id"`
	Trigger           string `json:"trigger"`
	CustomTriggerName string `json:"custom_trigger_name,omitempty"`

	AppointmentID int       `json:"appointment_id,omitempty"`
	ClientID      int       `json:"client_id,omitempty"`
	ServiceID     int       `json:"service_id,omitempty"`
	StaffID       int       `json:"staff_id,omitempty"`
	LocationID    *int      `json:"location_id,omitempty"`
	StartTime     time.Time `json:"start_time,omitempty"`
	EndTime       time.Time `json:"end_time,omitempty"`
	Status        string    `json:"status,omitempty"`

	TestEmail  string `json:"test_email,omitempty"`
	TestPhone  string `json:"test_phone,omitempty"`
	TestRuleID int    `json:"test_rule_id,omitempty"`
}

// IsTest reports whether the event is an operator test send.
func (e *TriggerEvent) IsTest() bool {
	return e.TestEmail != "" || e.TestPhone != ""
}
