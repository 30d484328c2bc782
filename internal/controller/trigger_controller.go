// internal/controller/trigger_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/candraczapansky/salon-notify/internal/model"
)

// EventPublisher is the slice of the queue publisher the controller needs.
type EventPublisher interface {
	PublishTrigger(event model.TriggerEvent) error
}

type TriggerController struct {
	Publisher EventPublisher
}

// PublishEvent is the booking application's integration point: it accepts a
// business event and puts it on the event queue for the worker to dispatch.
func (c *TriggerController) PublishEvent(w http.ResponseWriter, r *http.Request) {
	var event model.TriggerEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if event.Trigger == "" {
		http.Error(w, "trigger is required", http.StatusBadRequest)
		return
	}

	if err := c.Publisher.PublishTrigger(event); err != nil {
		http.Error(w, "failed to publish event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
}

// TestSend queues an operator test send that bypasses preference gating and
// goes straight to the given address.
func (c *TriggerController) TestSend(w http.ResponseWriter, r *http.Request) {
	var event model.TriggerEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if event.Trigger == "" && event.TestRuleID == 0 {
		http.Error(w, "trigger or test_rule_id is required", http.StatusBadRequest)
		return
	}
	if !event.IsTest() {
		http.Error(w, "test_email or test_phone is required", http.StatusBadRequest)
		return
	}

	if err := c.Publisher.PublishTrigger(event); err != nil {
		http.Error(w, "failed to publish event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
}
