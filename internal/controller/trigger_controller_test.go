package controller_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/candraczapansky/salon-notify/internal/controller"
	"github.com/candraczapansky/salon-notify/internal/model"
)

type MockPublisher struct {
	Published []model.TriggerEvent
	Err       error
}

func (m *MockPublisher) PublishTrigger(event model.TriggerEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, event)
	return nil
}

func TestPublishEventHandler(t *testing.T) {
	pub := &MockPublisher{}
	ctrl := &controller.TriggerController{Publisher: pub}

	body, _ := json.Marshal(map[string]interface{}{
		"trigger":   "booking_confirmation",
		"client_id": 7,
	})
	req := httptest.NewRequest("POST", "/events", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.PublishEvent(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if len(pub.Published) != 1 || pub.Published[0].Trigger != model.TriggerBookingConfirmation {
		t.Errorf("unexpected published events %+v", pub.Published)
	}
}

func TestPublishEventHandlerRequiresTrigger(t *testing.T) {
	ctrl := &controller.TriggerController{Publisher: &MockPublisher{}}

	req := httptest.NewRequest("POST", "/events", bytes.NewReader([]byte(`{"client_id": 7}`)))
	w := httptest.NewRecorder()

	ctrl.PublishEvent(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPublishEventHandlerQueueFailure(t *testing.T) {
	ctrl := &controller.TriggerController{Publisher: &MockPublisher{Err: errors.New("amqp down")}}

	req := httptest.NewRequest("POST", "/events", bytes.NewReader([]byte(`{"trigger": "cancellation"}`)))
	w := httptest.NewRecorder()

	ctrl.PublishEvent(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestTestSendHandler(t *testing.T) {
	pub := &MockPublisher{}
	ctrl := &controller.TriggerController{Publisher: pub}

	body, _ := json.Marshal(map[string]interface{}{
		"test_rule_id": 3,
		"test_email":   "qa@example.com",
	})
	req := httptest.NewRequest("POST", "/triggers/test", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.TestSend(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if len(pub.Published) != 1 || pub.Published[0].TestRuleID != 3 {
		t.Errorf("unexpected published events %+v", pub.Published)
	}
}

func TestTestSendHandlerRequiresDestination(t *testing.T) {
	ctrl := &controller.TriggerController{Publisher: &MockPublisher{}}

	req := httptest.NewRequest("POST", "/triggers/test", bytes.NewReader([]byte(`{"trigger": "follow_up"}`)))
	w := httptest.NewRecorder()

	ctrl.TestSend(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
