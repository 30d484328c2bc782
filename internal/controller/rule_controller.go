// internal/controller/rule_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/candraczapansky/salon-notify/internal/apperrors"
	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/repository"
	"github.com/candraczapansky/salon-notify/internal/service"
)

type RuleController struct {
	Rules repository.RuleRepositoryInterface
}

type rulePayload struct {
	Name              string `json:"name"`
	Trigger           string `json:"trigger"`
	CustomTriggerName string `json:"custom_trigger_name"`
	Channel           string `json:"channel"`
	Active            *bool  `json:"active"`
	Subject           string `json:"subject"`
	Body              string `json:"body"`
	LocationID        *int   `json:"location_id"`
}

func (p *rulePayload) validate() error {
	if p.Channel != model.ChannelEmail && p.Channel != model.ChannelSMS {
		return errors.New("invalid channel")
	}
	switch p.Trigger {
	case model.TriggerBookingConfirmation, model.TriggerAppointmentReminder,
		model.TriggerCancellation, model.TriggerFollowUp, model.TriggerAfterPayment:
	case model.TriggerCustom:
		if p.CustomTriggerName == "" {
			return errors.New("custom trigger requires custom_trigger_name")
		}
	default:
		return errors.New("invalid trigger")
	}
	if p.Body == "" {
		return errors.New("body cannot be empty")
	}
	return nil
}

func (c *RuleController) CreateRule(w http.ResponseWriter, r *http.Request) {
	var body rulePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := body.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	active := true
	if body.Active != nil {
		active = *body.Active
	}
	rule := &model.Rule{
		Name:              body.Name,
		Trigger:           body.Trigger,
		CustomTriggerName: body.CustomTriggerName,
		Channel:           body.Channel,
		Active:            active,
		Subject:           body.Subject,
		Body:              body.Body,
		LocationID:        body.LocationID,
	}
	if err := c.Rules.Create(rule); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"rule":              rule,
		"template_warnings": service.CheckTemplate(body.Subject + " " + body.Body),
	})
}

func (c *RuleController) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := c.Rules.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rules)
}

func (c *RuleController) GetRule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid rule id", http.StatusBadRequest)
		return
	}

	rule, err := c.Rules.GetByID(id)
	if err != nil {
		writeRuleError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rule)
}

func (c *RuleController) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid rule id", http.StatusBadRequest)
		return
	}

	rule, err := c.Rules.GetByID(id)
	if err != nil {
		writeRuleError(w, err)
		return
	}

	var body rulePayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := body.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rule.Name = body.Name
	rule.Trigger = body.Trigger
	rule.CustomTriggerName = body.CustomTriggerName
	rule.Channel = body.Channel
	if body.Active != nil {
		rule.Active = *body.Active
	}
	rule.Subject = body.Subject
	rule.Body = body.Body
	rule.LocationID = body.LocationID

	if err := c.Rules.Update(rule); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"rule":              rule,
		"template_warnings": service.CheckTemplate(body.Subject + " " + body.Body),
	})
}

func (c *RuleController) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid rule id", http.StatusBadRequest)
		return
	}
	if err := c.Rules.Delete(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeRuleError(w http.ResponseWriter, err error) {
	var notFound *apperrors.ErrRuleNotFound
	if errors.As(err, &notFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
