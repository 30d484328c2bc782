// internal/controller/optout_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/repository"
	"github.com/candraczapansky/salon-notify/internal/service"
)

type OptOutController struct {
	Registry *service.OptOutRegistry
	Repo     repository.OptOutRepositoryInterface
}

func (c *OptOutController) ListOptOuts(w http.ResponseWriter, r *http.Request) {
	entries, err := c.Repo.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// CreateOptOut registers a manual suppression for an email or phone.
func (c *OptOutController) CreateOptOut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Channel string `json:"channel"`
		Address string `json:"address"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	contact := service.NormalizeContact(body.Channel, body.Address)
	if contact == "" {
		http.Error(w, "address cannot be empty", http.StatusBadRequest)
		return
	}
	reason := body.Reason
	if reason == "" {
		reason = model.OptOutReasonManual
	}

	if err := c.Registry.MarkOptedOut(r.Context(), contact, reason); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"contact": contact, "reason": reason})
}

// DeleteOptOut removes an entry. This admin surface is the only place an
// opt-out can be cleared; the send paths never do it.
func (c *OptOutController) DeleteOptOut(w http.ResponseWriter, r *http.Request) {
	contact := chi.URLParam(r, "contact")
	if contact == "" {
		http.Error(w, "missing contact", http.StatusBadRequest)
		return
	}
	if err := c.Repo.Delete(contact); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
