// internal/service/optout.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/repository"
)

// OptOutRegistry tracks contacts that must never be sent to. It is consulted
// immediately before every individual send, on both the automation and
// campaign paths.
type OptOutRegistry struct {
	Repo    repository.OptOutRepositoryInterface
	Clients repository.ClientRepositoryInterface
	Log     zerolog.Logger
}

// IsOptedOut checks the registry for an already-normalized contact key.
func (r *OptOutRegistry) IsOptedOut(ctx context.Context, contact string) (bool, error) {
	if contact == "" {
		return false, nil
	}
	return r.Repo.Exists(contact)
}

// MarkOptedOut registers a permanent suppression for the contact and, as a
// conservative follow-up, clears the messaging consent flags of every client
// account matching that address on any channel.
func (r *OptOutRegistry) MarkOptedOut(ctx context.Context, contact, reason string) error {
	if contact == "" {
		return fmt.Errorf("cannot opt out an empty contact")
	}

	entry := &model.OptOutEntry{Contact: contact, Reason: reason}
	if err := r.Repo.Create(entry); err != nil {
		return fmt.Errorf("failed to create opt-out entry: %w", err)
	}

	email, phone := "", ""
	if strings.Contains(contact, "@") {
		email = contact
	} else {
		phone = contact
	}
	if err := r.Clients.ClearMessagingConsent(email, phone); err != nil {
		// the suppression entry is in place; consent clearing is best effort
		r.Log.Error().Err(err).Str("contact", contact).Msg("failed to clear messaging consent")
	}

	r.Log.Info().Str("contact", contact).Str("reason", reason).Msg("contact opted out")
	return nil
}
