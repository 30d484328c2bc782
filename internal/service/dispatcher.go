// internal/service/dispatcher.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/candraczapansky/salon-notify/internal/apperrors"
	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/repository"
	"github.com/candraczapansky/salon-notify/internal/sender"
)

type SendOutcome string

const (
	OutcomeSent    SendOutcome = "sent"
	OutcomeSkipped SendOutcome = "skipped"
	OutcomeFailed  SendOutcome = "failed"
)

// SendResult is the per-rule outcome of one dispatch. One rule's failure
// never blocks the others; the caller logs the collected batch.
type SendResult struct {
	RuleID  int         `json:"rule_id"`
	Channel string      `json:"channel"`
	Outcome SendOutcome `json:"outcome"`
	Reason  string      `json:"reason,omitempty"`
}

// Dispatcher resolves matching automation rules for a business event,
// renders them and sends once per matching rule.
type Dispatcher struct {
	Rules    repository.RuleRepositoryInterface
	Clients  repository.ClientRepositoryInterface
	Schedule repository.ScheduleRepositoryInterface
	Branding *BrandingResolver
	OptOuts  *OptOutRegistry
	Email    sender.EmailSender
	SMS      sender.SMSSender

	FromEmail  string
	ReviewLink string
	Loc        *time.Location // business local time zone
	Log        zerolog.Logger
}

// Dispatch runs the full rule-resolution and send pipeline for one event.
// It returns an error only for whole-dispatch failures (rule list or
// required context unavailable); per-rule problems land in the results.
func (d *Dispatcher) Dispatch(ctx context.Context, event model.TriggerEvent) ([]SendResult, error) {
	rules, err := d.Rules.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	matched := d.matchRules(rules, event)
	if len(matched) == 0 {
		return []SendResult{}, nil
	}

	var client *model.Client
	var svc *model.Service
	var staff *model.Staff
	if !event.IsTest() {
		client, err = d.Clients.GetByID(event.ClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to load client %d: %w", event.ClientID, err)
		}
		if client == nil {
			return nil, apperrors.NewClientNotFound(event.ClientID)
		}

		if event.ServiceID != 0 {
			svc, err = d.Schedule.GetService(event.ServiceID)
			if err != nil {
				return nil, fmt.Errorf("failed to load service %d: %w", event.ServiceID, err)
			}
			if svc == nil {
				return nil, fmt.Errorf("service %d not found", event.ServiceID)
			}
		}
		if event.StaffID != 0 {
			staff, err = d.Schedule.GetStaff(event.StaffID)
			if err != nil {
				return nil, fmt.Errorf("failed to load staff %d: %w", event.StaffID, err)
			}
			if staff == nil {
				return nil, fmt.Errorf("staff %d not found", event.StaffID)
			}
		}
	}

	results := make([]SendResult, 0, len(matched))
	for _, rule := range matched {
		res := d.dispatchRule(ctx, rule, event, client, svc, staff)
		results = append(results, res)
	}
	return results, nil
}

// matchRules filters to active rules subscribed to the event's trigger and
// applies the location-scoping preference once per dispatch: rules scoped to
// the event's location win; when none are, globally-scoped rules apply.
func (d *Dispatcher) matchRules(rules []*model.Rule, event model.TriggerEvent) []*model.Rule {
	if event.TestRuleID != 0 {
		for _, r := range rules {
			if r.ID == event.TestRuleID {
				return []*model.Rule{r}
			}
		}
		return nil
	}

	matched := []*model.Rule{}
	for _, r := range rules {
		if r.Matches(event.Trigger, event.CustomTriggerName) {
			matched = append(matched, r)
		}
	}

	if event.LocationID == nil {
		return matched
	}

	scoped := []*model.Rule{}
	global := []*model.Rule{}
	for _, r := range matched {
		scope := d.Branding.ScopeLocationID(r)
		switch {
		case scope == nil:
			global = append(global, r)
		case *scope == *event.LocationID:
			scoped = append(scoped, r)
		}
	}
	if len(scoped) > 0 {
		return scoped
	}
	return global
}

func (d *Dispatcher) dispatchRule(ctx context.Context, rule *model.Rule, event model.TriggerEvent, client *model.Client, svc *model.Service, staff *model.Staff) SendResult {
	res := SendResult{RuleID: rule.ID, Channel: rule.Channel}

	// an explicit test destination bypasses preference gating entirely
	dest := ""
	if event.IsTest() {
		if rule.Channel == model.ChannelSMS {
			dest = event.TestPhone
		} else {
			dest = event.TestEmail
		}
		if dest == "" {
			res.Outcome = OutcomeSkipped
			res.Reason = "no test destination for channel"
			return res
		}
	} else {
		if ok, reason := AllowedByPreference(event.Trigger, rule.Channel, client); !ok {
			res.Outcome = OutcomeSkipped
			res.Reason = reason
			d.Log.Info().Int("rule_id", rule.ID).Str("channel", rule.Channel).Str("reason", reason).Msg("rule send gated")
			return res
		}
		dest = client.ContactFor(rule.Channel)
	}

	contact := NormalizeContact(rule.Channel, dest)
	optedOut, err := d.OptOuts.IsOptedOut(ctx, contact)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Reason = fmt.Sprintf("opt-out lookup failed: %v", err)
		return res
	}
	if optedOut {
		res.Outcome = OutcomeSkipped
		res.Reason = SkipReasonOptedOut
		d.Log.Info().Int("rule_id", rule.ID).Str("contact", contact).Msg("send suppressed, contact opted out")
		return res
	}

	branding := d.Branding.Resolve(event.LocationID, rule.LocationID, rule.Name, rule.Subject)
	vars := d.templateVars(event, client, svc, staff, branding)
	subject := RenderTemplate(rule.Subject, vars)
	body := RenderTemplate(rule.Body, vars)

	if err := d.send(ctx, rule.Channel, dest, subject, body, branding); err != nil {
		if blocked, code := permanentBlock(err); blocked {
			if optErr := d.OptOuts.MarkOptedOut(ctx, contact, model.OptOutReasonCarrierBlock); optErr != nil {
				d.Log.Error().Err(optErr).Str("contact", contact).Msg("failed to register opt-out after block signal")
			}
			res.Reason = fmt.Sprintf("permanently blocked (%s)", code)
		} else {
			res.Reason = err.Error()
		}
		res.Outcome = OutcomeFailed
		d.Log.Error().Err(err).Int("rule_id", rule.ID).Str("channel", rule.Channel).Msg("rule send failed")
		return res
	}

	if err := d.Rules.IncrementSentCount(rule.ID); err != nil {
		d.Log.Error().Err(err).Int("rule_id", rule.ID).Msg("failed to increment rule sent count")
	}
	res.Outcome = OutcomeSent
	return res
}

func (d *Dispatcher) send(ctx context.Context, channel, dest, subject, body string, branding Branding) error {
	if channel == model.ChannelSMS {
		result, err := d.SMS.Send(ctx, dest, body, "")
		if err != nil {
			return err
		}
		if !result.Success {
			if sender.IsPermanentBlockCode(result.ErrorCode) {
				return &sender.PermanentBlockError{Code: result.ErrorCode, Message: result.Error}
			}
			return fmt.Errorf("sms send failed: %s", result.Error)
		}
		return nil
	}

	return d.Email.Send(ctx, sender.EmailMessage{
		To:       dest,
		From:     d.FromEmail,
		FromName: branding.Name,
		Subject:  subject,
		Text:     body,
		HTML:     htmlBody(body),
	})
}

func (d *Dispatcher) templateVars(event model.TriggerEvent, client *model.Client, svc *model.Service, staff *model.Staff, branding Branding) map[string]string {
	vars := map[string]string{
		"salon_name":    branding.Name,
		"salon_phone":   branding.Phone,
		"salon_address": branding.Address,
		"review_link":   d.ReviewLink,
	}
	if client != nil {
		vars["client_name"] = client.FullName()
		vars["client_first_name"] = client.FirstName
		vars["client_last_name"] = client.LastName
		vars["client_email"] = client.Email
		vars["client_phone"] = client.Phone
	}
	if svc != nil {
		vars["service_name"] = svc.Name
		vars["service_duration"] = fmt.Sprintf("%d minutes", svc.Duration)
		vars["service_price"] = fmt.Sprintf("$%.2f", svc.Price)
	}
	if staff != nil {
		vars["staff_name"] = staff.Name
	}
	if !event.StartTime.IsZero() {
		local := event.StartTime.In(d.Loc)
		vars["appointment_date"] = local.Format("Monday, January 2, 2006")
		vars["appointment_time"] = local.Format("3:04 PM")
	}
	return vars
}

// htmlBody applies the channel-appropriate encoding for HTML email.
func htmlBody(body string) string {
	return strings.ReplaceAll(body, "\n", "<br>")
}

func permanentBlock(err error) (bool, string) {
	var b *sender.PermanentBlockError
	if errors.As(err, &b) {
		return true, b.Code
	}
	return false, ""
}
