// internal/service/drip.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/candraczapansky/salon-notify/internal/config"
	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/repository"
	"github.com/candraczapansky/salon-notify/internal/sender"
)

// DripProcessor walks due campaigns through the seed-claim-send-track
// lifecycle, one bounded batch per scheduler tick.
type DripProcessor struct {
	Campaigns  repository.CampaignRepositoryInterface
	Recipients repository.RecipientRepositoryInterface
	Clients    repository.ClientRepositoryInterface
	Branding   *BrandingResolver
	OptOuts    *OptOutRegistry
	Email      sender.EmailSender
	SMS        sender.SMSSender

	Cfg        config.DripConfig
	FromEmail  string
	ReviewLink string
	Log        zerolog.Logger

	// Now is an injectable clock; nil means time.Now.
	Now func() time.Time

	seedFailures map[int]int
}

// maxSeedFailures bounds how many consecutive ticks a campaign may fail to
// seed before it is abandoned as failed.
const maxSeedFailures = 3

func (d *DripProcessor) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ProcessDue runs one drip tick over every eligible campaign: scheduled
// campaigns whose time has passed and campaigns already mid-send. A failure
// in one campaign never blocks the others.
func (d *DripProcessor) ProcessDue(ctx context.Context) error {
	campaigns, err := d.Campaigns.ListDue(d.now())
	if err != nil {
		return fmt.Errorf("failed to list due campaigns: %w", err)
	}

	for _, c := range campaigns {
		if c.Status == model.CampaignStatusScheduled {
			if err := d.Campaigns.UpdateStatus(c.ID, model.CampaignStatusSending); err != nil {
				d.Log.Error().Err(err).Int("campaign_id", c.ID).Msg("failed to move campaign to sending")
				continue
			}
			c.Status = model.CampaignStatusSending
		}

		if err := d.SeedRecipients(ctx, c); err != nil {
			d.Log.Error().Err(err).Int("campaign_id", c.ID).Msg("failed to seed campaign recipients")
			d.recordSeedFailure(c.ID)
			continue
		}
		delete(d.seedFailures, c.ID)
		if err := d.ProcessTick(ctx, c); err != nil {
			d.Log.Error().Err(err).Int("campaign_id", c.ID).Msg("campaign tick failed")
		}
	}
	return nil
}

// recordSeedFailure counts consecutive seeding errors per campaign. After
// maxSeedFailures the campaign moves to failed so it stops being picked up
// every tick; a successful seed resets the count.
func (d *DripProcessor) recordSeedFailure(campaignID int) {
	if d.seedFailures == nil {
		d.seedFailures = map[int]int{}
	}
	d.seedFailures[campaignID]++
	if d.seedFailures[campaignID] < maxSeedFailures {
		return
	}
	if err := d.Campaigns.UpdateStatus(campaignID, model.CampaignStatusFailed); err != nil {
		d.Log.Error().Err(err).Int("campaign_id", campaignID).Msg("failed to mark campaign failed")
		return
	}
	delete(d.seedFailures, campaignID)
	d.Log.Error().Int("campaign_id", campaignID).Msg("campaign abandoned after repeated seeding errors")
}

// SeedRecipients materializes the campaign's audience into pending recipient
// rows, once per campaign. Rows are deduplicated by normalized contact, so
// several client accounts sharing one phone or email produce a single row.
// Seeding is idempotent: when rows already exist the call is a no-op.
func (d *DripProcessor) SeedRecipients(ctx context.Context, campaign *model.Campaign) error {
	existing, err := d.Recipients.CountForCampaign(campaign.ID)
	if err != nil {
		return fmt.Errorf("failed to count existing recipients: %w", err)
	}
	if existing > 0 {
		return nil
	}

	var clients []*model.Client
	switch campaign.Audience {
	case model.AudienceSpecific:
		clients, err = d.Clients.ListByIDs(campaign.ClientIDs)
	case model.AudiencePromotionsOptIn:
		clients, err = d.Clients.ListPromotionsOptIn(campaign.Channel)
	default:
		clients, err = d.Clients.ListAll()
	}
	if err != nil {
		return fmt.Errorf("failed to resolve audience: %w", err)
	}

	// an explicitly enumerated audience bypasses the consent filter
	consentRequired := campaign.Audience != model.AudienceSpecific

	seen := map[string]bool{}
	recipients := []*model.CampaignRecipient{}
	for _, c := range clients {
		address := c.ContactFor(campaign.Channel)
		if address == "" {
			continue
		}
		if consentRequired && !c.PromotionsOptIn(campaign.Channel) {
			continue
		}
		contact := NormalizeContact(campaign.Channel, address)
		if seen[contact] {
			continue
		}
		seen[contact] = true
		recipients = append(recipients, &model.CampaignRecipient{
			CampaignID: campaign.ID,
			ClientID:   c.ID,
			Contact:    contact,
			Status:     model.RecipientStatusPending,
		})
	}

	if err := d.Recipients.BulkInsert(recipients); err != nil {
		return fmt.Errorf("failed to insert recipients: %w", err)
	}
	d.Log.Info().Int("campaign_id", campaign.ID).Int("recipients", len(recipients)).Msg("campaign recipients seeded")
	return nil
}

// ProcessTick claims and sends one bounded batch of pending recipients.
// Claim contention means another tick or process instance owns the row and
// is skipped silently. After the batch the campaign is marked sent once no
// pending or claimed rows remain, so a row still held by a concurrent tick
// keeps the campaign in sending.
func (d *DripProcessor) ProcessTick(ctx context.Context, campaign *model.Campaign) error {
	if campaign.Channel == model.ChannelSMS && !d.withinSMSWindow(d.now()) {
		d.Log.Info().Int("campaign_id", campaign.ID).Msg("outside sms sending window, tick skipped")
		return nil
	}

	batchSize := d.Cfg.EmailBatchSize
	delay := d.Cfg.EmailSendDelay
	if campaign.Channel == model.ChannelSMS {
		batchSize = d.Cfg.SMSBatchSize
		delay = d.Cfg.SMSSendDelay
	}

	batch, err := d.Recipients.ListPending(campaign.ID, batchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending recipients: %w", err)
	}

	limiter := rate.NewLimiter(rate.Every(delay), 1)
	sentDelta, failedDelta := 0, 0
	for _, rec := range batch {
		claimed, err := d.Recipients.Claim(rec.ID)
		if err != nil {
			d.Log.Error().Err(err).Int("recipient_id", rec.ID).Msg("claim failed")
			continue
		}
		if !claimed {
			// another tick owns this row; not a failure
			continue
		}

		// a tick in progress runs to completion, so the pacing wait does
		// not observe the caller's cancellation
		_ = limiter.Wait(context.Background())

		if d.sendToRecipient(ctx, campaign, rec) {
			sentDelta++
		} else {
			failedDelta++
		}
	}

	if sentDelta > 0 || failedDelta > 0 {
		if err := d.Campaigns.AddCounters(campaign.ID, sentDelta, failedDelta); err != nil {
			d.Log.Error().Err(err).Int("campaign_id", campaign.ID).Msg("failed to update campaign counters")
		}
	}

	remaining, err := d.Recipients.CountOutstanding(campaign.ID)
	if err != nil {
		return fmt.Errorf("failed to count outstanding recipients: %w", err)
	}
	if remaining == 0 {
		if err := d.Campaigns.MarkSent(campaign.ID, d.now()); err != nil {
			return fmt.Errorf("failed to mark campaign sent: %w", err)
		}
		d.Log.Info().Int("campaign_id", campaign.ID).Msg("campaign exhausted, marked sent")
	}

	d.Log.Info().Int("campaign_id", campaign.ID).
		Int("sent", sentDelta).Int("failed", failedDelta).Int("remaining", remaining).
		Msg("drip batch processed")
	return nil
}

// sendToRecipient processes one claimed recipient end to end and reports
// whether the send succeeded.
func (d *DripProcessor) sendToRecipient(ctx context.Context, campaign *model.Campaign, rec *model.CampaignRecipient) bool {
	optedOut, err := d.OptOuts.IsOptedOut(ctx, rec.Contact)
	if err != nil {
		d.markFailed(rec, fmt.Sprintf("opt-out lookup failed: %v", err))
		return false
	}
	if optedOut {
		d.markFailed(rec, SkipReasonOptedOut)
		return false
	}

	client, err := d.Clients.GetByID(rec.ClientID)
	if err != nil || client == nil {
		d.markFailed(rec, "client record missing")
		return false
	}

	// the consent flag could have been withdrawn since seeding
	if campaign.Audience != model.AudienceSpecific && !client.PromotionsOptIn(campaign.Channel) {
		d.markFailed(rec, SkipReasonPreference)
		return false
	}

	branding := d.Branding.Resolve(nil, campaign.LocationID, campaign.Name, campaign.Subject)
	vars := map[string]string{
		"client_name":       client.FullName(),
		"client_first_name": client.FirstName,
		"client_last_name":  client.LastName,
		"client_email":      client.Email,
		"client_phone":      client.Phone,
		"salon_name":        branding.Name,
		"salon_phone":       branding.Phone,
		"salon_address":     branding.Address,
		"review_link":       d.ReviewLink,
	}
	subject := RenderTemplate(campaign.Subject, vars)
	content := RenderTemplate(campaign.Content, vars)

	if err := d.send(ctx, campaign.Channel, rec.Contact, subject, content, branding); err != nil {
		if blocked, code := permanentBlock(err); blocked {
			if optErr := d.OptOuts.MarkOptedOut(ctx, rec.Contact, model.OptOutReasonCarrierBlock); optErr != nil {
				d.Log.Error().Err(optErr).Str("contact", rec.Contact).Msg("failed to register opt-out after block signal")
			}
			d.markFailed(rec, fmt.Sprintf("permanently blocked (%s)", code))
		} else {
			d.markFailed(rec, err.Error())
		}
		return false
	}

	if err := d.Recipients.MarkSent(rec.ID, d.now()); err != nil {
		d.Log.Error().Err(err).Int("recipient_id", rec.ID).Msg("failed to mark recipient sent")
	}
	return true
}

func (d *DripProcessor) send(ctx context.Context, channel, dest, subject, body string, branding Branding) error {
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

func (d *DripProcessor) markFailed(rec *model.CampaignRecipient, reason string) {
	if err := d.Recipients.MarkFailed(rec.ID, reason); err != nil {
		d.Log.Error().Err(err).Int("recipient_id", rec.ID).Msg("failed to mark recipient failed")
	}
	d.Log.Info().Int("recipient_id", rec.ID).Str("reason", reason).Msg("recipient send failed")
}

func (d *DripProcessor) withinSMSWindow(t time.Time) bool {
	hour := t.In(d.Cfg.Location()).Hour()
	return hour >= d.Cfg.SMSWindowStartHour && hour < d.Cfg.SMSWindowEndHour
}
