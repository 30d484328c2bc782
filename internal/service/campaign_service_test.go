package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/candraczapansky/salon-notify/internal/apperrors"
	"github.com/candraczapansky/salon-notify/internal/config"
	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/service"
)

func newCampaignService(campaigns *MockCampaignRepo, clients *MockClientRepo) *service.CampaignService {
	return &service.CampaignService{
		Campaigns:  campaigns,
		Recipients: &MockRecipientRepo{},
		Clients:    clients,
		Branding: service.NewBrandingResolver(&MockLocationRepo{}, config.BrandingConfig{
			DefaultName: "Glo Head Spa", DefaultPhone: "918-555-0100",
		}),
		ReviewLink: "https://g.page/r/glo/review",
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	svc := newCampaignService(&MockCampaignRepo{}, &MockClientRepo{})

	_, _, err := svc.CreateCampaign(service.CreateCampaignInput{Channel: "fax", Content: "hi"})
	if err == nil {
		t.Error("expected invalid channel error")
	}

	_, _, err = svc.CreateCampaign(service.CreateCampaignInput{Channel: model.ChannelEmail, Content: "  "})
	if err == nil {
		t.Error("expected empty content error")
	}

	_, _, err = svc.CreateCampaign(service.CreateCampaignInput{
		Channel: model.ChannelEmail, Content: "hi", Audience: model.AudienceSpecific,
	})
	if err == nil {
		t.Error("specific audience without client_ids should be rejected")
	}
}

func TestCreateCampaignDefaultsAndWarnings(t *testing.T) {
	repo := &MockCampaignRepo{}
	svc := newCampaignService(repo, &MockClientRepo{})

	c, warnings, err := svc.CreateCampaign(service.CreateCampaignInput{
		Name: "Promo", Channel: model.ChannelEmail,
		Content: "Hi {client_first_name}, use code {promo_code}",
	})
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if c.Status != model.CampaignStatusDraft || c.Audience != model.AudienceAllClients {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if len(warnings) != 1 || warnings[0] != "promo_code" {
		t.Errorf("expected a warning for the unknown placeholder, got %v", warnings)
	}
}

func TestCreateCampaignWithScheduledAt(t *testing.T) {
	repo := &MockCampaignRepo{}
	svc := newCampaignService(repo, &MockClientRepo{})

	c, _, err := svc.CreateCampaign(service.CreateCampaignInput{
		Name: "Promo", Channel: model.ChannelSMS, Content: "hi",
		ScheduledAt: strPtr("2026-04-01T15:00:00Z"),
	})
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if c.Status != model.CampaignStatusScheduled || c.ScheduledAt == nil {
		t.Errorf("expected scheduled campaign, got %+v", c)
	}

	_, _, err = svc.CreateCampaign(service.CreateCampaignInput{
		Name: "Promo", Channel: model.ChannelSMS, Content: "hi",
		ScheduledAt: strPtr("tomorrow-ish"),
	})
	if err == nil {
		t.Error("expected invalid timestamp error")
	}
}

func TestScheduleRejectsSentCampaign(t *testing.T) {
	repo := &MockCampaignRepo{Campaigns: []*model.Campaign{
		{ID: 1, Status: model.CampaignStatusSent},
	}}
	svc := newCampaignService(repo, &MockClientRepo{})

	_, err := svc.Schedule(1, time.Now())
	var notSendable *apperrors.ErrCampaignNotSendable
	if !errors.As(err, &notSendable) {
		t.Fatalf("expected ErrCampaignNotSendable, got %v", err)
	}
}

func TestSendNowSchedulesImmediately(t *testing.T) {
	repo := &MockCampaignRepo{Campaigns: []*model.Campaign{
		{ID: 1, Status: model.CampaignStatusDraft},
	}}
	svc := newCampaignService(repo, &MockClientRepo{})

	c, err := svc.SendNow(1)
	if err != nil {
		t.Fatalf("SendNow: %v", err)
	}
	if c.Status != model.CampaignStatusScheduled || c.ScheduledAt == nil {
		t.Errorf("expected scheduled for now, got %+v", c)
	}
	if time.Since(*c.ScheduledAt) > time.Minute {
		t.Errorf("scheduled_at too far in the past: %v", c.ScheduledAt)
	}
}

func TestRenderPreview(t *testing.T) {
	repo := &MockCampaignRepo{Campaigns: []*model.Campaign{
		{ID: 1, Name: "Promo", Content: "Hi {client_first_name}, visit {salon_name}!"},
	}}
	clients := &MockClientRepo{Clients: []*model.Client{
		{ID: 1, FirstName: "Alice", LastName: "Smith", Email: "alice@example.com"},
	}}
	svc := newCampaignService(repo, clients)

	msg, err := svc.RenderPreview(1, 1, nil)
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	if msg != "Hi Alice, visit Glo Head Spa!" {
		t.Errorf("unexpected preview %q", msg)
	}
}

func TestRenderPreviewOverrideTemplate(t *testing.T) {
	repo := &MockCampaignRepo{Campaigns: []*model.Campaign{{ID: 1, Content: "base"}}}
	clients := &MockClientRepo{Clients: []*model.Client{{ID: 1, FirstName: "Alice"}}}
	svc := newCampaignService(repo, clients)

	msg, err := svc.RenderPreview(1, 1, strPtr("Override for {client_first_name}"))
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	if msg != "Override for Alice" {
		t.Errorf("unexpected preview %q", msg)
	}
}

func TestRenderPreviewUnknownClient(t *testing.T) {
	repo := &MockCampaignRepo{Campaigns: []*model.Campaign{{ID: 1, Content: "base"}}}
	svc := newCampaignService(repo, &MockClientRepo{})

	if _, err := svc.RenderPreview(1, 42, nil); err == nil {
		t.Error("expected error for unknown client")
	}
}

func TestListCampaignsPagination(t *testing.T) {
	repo := &MockCampaignRepo{Campaigns: []*model.Campaign{{ID: 1}, {ID: 2}, {ID: 3}}}
	svc := newCampaignService(repo, &MockClientRepo{})

	_, pagination, err := svc.ListCampaigns(0, 2, "", "")
	if err != nil {
		t.Fatalf("ListCampaigns: %v", err)
	}
	if pagination["page"] != 1 || pagination["page_size"] != 2 {
		t.Errorf("page clamping wrong: %v", pagination)
	}
	if pagination["total_count"] != 3 || pagination["total_pages"] != 2 {
		t.Errorf("totals wrong: %v", pagination)
	}
}
