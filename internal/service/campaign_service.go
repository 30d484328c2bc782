// internal/service/campaign_service.go
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/candraczapansky/salon-notify/internal/apperrors"
	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/repository"
)

// CampaignService is the operator-facing campaign surface: CRUD, scheduling
// and previews. The actual sending happens in the DripProcessor.
type CampaignService struct {
	Campaigns  repository.CampaignRepositoryInterface
	Recipients repository.RecipientRepositoryInterface
	Clients    repository.ClientRepositoryInterface
	Branding   *BrandingResolver
	ReviewLink string
}

type CampaignDetails struct {
	*model.Campaign
	RecipientStats map[string]int `json:"recipient_stats"`
}

type CreateCampaignInput struct {
	Name        string  `json:"name"`
	Channel     string  `json:"channel"`
	Audience    string  `json:"audience"`
	ClientIDs   []int64 `json:"client_ids"`
	Subject     string  `json:"subject"`
	Content     string  `json:"content"`
	LocationID  *int    `json:"location_id"`
	ScheduledAt *string `json:"scheduled_at"`
}

// CreateCampaign validates and persists a draft (or scheduled) campaign.
// It returns template warnings for placeholders no send path populates.
func (s *CampaignService) CreateCampaign(in CreateCampaignInput) (*model.Campaign, []string, error) {
	if in.Channel != model.ChannelEmail && in.Channel != model.ChannelSMS {
		return nil, nil, fmt.Errorf("invalid channel: %q", in.Channel)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, nil, fmt.Errorf("content cannot be empty")
	}
	switch in.Audience {
	case model.AudienceAllClients, model.AudiencePromotionsOptIn:
	case model.AudienceSpecific:
		if len(in.ClientIDs) == 0 {
			return nil, nil, fmt.Errorf("audience %q requires client_ids", in.Audience)
		}
	case "":
		in.Audience = model.AudienceAllClients
	default:
		return nil, nil, fmt.Errorf("invalid audience: %q", in.Audience)
	}

	c := &model.Campaign{
		Name:       in.Name,
		Channel:    in.Channel,
		Audience:   in.Audience,
		ClientIDs:  in.ClientIDs,
		Subject:    in.Subject,
		Content:    in.Content,
		LocationID: in.LocationID,
		Status:     model.CampaignStatusDraft,
	}

	if in.ScheduledAt != nil && *in.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, *in.ScheduledAt)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid scheduled_at: %w", err)
		}
		c.ScheduledAt = &t
		c.Status = model.CampaignStatusScheduled
	}

	if err := s.Campaigns.Create(c); err != nil {
		return nil, nil, err
	}

	warnings := CheckTemplate(in.Subject + " " + in.Content)
	return c, warnings, nil
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(page, pageSize int, channel, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.Campaigns.ListCampaigns(offset, pageSize, channel, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

// GetCampaignDetailsWithStats returns the campaign with its per-status
// recipient counts.
func (s *CampaignService) GetCampaignDetailsWithStats(campaignID int) (*CampaignDetails, error) {
	campaign, err := s.Campaigns.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	stats, err := s.Recipients.StatusCounts(campaignID)
	if err != nil {
		return nil, err
	}

	return &CampaignDetails{Campaign: campaign, RecipientStats: stats}, nil
}

// Schedule stamps the send time and moves the campaign to scheduled. The
// drip scheduler picks it up once the time has passed.
func (s *CampaignService) Schedule(campaignID int, at time.Time) (*model.Campaign, error) {
	c, err := s.Campaigns.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if !c.Sendable() {
		return nil, apperrors.NewCampaignNotSendable(c.ID, c.Status)
	}

	c.ScheduledAt = &at
	c.Status = model.CampaignStatusScheduled
	if err := s.Campaigns.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// SendNow schedules the campaign for immediate pickup on the next tick.
func (s *CampaignService) SendNow(campaignID int) (*model.Campaign, error) {
	return s.Schedule(campaignID, time.Now())
}

// RenderPreview renders the campaign content for one client, with branding
// variables resolved the same way a real send would.
func (s *CampaignService) RenderPreview(campaignID, clientID int, overrideTemplate *string) (string, error) {
	campaign, err := s.Campaigns.GetByID(campaignID)
	if err != nil {
		return "", err
	}

	client, err := s.Clients.GetByID(clientID)
	if err != nil {
		return "", err
	}
	if client == nil {
		return "", fmt.Errorf("client not found")
	}

	template := campaign.Content
	if overrideTemplate != nil && strings.TrimSpace(*overrideTemplate) != "" {
		template = *overrideTemplate
	}
	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("template cannot be empty")
	}

	branding := s.Branding.Resolve(nil, campaign.LocationID, campaign.Name, campaign.Subject)
	vars := map[string]string{
		"client_name":       client.FullName(),
		"client_first_name": client.FirstName,
		"client_last_name":  client.LastName,
		"client_email":      client.Email,
		"client_phone":      client.Phone,
		"salon_name":        branding.Name,
		"salon_phone":       branding.Phone,
		"salon_address":     branding.Address,
		"review_link":       s.ReviewLink,
	}
	return RenderTemplate(template, vars), nil
}
