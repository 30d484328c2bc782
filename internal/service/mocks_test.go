package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/candraczapansky/salon-notify/internal/apperrors"
	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/sender"
)

// Mock repositories shared by the service tests.

type MockRuleRepo struct {
	Rules      []*model.Rule
	SentCounts map[int]int
	ListErr    error
}

func (m *MockRuleRepo) ListActive() ([]*model.Rule, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	active := []*model.Rule{}
	for _, r := range m.Rules {
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

func (m *MockRuleRepo) List() ([]*model.Rule, error) { return m.Rules, nil }

func (m *MockRuleRepo) GetByID(id int) (*model.Rule, error) {
	for _, r := range m.Rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.NewRuleNotFound(id)
}

func (m *MockRuleRepo) Create(r *model.Rule) error { m.Rules = append(m.Rules, r); return nil }
func (m *MockRuleRepo) Update(r *model.Rule) error { return nil }
func (m *MockRuleRepo) Delete(id int) error        { return nil }

func (m *MockRuleRepo) IncrementSentCount(id int) error {
	if m.SentCounts == nil {
		m.SentCounts = map[int]int{}
	}
	m.SentCounts[id]++
	return nil
}

type MockClientRepo struct {
	Clients      []*model.Client
	ClearedEmail []string
	ClearedPhone []string
	ListErr      error
}

func (m *MockClientRepo) GetByID(id int) (*model.Client, error) {
	for _, c := range m.Clients {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockClientRepo) ListAll() ([]*model.Client, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Clients, nil
}

func (m *MockClientRepo) ListByIDs(ids []int64) ([]*model.Client, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := []*model.Client{}
	for _, c := range m.Clients {
		for _, id := range ids {
			if int64(c.ID) == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (m *MockClientRepo) ListPromotionsOptIn(channel string) ([]*model.Client, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := []*model.Client{}
	for _, c := range m.Clients {
		if c.PromotionsOptIn(channel) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockClientRepo) ClearMessagingConsent(email, phone string) error {
	if email != "" {
		m.ClearedEmail = append(m.ClearedEmail, email)
	}
	if phone != "" {
		m.ClearedPhone = append(m.ClearedPhone, phone)
	}
	for _, c := range m.Clients {
		if (email != "" && c.Email == email) || (phone != "" && c.Phone == phone) {
			c.EmailAppointmentReminders = false
			c.SMSAppointmentReminders = false
			c.EmailAccountManagement = false
			c.SMSAccountManagement = false
			c.EmailPromotions = false
			c.SMSPromotions = false
		}
	}
	return nil
}

type MockScheduleRepo struct {
	Service *model.Service
	Staff   *model.Staff
	Appt    *model.Appointment
}

func (m *MockScheduleRepo) GetAppointment(id int) (*model.Appointment, error) { return m.Appt, nil }
func (m *MockScheduleRepo) GetService(id int) (*model.Service, error)         { return m.Service, nil }
func (m *MockScheduleRepo) GetStaff(id int) (*model.Staff, error)             { return m.Staff, nil }

type MockLocationRepo struct {
	Locations []*model.Location
}

func (m *MockLocationRepo) GetByID(id int) (*model.Location, error) {
	for _, l := range m.Locations {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (m *MockLocationRepo) GetByName(name string) (*model.Location, error) {
	for _, l := range m.Locations {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, nil
}

func (m *MockLocationRepo) List() ([]*model.Location, error) { return m.Locations, nil }

type MockOptOutRepo struct {
	Entries map[string]*model.OptOutEntry
}

func (m *MockOptOutRepo) Exists(contact string) (bool, error) {
	_, ok := m.Entries[contact]
	return ok, nil
}

func (m *MockOptOutRepo) Create(entry *model.OptOutEntry) error {
	if m.Entries == nil {
		m.Entries = map[string]*model.OptOutEntry{}
	}
	if _, exists := m.Entries[entry.Contact]; exists {
		return nil
	}
	entry.CreatedAt = time.Now()
	m.Entries[entry.Contact] = entry
	return nil
}

func (m *MockOptOutRepo) List() ([]*model.OptOutEntry, error) {
	out := []*model.OptOutEntry{}
	for _, e := range m.Entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *MockOptOutRepo) Delete(contact string) error {
	delete(m.Entries, contact)
	return nil
}

type MockCampaignRepo struct {
	Campaigns  []*model.Campaign
	Statuses   map[int]string
	SentTotal  int
	FailTotal  int
	MarkedSent []int
	Updated    []*model.Campaign
	mu         sync.Mutex
}

func (m *MockCampaignRepo) Create(c *model.Campaign) error {
	c.ID = len(m.Campaigns) + 1
	m.Campaigns = append(m.Campaigns, c)
	return nil
}

func (m *MockCampaignRepo) Update(c *model.Campaign) error {
	m.Updated = append(m.Updated, c)
	return nil
}

func (m *MockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	for _, c := range m.Campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.NewCampaignNotFound(id)
}

func (m *MockCampaignRepo) ListCampaigns(offset, limit int, channel, status string) ([]*model.Campaign, int, error) {
	return m.Campaigns, len(m.Campaigns), nil
}

func (m *MockCampaignRepo) ListDue(now time.Time) ([]*model.Campaign, error) {
	due := []*model.Campaign{}
	for _, c := range m.Campaigns {
		switch {
		case c.Status == model.CampaignStatusSending:
			due = append(due, c)
		case c.Status == model.CampaignStatusScheduled && c.ScheduledAt != nil && !c.ScheduledAt.After(now):
			due = append(due, c)
		}
	}
	return due, nil
}

func (m *MockCampaignRepo) UpdateStatus(campaignID int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Statuses == nil {
		m.Statuses = map[int]string{}
	}
	m.Statuses[campaignID] = status
	return nil
}

func (m *MockCampaignRepo) MarkSent(campaignID int, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkedSent = append(m.MarkedSent, campaignID)
	if m.Statuses == nil {
		m.Statuses = map[int]string{}
	}
	m.Statuses[campaignID] = model.CampaignStatusSent
	return nil
}

func (m *MockCampaignRepo) AddCounters(campaignID, sent, failed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentTotal += sent
	m.FailTotal += failed
	return nil
}

// MockRecipientRepo mimics the guarded UPDATE claim: only a pending row can
// be claimed and only once, even under concurrent ticks.
type MockRecipientRepo struct {
	Rows   []*model.CampaignRecipient
	nextID int
	mu     sync.Mutex
}

func (m *MockRecipientRepo) CountForCampaign(campaignID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.Rows {
		if r.CampaignID == campaignID {
			count++
		}
	}
	return count, nil
}

func (m *MockRecipientRepo) BulkInsert(recipients []*model.CampaignRecipient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range recipients {
		dup := false
		for _, existing := range m.Rows {
			if existing.CampaignID == rec.CampaignID && existing.Contact == rec.Contact {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		m.nextID++
		rec.ID = m.nextID
		rec.CreatedAt = time.Now()
		m.Rows = append(m.Rows, rec)
	}
	return nil
}

func (m *MockRecipientRepo) ListPending(campaignID, limit int) ([]*model.CampaignRecipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.CampaignRecipient{}
	for _, r := range m.Rows {
		if r.CampaignID == campaignID && r.Status == model.RecipientStatusPending {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockRecipientRepo) Claim(recipientID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Rows {
		if r.ID == recipientID && r.Status == model.RecipientStatusPending {
			r.Status = model.RecipientStatusClaimed
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRecipientRepo) MarkSent(recipientID int, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Rows {
		if r.ID == recipientID {
			r.Status = model.RecipientStatusSent
			r.SentAt = &sentAt
			r.ErrorReason = ""
		}
	}
	return nil
}

func (m *MockRecipientRepo) MarkFailed(recipientID int, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Rows {
		if r.ID == recipientID {
			r.Status = model.RecipientStatusFailed
			r.ErrorReason = reason
		}
	}
	return nil
}

func (m *MockRecipientRepo) CountOutstanding(campaignID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.Rows {
		if r.CampaignID != campaignID {
			continue
		}
		if r.Status == model.RecipientStatusPending || r.Status == model.RecipientStatusClaimed {
			count++
		}
	}
	return count, nil
}

func (m *MockRecipientRepo) StatusCounts(campaignID int) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, r := range m.Rows {
		if r.CampaignID == campaignID {
			counts[r.Status]++
		}
	}
	return counts, nil
}

// Mock senders.

type MockEmailSender struct {
	Sent []sender.EmailMessage
	Err  error
	mu   sync.Mutex
}

func (m *MockEmailSender) Send(ctx context.Context, msg sender.EmailMessage) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

type smsCall struct {
	To   string
	Body string
}

type MockSMSSender struct {
	Sent   []smsCall
	Result sender.SMSResult
	Err    error
	mu     sync.Mutex
}

func (m *MockSMSSender) Send(ctx context.Context, to, body, mediaURL string) (sender.SMSResult, error) {
	if m.Err != nil {
		return sender.SMSResult{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, smsCall{To: to, Body: body})
	if m.Result.Success || m.Result.ErrorCode != "" || m.Result.Error != "" {
		return m.Result, nil
	}
	return sender.SMSResult{Success: true, MessageID: fmt.Sprintf("msg-%d", len(m.Sent))}, nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
