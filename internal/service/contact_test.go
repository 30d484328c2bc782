package service_test

import (
	"testing"

	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/service"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"5551234567":        "+15551234567",
		"+1 (555) 123-4567": "+15551234567",
		"15551234567":       "+15551234567",
		"1-555-123-4567":    "+15551234567",
		"0015551234567":     "+15551234567",
		"12345":             "+12345",
		"":                  "",
	}
	for in, want := range cases {
		if got := service.NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := service.NormalizeEmail("  Ava.Reynolds@Example.COM "); got != "ava.reynolds@example.com" {
		t.Errorf("unexpected normalized email %q", got)
	}
}

func TestNormalizeContactPicksChannel(t *testing.T) {
	if got := service.NormalizeContact(model.ChannelSMS, "(555) 123-4567"); got != "+15551234567" {
		t.Errorf("sms contact = %q", got)
	}
	if got := service.NormalizeContact(model.ChannelEmail, "AVA@example.com"); got != "ava@example.com" {
		t.Errorf("email contact = %q", got)
	}
}
