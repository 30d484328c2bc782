package service_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/candraczapansky/salon-notify/internal/config"
	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/service"
)

func TestSchedulerTicksAndStops(t *testing.T) {
	f := newDripFixture([]*model.Campaign{scheduledCampaign(1, model.ChannelEmail)}, promoClients())
	f.drip.Now = time.Now
	f.drip.Cfg = config.DripConfig{
		EmailBatchSize: 50, SMSBatchSize: 100,
		SMSWindowStartHour: 0, SMSWindowEndHour: 24, Timezone: "UTC",
	}
	at := time.Now().Add(-time.Minute)
	f.campaigns.Campaigns[0].ScheduledAt = &at

	s := service.NewScheduler(10*time.Millisecond, f.drip, zerolog.Nop())
	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	// Stop waits for the in-flight tick, so the mocks are safe to inspect
	if len(f.campaigns.MarkedSent) == 0 {
		t.Fatal("scheduler never drove the campaign to completion")
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	f := newDripFixture(nil, nil)
	s := service.NewScheduler(time.Hour, f.drip, zerolog.Nop())
	s.Start()
	s.Stop()
	s.Stop()
}
