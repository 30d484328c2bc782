// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/candraczapansky/salon-notify/internal/config"
	"github.com/candraczapansky/salon-notify/internal/db"
	"github.com/candraczapansky/salon-notify/internal/model"
	"github.com/candraczapansky/salon-notify/internal/queue"
	"github.com/candraczapansky/salon-notify/internal/repository"
	"github.com/candraczapansky/salon-notify/internal/sender"
	"github.com/candraczapansky/salon-notify/internal/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("component", "worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	conn, err := db.Init(cfg.DatabaseConfig.URL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close()

	ruleRepo := &repository.RuleRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	recipientRepo := &repository.RecipientRepository{DB: conn}
	clientRepo := &repository.ClientRepository{DB: conn}
	locationRepo := &repository.LocationRepository{DB: conn}
	optOutRepo := &repository.OptOutRepository{DB: conn}
	scheduleRepo := &repository.ScheduleRepository{DB: conn}

	branding := service.NewBrandingResolver(locationRepo, cfg.BrandingConfig)
	optOuts := &service.OptOutRegistry{Repo: optOutRepo, Clients: clientRepo, Log: log}
	email := sender.NewSMTPEmailSender(cfg.SMTPConfig)
	sms := sender.NewHTTPSMSSender(cfg.SMSConfig, log)

	dispatcher := &service.Dispatcher{
		Rules:      ruleRepo,
		Clients:    clientRepo,
		Schedule:   scheduleRepo,
		Branding:   branding,
		OptOuts:    optOuts,
		Email:      email,
		SMS:        sms,
		FromEmail:  cfg.SMTPConfig.FromEmail,
		ReviewLink: cfg.BrandingConfig.ReviewLink,
		Loc:        cfg.DripConfig.Location(),
		Log:        log,
	}

	drip := &service.DripProcessor{
		Campaigns:  campaignRepo,
		Recipients: recipientRepo,
		Clients:    clientRepo,
		Branding:   branding,
		OptOuts:    optOuts,
		Email:      email,
		SMS:        sms,
		Cfg:        cfg.DripConfig,
		FromEmail:  cfg.SMTPConfig.FromEmail,
		ReviewLink: cfg.BrandingConfig.ReviewLink,
		Log:        log,
	}

	scheduler := service.NewScheduler(cfg.SchedulerConfig.TickInterval, drip, log)
	scheduler.Start()
	defer scheduler.Stop()

	consumer, err := queue.NewConsumer(cfg.AMQPConfig.URL, cfg.EventQueue)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to event queue")
	}
	defer consumer.Close()

	go func() {
		err := consumer.Consume(func(event model.TriggerEvent) error {
			results, err := dispatcher.Dispatch(context.Background(), event)
			if err != nil {
				log.Error().Err(err).Str("event_id", event.ID).Str("trigger", event.Trigger).Msg("dispatch failed")
				return err
			}
			for _, res := range results {
				log.Info().
					Str("event_id", event.ID).
					Str("trigger", event.Trigger).
					Int("rule_id", res.RuleID).
					Str("channel", res.Channel).
					Str("outcome", string(res.Outcome)).
					Str("reason", res.Reason).
					Msg("rule dispatched")
			}
			return nil
		})
		if err != nil {
			log.Fatal().Err(err).Msg("event consumer stopped")
		}
	}()

	log.Info().Msg("worker running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("worker shutting down")
}
