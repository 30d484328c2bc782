// cmd/server/main.go
package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/candraczapansky/salon-notify/internal/config"
	"github.com/candraczapansky/salon-notify/internal/controller"
	"github.com/candraczapansky/salon-notify/internal/db"
	"github.com/candraczapansky/salon-notify/internal/queue"
	"github.com/candraczapansky/salon-notify/internal/repository"
	"github.com/candraczapansky/salon-notify/internal/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("component", "server").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	conn, err := db.Init(cfg.DatabaseConfig.URL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close()

	if err := db.ApplyMigrations(cfg.DatabaseConfig.URL(), cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	publisher, err := queue.NewPublisher(cfg.AMQPConfig.URL, cfg.EventQueue)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to event queue")
	}
	defer publisher.Close()

	ruleRepo := &repository.RuleRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	recipientRepo := &repository.RecipientRepository{DB: conn}
	clientRepo := &repository.ClientRepository{DB: conn}
	locationRepo := &repository.LocationRepository{DB: conn}
	optOutRepo := &repository.OptOutRepository{DB: conn}

	branding := service.NewBrandingResolver(locationRepo, cfg.BrandingConfig)
	optOuts := &service.OptOutRegistry{Repo: optOutRepo, Clients: clientRepo, Log: log}
	campaignService := &service.CampaignService{
		Campaigns:  campaignRepo,
		Recipients: recipientRepo,
		Clients:    clientRepo,
		Branding:   branding,
		ReviewLink: cfg.BrandingConfig.ReviewLink,
	}

	ruleController := &controller.RuleController{Rules: ruleRepo}
	campaignController := &controller.CampaignController{CampaignService: campaignService}
	optOutController := &controller.OptOutController{Registry: optOuts, Repo: optOutRepo}
	triggerController := &controller.TriggerController{Publisher: publisher}

	r := chi.NewRouter()

	r.Post("/rules", ruleController.CreateRule)
	r.Get("/rules", ruleController.ListRules)
	r.Get("/rules/{id}", ruleController.GetRule)
	r.Put("/rules/{id}", ruleController.UpdateRule)
	r.Delete("/rules/{id}", ruleController.DeleteRule)

	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignController.GetCampaign)
	r.Post("/campaigns/{id}/schedule", campaignController.ScheduleCampaign)
	r.Post("/campaigns/{id}/send-now", campaignController.SendCampaignNow)
	r.Post("/campaigns/{id}/personalized-preview", campaignController.PersonalizedPreview)

	r.Get("/opt-outs", optOutController.ListOptOuts)
	r.Post("/opt-outs", optOutController.CreateOptOut)
	r.Delete("/opt-outs/{contact}", optOutController.DeleteOptOut)

	r.Post("/events", triggerController.PublishEvent)
	r.Post("/triggers/test", triggerController.TestSend)

	log.Info().Str("port", cfg.ServerConfig.Port).Msg("server running")
	if err := http.ListenAndServe(":"+cfg.ServerConfig.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
