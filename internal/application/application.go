package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/merchantcare/ticket-service/internal/agentgw"
	"github.com/merchantcare/ticket-service/internal/config"
	"github.com/merchantcare/ticket-service/internal/database"
	"github.com/merchantcare/ticket-service/internal/directory"
	"github.com/merchantcare/ticket-service/internal/handler"
	"github.com/merchantcare/ticket-service/internal/kafka"
	"github.com/merchantcare/ticket-service/internal/router"
	"github.com/merchantcare/ticket-service/internal/service"
)

// API application: HTTP server plus the wiring of every core component.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *kafka.Producer
}

// NewAPI builds the application: migrations, database, services, gateway,
// directory client, producer, handlers, router.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	ticketSvc := service.NewTicketService(db)
	chatlogSvc := service.NewChatLogService(db)
	agentClient := agentgw.NewClient(cfg.AgentWebhookURL, cfg.AgentWebhookTimeout)
	roles := directory.NewClient(cfg.DirectoryServiceURL, cfg.DirectoryAdminIDs)
	adminSvc := service.NewAdminService(ticketSvc, chatlogSvc, roles)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)

	ticketHandler := handler.NewTicketHandler(handler.Deps{
		Tickets:  ticketSvc,
		ChatLog:  chatlogSvc,
		Agent:    agentClient,
		Producer: producer,
	})
	adminHandler := handler.NewAdminHandler(adminSvc, producer)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(ticketHandler, adminHandler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, httpSrv: httpSrv, producer: producer}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Swagger spec:  %s/swagger/openapi.json", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  Metrics:       %s/metrics", base)
	log.Printf("  API v1:        %s/api/v1/", base)
	if a.cfg.AgentWebhookURL == "" {
		log.Printf("agentgw: AGENT_WEBHOOK_URL not set, merchant messages get the connection fallback")
	}

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	return nil
}
