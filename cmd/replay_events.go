package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/merchantcare/ticket-service/internal/config"
	"github.com/merchantcare/ticket-service/internal/database"
	"github.com/merchantcare/ticket-service/internal/kafka"
	"github.com/merchantcare/ticket-service/internal/model"
	"github.com/spf13/cobra"
)

var replayEventsCmd = &cobra.Command{
	Use:   "replay-events",
	Short: "Re-emit ticket.updated events for all tickets to Kafka (downstream reindex/backfill)",
	RunE:  runReplayEvents,
}

func init() {
	rootCmd.AddCommand(replayEventsCmd)
}

func runReplayEvents(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopicTicket == "" {
		log.Println("replay-events: KAFKA_BROKERS or KAFKA_TOPIC_TICKET not set, nothing to do")
		return nil
	}
	conn, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}

	var tickets []model.Ticket
	if err := conn.Find(&tickets).Error; err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	log.Printf("replay-events: found %d tickets", len(tickets))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)
	defer producer.Close()
	for i := range tickets {
		producer.ProduceTicketEvent(ctx, kafka.EventTicketUpdated, kafka.TicketPayload(&tickets[i]))
		if (i+1)%50 == 0 || i == len(tickets)-1 {
			log.Printf("replay-events: sent %d/%d", i+1, len(tickets))
		}
	}
	log.Printf("replay-events: done, sent %d events", len(tickets))
	return nil
}
