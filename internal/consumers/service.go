// Package consumers keeps the Elasticsearch order index in step with
// Postgres by replaying order change events from NATS Streaming.
// Delivery is at-least-once; handlers are idempotent because indexing
// an order document is an upsert.
package consumers

import (
	"context"
	"log/slog"

	"marquee/internal/config"
	"marquee/internal/database"
	"marquee/internal/messaging"
	"marquee/internal/models"
	"marquee/internal/repository"
	"marquee/internal/search"
)

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	handlers := NewHandlers(repos, esClient)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue(models.EventOrderCreated, "consumers", cs.handlers.HandleOrderChanged)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventOrderStatusChanged, "consumers", cs.handlers.HandleOrderChanged)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
