package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"marquee/internal/models"
	"marquee/internal/repository"
	"marquee/internal/search"
)

type Handlers struct {
	repos *repository.Repositories
	es    *search.ElasticsearchClient
}

func NewHandlers(repos *repository.Repositories, es *search.ElasticsearchClient) *Handlers {
	return &Handlers{repos: repos, es: es}
}

// HandleOrderChanged reindexes an order after any change. The event only
// names the order; the document is built from Postgres so a stale or
// duplicated event still converges on current state. The message is
// acked only after indexing succeeds, so failures are redelivered.
func (h *Handlers) HandleOrderChanged(m *stan.Msg) {
	var event models.OrderChangedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal order event", "error", err)
		ack(m)
		return
	}

	ctx := context.Background()

	order, err := h.repos.Orders.GetByID(ctx, event.OrderID)
	if err != nil {
		slog.Error("Failed to load order", "order_id", event.OrderID, "error", err)
		return
	}
	if order == nil {
		slog.Warn("Order event references unknown order", "order_id", event.OrderID)
		ack(m)
		return
	}

	if err := h.es.IndexOrder(ctx, order.Document()); err != nil {
		slog.Error("Failed to index order", "order_id", order.ID, "error", err)
		return
	}

	slog.Info("Order indexed", "order_id", order.ID, "status", order.Status)
	ack(m)
}

func ack(m *stan.Msg) {
	if err := m.Ack(); err != nil {
		slog.Error("Failed to ack message", "subject", m.Subject, "error", err)
	}
}
