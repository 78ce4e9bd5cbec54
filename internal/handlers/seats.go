package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marquee/internal/models"
)

// Seats handlers

// ListSeats - GET /api/shows/:id/seats
// The rendered seat map is cached in Valkey with a short TTL and
// invalidated on every successful booking, so reads are advisory with a
// bounded staleness window.
func (h *Handlers) ListSeats(c *gin.Context) {
	showID := c.Param("id")
	ctx := c.Request.Context()

	if h.valkeyClient != nil {
		if raw, err := h.valkeyClient.GetSeatsRaw(ctx, showID); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			return
		}
	}

	seats, err := h.services.Seats.ListByShow(ctx, showID)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.ListSeatsResponseItem, len(seats))
	for i, seat := range seats {
		items[i] = models.ListSeatsResponseItem{
			ID:         seat.ID,
			SeatNumber: seat.SeatNumber,
			IsBooked:   seat.IsBooked,
		}
	}

	if h.valkeyClient != nil {
		if payload, err := json.Marshal(items); err == nil {
			if err := h.valkeyClient.SetSeats(ctx, showID, payload, h.cfg.SeatCacheTTL); err != nil {
				slog.Debug("Failed to cache seat map", "show_id", showID, "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, items)
}
