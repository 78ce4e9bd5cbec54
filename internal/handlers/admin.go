package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "marquee/internal/errors"
	"marquee/internal/middleware"
	"marquee/internal/models"
)

// Staff handlers

// ListOrders - GET /api/admin/orders
// Snapshot of current orders for the staff dashboard, optionally
// filtered by show_id.
func (h *Handlers) ListOrders(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c.Request.Context())
	if !actor.IsStaff {
		respondError(c, apperrors.ErrForbidden)
		return
	}

	var showID *string
	if v := c.Query("show_id"); v != "" {
		showID = &v
	}

	summaries, err := h.services.Booking.Snapshot(c.Request.Context(), showID)
	if err != nil {
		respondError(c, err)
		return
	}

	if summaries == nil {
		summaries = []models.OrderSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}

// AdvanceOrder - PATCH /api/admin/orders/status
// Moves an order forward along Confirmed -> Preparing -> Ready.
func (h *Handlers) AdvanceOrder(c *gin.Context) {
	var req models.AdvanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, _ := middleware.ActorFromContext(c.Request.Context())

	order, err := h.services.Lifecycle.Advance(c.Request.Context(), actor, req.OrderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": order.ID,
		"status":   order.Status,
	})
}
