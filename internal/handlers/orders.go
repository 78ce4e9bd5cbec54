package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marquee/internal/middleware"
	"marquee/internal/models"
)

// Orders handlers

// CreateOrder - POST /api/orders
// Commits the session cart as one atomic booking. On 409 or 503 the
// cart is untouched, so the client can adjust or retry.
func (h *Handlers) CreateOrder(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, _ := middleware.ActorFromContext(c.Request.Context())
	snap := h.carts.Get(sid).Snapshot()

	order, err := h.services.Booking.Commit(c.Request.Context(), actor.UserID, snap, req.PaymentRef)
	if err != nil {
		respondError(c, err)
		return
	}

	ticket, err := h.services.Booking.Ticket(c.Request.Context(), order)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// GetOrder - GET /api/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.services.Booking.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	ticket, err := h.services.Booking.Ticket(c.Request.Context(), order)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}
