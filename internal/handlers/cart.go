package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marquee/internal/models"
)

// Cart handlers. Carts are keyed by the X-Session-ID header and live in
// process memory only.

// GetCart - GET /api/cart
func (h *Handlers) GetCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.carts.Get(sid).View())
}

// SelectShow - POST /api/cart/show
func (h *Handlers) SelectShow(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.SelectShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	show, err := h.services.Seats.GetShow(c.Request.Context(), req.ShowID)
	if err != nil {
		respondError(c, err)
		return
	}

	sessionCart := h.carts.Get(sid)
	sessionCart.SelectShow(*show)

	c.JSON(http.StatusOK, sessionCart.View())
}

// ToggleSeat - POST /api/cart/seats
func (h *Handlers) ToggleSeat(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.ToggleSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seat, err := h.services.Seats.Get(c.Request.Context(), req.SeatID)
	if err != nil {
		respondError(c, err)
		return
	}

	sessionCart := h.carts.Get(sid)
	if err := sessionCart.ToggleSeat(*seat); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionCart.View())
}

// SetSnack - POST /api/cart/snacks
func (h *Handlers) SetSnack(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.SetSnackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snack, err := h.services.Seats.GetSnack(c.Request.Context(), req.SnackID)
	if err != nil {
		respondError(c, err)
		return
	}

	sessionCart := h.carts.Get(sid)
	sessionCart.SetSnackQuantity(*snack, req.Quantity)

	c.JSON(http.StatusOK, sessionCart.View())
}

// ClearCart - DELETE /api/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	h.carts.Clear(sid)
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
