package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marquee/internal/models"
)

// Catalog handlers

// ListShows - GET /api/shows
func (h *Handlers) ListShows(c *gin.Context) {
	shows, err := h.services.Seats.ListShows(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list shows", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list shows"})
		return
	}

	if shows == nil {
		shows = []models.Show{}
	}
	c.JSON(http.StatusOK, shows)
}

// GetShow - GET /api/shows/:id
func (h *Handlers) GetShow(c *gin.Context) {
	show, err := h.services.Seats.GetShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, show)
}

// ListSnacks - GET /api/snacks
func (h *Handlers) ListSnacks(c *gin.Context) {
	snacks, err := h.services.Seats.ListSnacks(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list snacks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list snacks"})
		return
	}

	if snacks == nil {
		snacks = []models.Snack{}
	}
	c.JSON(http.StatusOK, snacks)
}
