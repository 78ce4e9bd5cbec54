package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marquee/internal/middleware"
	"marquee/internal/models"
)

// Me - GET /api/users/me
// Profile of the authenticated account.
func (h *Handlers) Me(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c.Request.Context())

	user, err := h.services.Users.Profile(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser - POST /api/admin/users
// Staff provision cashier and customer accounts; there is no
// self-registration.
func (h *Handlers) CreateUser(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c.Request.Context())

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user := &models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		Surname:   req.Surname,
		IsStaff:   req.IsStaff,
	}
	if err := h.services.Users.Provision(c.Request.Context(), actor, user, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
