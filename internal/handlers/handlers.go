package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marquee/internal/cache"
	"marquee/internal/cart"
	"marquee/internal/config"
	apperrors "marquee/internal/errors"
	"marquee/internal/service"
)

type Handlers struct {
	services     *service.Services
	carts        *cart.Store
	valkeyClient *cache.ValkeyClient
	cfg          config.BookingConfig
}

func NewHandlers(services *service.Services, carts *cart.Store, valkeyClient *cache.ValkeyClient, cfg config.BookingConfig) *Handlers {
	return &Handlers{
		services:     services,
		carts:        carts,
		valkeyClient: valkeyClient,
		cfg:          cfg,
	}
}

// sessionID pulls the cart session key from the request. Carts are
// keyed by this header, independent of the authenticated user.
func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-Session-ID")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required"})
		return "", false
	}
	return id, true
}

// respondError maps domain errors onto HTTP statuses. Seat conflicts
// collapse to one 409 message; retryable failures carry a flag so
// clients know resubmitting the same request is safe.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCart),
		errors.Is(err, apperrors.ErrPaymentRefInvalid),
		errors.Is(err, apperrors.ErrUserInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrShowNotFound),
		errors.Is(err, apperrors.ErrSnackNotFound),
		errors.Is(err, apperrors.ErrOrderNotFound),
		errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrSeatNotFound.Error()})
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": apperrors.ErrSeatsUnavailable.Error()})
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsRetryable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     err.Error(),
			"retryable": true,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
