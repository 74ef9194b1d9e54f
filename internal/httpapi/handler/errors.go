package handler

import (
	"errors"
	"net/http"

	"cookedhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps business-rule errors to transport statuses. Anything
// unlisted is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidSetupToken),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, service.ErrNotBookingCook),
		errors.Is(err, service.ErrNotBookingCustomer):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCookNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidStatusValue),
		errors.Is(err, service.ErrInvalidRatingValue):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrBookingNotAccepted),
		errors.Is(err, service.ErrServiceAlreadyComplete),
		errors.Is(err, service.ErrServiceNotComplete),
		errors.Is(err, service.ErrPaymentAlreadyReceived),
		errors.Is(err, service.ErrPaymentNotComplete),
		errors.Is(err, service.ErrBookingNotCompleted),
		errors.Is(err, service.ErrAlreadyRated),
		errors.Is(err, service.ErrBookingFinished),
		errors.Is(err, service.ErrNoPendingProfile):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
