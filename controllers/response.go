package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaximeWq/challenge-mobilite-app/services"
)

// Every JSON reply uses the {status, data, meta} envelope.

func respondSuccess(c *gin.Context, code int, data any, meta any) {
	c.JSON(code, gin.H{
		"status": "success",
		"data":   data,
		"meta":   meta,
	})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"status":  "error",
		"message": message,
	})
}

// respondServiceError maps business errors to their HTTP status. Anything
// outside the taxonomy is an unexpected storage failure.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrDuplicateDailyRecord),
		errors.Is(err, services.ErrFutureDate),
		errors.Is(err, services.ErrEditWindowExpired),
		errors.Is(err, services.ErrLastAdminDeletion):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAccessDenied):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(c, http.StatusInternalServerError, "erreur interne du serveur")
	}
}

func principalFromCtx(c *gin.Context) (services.Principal, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return services.Principal{}, false
	}
	userID, ok := v.(uint)
	if !ok {
		return services.Principal{}, false
	}
	isAdmin, _ := c.Get("isAdmin")
	admin, _ := isAdmin.(bool)
	return services.Principal{UserID: userID, IsAdmin: admin}, true
}
