package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mhnazary/school-managment-system/internal/ledger"
	"github.com/mhnazary/school-managment-system/internal/period"
)

// respondError maps the ledger/period error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is a storage failure and stays opaque to the
// client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrDuplicatePeriod),
		errors.Is(err, period.ErrMalformedKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
