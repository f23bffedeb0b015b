package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/project-votes/internal/models"
)

// VotingService is the subset of voting.Service the HTTP layer needs.
type VotingService interface {
	Summary(ctx context.Context) ([]models.ProjectVotes, error)
	Voucher(ctx context.Context, code int64) (*models.Voucher, error)
	Echo(code, projectID int64) models.VoteEcho
	Redeem(ctx context.Context, code, projectID int64) (*models.Redemption, error)
}

// HealthChecker reports dependency health, e.g. database.Service.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Handler combines all handler types
type Handler struct {
	Project *ProjectHandler
	Voucher *VoucherHandler
	Health  *HealthHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(svc VotingService, health HealthChecker) *Handler {
	return &Handler{
		Project: NewProjectHandler(svc),
		Voucher: NewVoucherHandler(svc),
		Health:  NewHealthHandler(health),
	}
}

// intParam parses a path or query value the way the transport coerces
// integers; failures are reported as 422.
func intParam(c *gin.Context, name, raw string) (int64, bool) {
	if raw == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": name + " is required"})
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return v, true
}

// abortWithError maps domain errors onto HTTP status codes.
func abortWithError(c *gin.Context, err error, fallback string) {
	switch {
	case models.IsKind(err, models.KindNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": rootMessage(err)})
	case models.IsKind(err, models.KindConflict):
		c.JSON(http.StatusConflict, gin.H{"error": rootMessage(err)})
	case models.IsKind(err, models.KindGone):
		c.JSON(http.StatusGone, gin.H{"error": rootMessage(err)})
	default:
		slog.ErrorContext(c.Request.Context(), fallback, "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func rootMessage(err error) string {
	for _, sentinel := range []error{
		models.ErrVoucherNotFound,
		models.ErrProjectNotFound,
		models.ErrVoucherUsed,
		models.ErrVoucherExpired,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
