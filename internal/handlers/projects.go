package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	svc VotingService
}

func NewProjectHandler(svc VotingService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// GetVotesSummary returns every project with its vote count
func (h *ProjectHandler) GetVotesSummary(c *gin.Context) {
	votes, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		abortWithError(c, err, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, votes)
}
