package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	svc VotingService
}

func NewVoucherHandler(svc VotingService) *VoucherHandler {
	return &VoucherHandler{svc: svc}
}

// GetVoucher returns a voucher by its code, or null when there is none
func (h *VoucherHandler) GetVoucher(c *gin.Context) {
	code, ok := intParam(c, "code", c.Param("code"))
	if !ok {
		return
	}

	voucher, err := h.svc.Voucher(c.Request.Context(), code)
	if err != nil {
		abortWithError(c, err, "Failed to fetch voucher")
		return
	}
	if voucher == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, voucher)
}

// EchoVote returns the submitted code and project id without touching storage
func (h *VoucherHandler) EchoVote(c *gin.Context) {
	code, ok := intParam(c, "code", c.Param("code"))
	if !ok {
		return
	}
	projectID, ok := intParam(c, "proj_id", c.Query("proj_id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.svc.Echo(code, projectID))
}

// Vote redeems a voucher for a project and returns the new tally
func (h *VoucherHandler) Vote(c *gin.Context) {
	code, ok := intParam(c, "voucher_code", c.Query("voucher_code"))
	if !ok {
		return
	}
	projectID, ok := intParam(c, "project_id", c.Query("project_id"))
	if !ok {
		return
	}

	res, err := h.svc.Redeem(c.Request.Context(), code, projectID)
	if err != nil {
		abortWithError(c, err, "Failed to record vote")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Vote recorded",
		"VoucherCode": res.Voucher.Code,
		"ProjectId":   res.Project.ID,
		"VoteCount":   res.Project.VoteCount,
	})
}
