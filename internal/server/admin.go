package server

import (
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	"github.com/gin-gonic/gin"
)

type verifyFarmerRequest struct {
	Status     string `form:"status" json:"status"`
	AdminNotes string `form:"adminNotes" json:"adminNotes"`
}

func (s *Server) VerifyFarmer(c *gin.Context) {
	var req verifyFarmerRequest
	if err := c.ShouldBind(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.farmerSvc.SetVerification(c.Request.Context(), farmerdomain.SetVerificationRequest{
		FarmerID: c.Param("id"),
		Status:   req.Status,
		Notes:    req.AdminNotes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	message := "Farmer verified successfully"
	if resp.VerificationStatus == farmerdomain.StatusRejected {
		message = "Farmer rejected successfully"
	}
	respondSuccess(c, message, gin.H{"farmer": resp})
}

func (s *Server) ListFarmers(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.farmerSvc.List(c.Request.Context(), farmerdomain.ListRequest{
		Status: farmerdomain.VerificationStatus(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "", gin.H{"farmers": resp})
}
