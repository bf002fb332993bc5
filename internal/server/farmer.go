package server

import (
	"strings"

	authdomain "github.com/agridirect/marketplace/internal/auth/domain"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	"github.com/gin-gonic/gin"
)

type registerFarmerRequest struct {
	Name        string `form:"name" json:"name"`
	FarmName    string `form:"farmName" json:"farmName"`
	Location    string `form:"location" json:"location"`
	Mobile      string `form:"mobile" json:"mobile"`
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
	Experience  string `form:"experience" json:"experience"`
	FarmingType string `form:"farmingType" json:"farmingType"`
	Aadhaar     string `form:"aadhaar" json:"aadhaar"`
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (s *Server) RegisterFarmer(c *gin.Context) {
	var req registerFarmerRequest
	if err := c.ShouldBind(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx := c.Request.Context()
	uploads := s.newUploadBatch()
	docs := farmerdomain.Documents{AadhaarNumber: strings.TrimSpace(req.Aadhaar)}
	for _, field := range farmerdomain.DocumentFields {
		ref, err := uploads.save(c, field)
		if err != nil {
			uploads.discard(ctx)
			AbortWithError(c, err)
			return
		}
		docs.Set(field, ref)
	}

	resp, err := s.farmerSvc.Register(ctx, farmerdomain.RegisterRequest{
		Name:        req.Name,
		FarmName:    req.FarmName,
		Location:    req.Location,
		Mobile:      req.Mobile,
		Email:       req.Email,
		Password:    req.Password,
		Experience:  req.Experience,
		FarmingType: req.FarmingType,
		Documents:   docs,
	})
	if err != nil {
		uploads.discard(ctx)
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "Farmer registered successfully. Verification pending.", gin.H{
		"farmerId": resp.ID,
		"farmer":   resp,
	})
}

func (s *Server) LoginFarmer(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	identity, err := s.authsvc.Authenticate(c.Request.Context(), authdomain.KindFarmer, req.Email, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "Login successful", gin.H{
		"farmerId":           identity.ID,
		"name":               identity.Name,
		"email":              identity.Email,
		"verificationStatus": identity.VerificationStatus,
	})
}
