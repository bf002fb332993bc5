package server

import (
	authdomain "github.com/agridirect/marketplace/internal/auth/domain"
	consumerdomain "github.com/agridirect/marketplace/internal/consumer/domain"
	"github.com/gin-gonic/gin"
)

type registerConsumerRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Mobile   string `form:"mobile" json:"mobile"`
	Password string `form:"password" json:"password"`
}

func (s *Server) RegisterConsumer(c *gin.Context) {
	var req registerConsumerRequest
	if err := c.ShouldBind(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.consumerSvc.Register(c.Request.Context(), consumerdomain.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "Consumer registered successfully", gin.H{
		"consumerId": resp.ID,
		"consumer":   resp,
	})
}

func (s *Server) LoginConsumer(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	identity, err := s.authsvc.Authenticate(c.Request.Context(), authdomain.KindConsumer, req.Email, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "Login successful", gin.H{
		"consumerId": identity.ID,
		"name":       identity.Name,
		"email":      identity.Email,
	})
}

func (s *Server) CheckConsumerEmail(c *gin.Context) {
	var req struct {
		Email string `form:"email" json:"email"`
	}
	if err := c.ShouldBind(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	exists, err := s.consumerSvc.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "", gin.H{"exists": exists})
}
