package server

import (
	"net/http"

	orderdomain "github.com/agridirect/marketplace/internal/order/domain"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) PlaceOrder(c *gin.Context) {
	var req orderdomain.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.orderSvc.Place(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "Order placed successfully", gin.H{"order": resp})
}

func (s *Server) ListConsumerOrders(c *gin.Context) {
	var query struct {
		ConsumerID string `form:"consumerId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.orderSvc.ListByConsumer(c.Request.Context(), query.ConsumerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondSuccess(c, "", gin.H{"orders": resp})
}

func (s *Server) ListFarmerOrders(c *gin.Context) {
	resp, err := s.orderSvc.ListByFarmer(c.Request.Context(), c.Param("farmerId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondSuccess(c, "", gin.H{"orders": resp})
}

func (s *Server) ExportFarmerOrders(c *gin.Context) {
	farmerID := c.Param("farmerId")
	data, err := s.orderSvc.ExportByFarmer(c.Request.Context(), farmerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="orders-`+farmerID+`.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
