package server

import (
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) AddProduct(c *gin.Context) {
	ctx := c.Request.Context()
	uploads := s.newUploadBatch()

	imageRef, err := uploads.save(c, "image")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	labReportRef, err := uploads.save(c, "labReport")
	if err != nil {
		uploads.discard(ctx)
		AbortWithError(c, err)
		return
	}

	resp, err := s.productSvc.Create(ctx, productdomain.CreateRequest{
		FarmerID:         c.Param("farmerId"),
		Name:             c.PostForm("name"),
		Category:         c.PostForm("category"),
		Price:            c.PostForm("price"),
		Quantity:         c.PostForm("quantity"),
		Location:         c.PostForm("location"),
		HarvestDate:      c.PostForm("harvestDate"),
		Moisture:         c.PostForm("moisture"),
		Protein:          c.PostForm("protein"),
		PesticideResidue: c.PostForm("pesticideResidue"),
		SoilPH:           c.PostForm("soilPH"),
		ImageRef:         imageRef,
		LabReportRef:     labReportRef,
	})
	if err != nil {
		uploads.discard(ctx)
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "Product added successfully", gin.H{"product": resp})
}

func (s *Server) ListFarmerProducts(c *gin.Context) {
	resp, err := s.productSvc.ListByFarmer(c.Request.Context(), c.Param("farmerId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondSuccess(c, "", gin.H{"products": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	resp, err := s.productSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondSuccess(c, "", gin.H{"products": resp})
}

// UpdateProduct only touches the form fields present in the request.
func (s *Server) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	uploads := s.newUploadBatch()

	req := productdomain.UpdateRequest{
		ID:               c.Param("id"),
		Name:             postFormPtr(c, "name"),
		Category:         postFormPtr(c, "category"),
		Price:            postFormPtr(c, "price"),
		Quantity:         postFormPtr(c, "quantity"),
		Location:         postFormPtr(c, "location"),
		HarvestDate:      postFormPtr(c, "harvestDate"),
		Moisture:         postFormPtr(c, "moisture"),
		Protein:          postFormPtr(c, "protein"),
		PesticideResidue: postFormPtr(c, "pesticideResidue"),
		SoilPH:           postFormPtr(c, "soilPH"),
	}

	for field, target := range map[string]**string{
		"image":     &req.ImageRef,
		"labReport": &req.LabReportRef,
	} {
		ref, err := uploads.save(c, field)
		if err != nil {
			uploads.discard(ctx)
			AbortWithError(c, err)
			return
		}
		if ref != "" {
			*target = &ref
		}
	}

	resp, err := s.productSvc.Update(ctx, req)
	if err != nil {
		uploads.discard(ctx)
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "Product updated successfully", gin.H{"product": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.productSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondSuccess(c, "Product deleted successfully", nil)
}

func postFormPtr(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &value
}
