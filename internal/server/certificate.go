package server

import (
	"errors"
	"net/http"

	"github.com/agridirect/marketplace/internal/certificate"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"github.com/gin-gonic/gin"
)

const productNotFoundMessage = "Product not found"

// ViewCertificate is the page a scanned code opens. Unknown products get
// the not found page with 404.
func (s *Server) ViewCertificate(c *gin.Context) {
	page, err := s.certificates.HTML(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, certificate.ErrNotFound) && page != "" {
			c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(page))
			return
		}
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) DownloadCertificate(c *gin.Context) {
	id := c.Param("id")
	data, err := s.certificates.PDF(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, certificate.ErrNotFound) {
			abortNotFound(c, productNotFoundMessage)
			return
		}
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+id+`-certificate.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// GetAttestationImage serves the code image, issuing it first when the
// product has none yet.
func (s *Server) GetAttestationImage(c *gin.Context) {
	data, err := s.attestations.Image(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, productdomain.ErrNotFound) {
			abortNotFound(c, productNotFoundMessage)
			return
		}
		AbortWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) ReissueAttestation(c *gin.Context) {
	product, err := s.attestations.IssueByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondSuccess(c, "Attestation code issued", gin.H{
		"productId":         product.ID.String(),
		"attestationCode":   product.AttestationCode,
		"attestationStatus": product.AttestationStatus,
		"url":               s.attestations.URLFor(product.ID),
	})
}

func abortNotFound(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
		"status":  statusError,
		"message": message,
	})
}
