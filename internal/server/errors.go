package server

import (
	"errors"
	"net/http"
	"strings"

	authdomain "github.com/agridirect/marketplace/internal/auth/domain"
	"github.com/agridirect/marketplace/internal/certificate"
	consumerdomain "github.com/agridirect/marketplace/internal/consumer/domain"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	orderdomain "github.com/agridirect/marketplace/internal/order/domain"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"github.com/agridirect/marketplace/internal/storage"
	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	serverErrorMessage = "Server error"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrMissingUpload  = errors.New("missing_upload")
)

// errorRule maps a sentinel to the message shown to clients. When detail is
// set, the text after the sentinel's own wrap prefix is appended.
type errorRule struct {
	err     error
	message string
	detail  bool
}

var errorRules = []errorRule{
	{err: ErrInvalidRequest, message: "Invalid request"},
	{err: ErrMissingUpload, message: "Please upload the required file"},
	{err: storage.ErrInvalidName, message: "Invalid file name"},

	{err: authdomain.ErrInvalidCredentials, message: "Invalid email or password"},
	{err: authdomain.ErrUnknownKind, message: "Invalid request"},

	{err: farmerdomain.ErrValidation, message: "Invalid farmer details", detail: true},
	{err: farmerdomain.ErrDuplicateEmail, message: "Email already registered"},
	{err: farmerdomain.ErrInvalidCredentials, message: "Invalid email or password"},
	{err: farmerdomain.ErrNotFound, message: "Farmer not found"},
	{err: farmerdomain.ErrInvalidStatus, message: "Invalid verification status"},

	{err: consumerdomain.ErrValidation, message: "Invalid consumer details", detail: true},
	{err: consumerdomain.ErrDuplicateEmail, message: "Email already registered"},
	{err: consumerdomain.ErrInvalidCredentials, message: "Invalid email or password"},
	{err: consumerdomain.ErrNotFound, message: "Consumer not found"},

	{err: productdomain.ErrInvalidOwner, message: "Invalid farmer ID"},
	{err: productdomain.ErrUnverifiedOwner, message: "Farmer is not verified yet"},
	{err: productdomain.ErrMissingImage, message: "Product image is required"},
	{err: productdomain.ErrInvalidNumeric, message: "Invalid number", detail: true},
	{err: productdomain.ErrValidation, message: "Invalid product details", detail: true},
	{err: productdomain.ErrNotFound, message: "Product not found"},
	{err: productdomain.ErrDuplicateAttestation, message: "Attestation code already assigned"},
	{err: productdomain.ErrEncoding, message: "Could not generate QR code"},
	{err: productdomain.ErrStorage, message: "Could not store QR code"},
	{err: certificate.ErrNotFound, message: "Product not found"},

	{err: orderdomain.ErrValidation, message: "Invalid order details", detail: true},
	{err: orderdomain.ErrInvalidQuantity, message: "Quantity must be greater than zero"},
	{err: orderdomain.ErrProductNotFound, message: "Product not found"},
	{err: orderdomain.ErrConsumerNotFound, message: "Consumer not found"},
	{err: orderdomain.ErrTotalMismatch, message: "Order total does not match the current price", detail: true},
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, gin.H{
			"status":  statusError,
			"message": message,
		})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError answers business errors with 200 and a readable message; anything
// unclassified becomes a 500.
func mapError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, serverErrorMessage
	}
	for _, rule := range errorRules {
		if !errors.Is(err, rule.err) {
			continue
		}
		if rule.detail {
			if detail := errorDetail(err, rule.err); detail != "" {
				return http.StatusOK, rule.message + ": " + detail
			}
		}
		return http.StatusOK, rule.message
	}
	return http.StatusInternalServerError, serverErrorMessage
}

func errorDetail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		return strings.TrimSpace(msg[idx+len(prefix):])
	}
	return ""
}

func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	if status == http.StatusInternalServerError {
		return "internal_error", "server_error"
	}
	for _, rule := range errorRules {
		if errors.Is(err, rule.err) {
			return "business_error", rule.err.Error()
		}
	}
	return "business_error", ""
}

func respondSuccess(c *gin.Context, message string, payload gin.H) {
	body := gin.H{"status": statusSuccess}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
