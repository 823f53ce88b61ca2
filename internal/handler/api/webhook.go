package api

import (
	"errors"
	"net/http"

	"ticket-booking/internal/infra/provider"
	"ticket-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const (
	headerWebhookSignature = "x-webhook-signature"
	headerWebhookTimestamp = "x-webhook-timestamp"
)

type WebhookHandler struct {
	payments commands.PaymentCommands
}

func NewWebhookHandler(payments commands.PaymentCommands) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

// @Summary Payment provider webhook
// @Description Receive a payment status notification and reconcile the booking
// @Tags payments
// @Accept json
// @Produce json
// @Param provider path string true "Payment provider name"
// @Param x-webhook-signature header string true "HMAC signature of the raw body"
// @Param x-webhook-timestamp header string true "Signature timestamp"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/{provider}/webhook [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	providerName := c.Param("provider")
	signature := c.GetHeader(headerWebhookSignature)
	timestamp := c.GetHeader(headerWebhookTimestamp)

	// Signature covers the raw bytes, so no binding before verification.
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	result, err := h.payments.HandleNotification(c.Request.Context(), providerName, body, signature, timestamp)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrUnknownProvider):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Unknown payment provider",
			})
		case errors.Is(err, commands.ErrInvalidSignature):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid signature",
			})
		case errors.Is(err, provider.ErrMalformedPayload):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Malformed payload",
			})
		case errors.Is(err, commands.ErrUnknownNotificationType):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown notification type",
			})
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		default:
			// 5xx makes a sane provider retry the delivery
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outcome":        string(result.Outcome),
		"booking_status": string(result.Status),
	})
}
