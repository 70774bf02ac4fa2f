package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/coursehub-api/internal/models"
	"github.com/coursehub/coursehub-api/internal/service"
	appErrors "github.com/coursehub/coursehub-api/pkg/errors"
	"github.com/coursehub/coursehub-api/pkg/response"
)

// SignatureHeader carries the webhook HMAC signature.
const SignatureHeader = "Stripe-Signature"

// PaymentHandler exposes the hosted checkout endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Checkout godoc
// @Summary Create a checkout session for a paid course
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.CheckoutRequest true "Checkout payload"
// @Success 200 {object} response.Envelope
// @Router /payment/checkout [post]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	resp, err := h.payments.CreateCheckout(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Webhook godoc
// @Summary Receive provider payment events
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payment/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	// Signature verification needs the exact raw bytes.
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable payload"))
		return
	}

	if err := h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader(SignatureHeader)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"received": true}, nil)
}

// VerifySession godoc
// @Summary Check whether a checkout session is paid
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body models.VerifySessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Router /payment/verify-session [post]
func (h *PaymentHandler) VerifySession(c *gin.Context) {
	var req models.VerifySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	resp, err := h.payments.VerifySession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
