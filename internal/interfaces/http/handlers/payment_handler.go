package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/interfaces/http/response"
	"promatch.backend/pkg/logger"
)

// PaymentService is the payment surface used by PaymentHandler
type PaymentService interface {
	ConnectURL(userID uuid.UUID) string
	ConnectedRedirect() string
	FailedRedirect() string
	CompleteOAuth(ctx context.Context, code, state string) error
	Status(ctx context.Context, userID uuid.UUID) (entities.PaymentAccountStatus, error)
	CreateCheckout(ctx context.Context, studentID, teacherID uuid.UUID) (*entities.Checkout, error)
	HandleNotification(ctx context.Context, n *entities.PaymentNotification) (*entities.Payment, error)
}

// PaymentHandler handles seller onboarding, checkout and processor notifications
type PaymentHandler struct {
	payments PaymentService
}

func NewPaymentHandler(payments PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Connect returns the processor authorization URL
// GET /api/v1/payments/connect
func (h *PaymentHandler) Connect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": h.payments.ConnectURL(userID)})
}

// OAuthCallback finishes the authorization and sends the browser back to the frontend
// GET /api/v1/payments/oauth/callback
func (h *PaymentHandler) OAuthCallback(c *gin.Context) {
	if err := h.payments.CompleteOAuth(c.Request.Context(), c.Query("code"), c.Query("state")); err != nil {
		logger.Warn(c.Request.Context(), "Payment account connection failed", zap.Error(err))
		c.Redirect(http.StatusFound, h.payments.FailedRedirect())
		return
	}
	c.Redirect(http.StatusFound, h.payments.ConnectedRedirect())
}

// Status reports the authenticated user's payment account
// GET /api/v1/payments/status
func (h *PaymentHandler) Status(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	status, err := h.payments.Status(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, status)
}

// Checkout opens a checkout for a class with a teacher
// POST /api/v1/payments/checkout/:teacherId
func (h *PaymentHandler) Checkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	teacherID, ok := uuidParam(c, "teacherId")
	if !ok {
		return
	}

	checkout, err := h.payments.CreateCheckout(c.Request.Context(), userID, teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, checkout)
}

// Webhook records the payment a processor notification refers to
// POST /api/v1/payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var n entities.PaymentNotification
	if !bindJSON(c, &n) {
		return
	}

	payment, err := h.payments.HandleNotification(c.Request.Context(), &n)
	if err != nil {
		response.Error(c, err)
		return
	}
	if payment == nil {
		response.Success(c, http.StatusOK, gin.H{"received": true})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true, "paymentId": payment.ID})
}
