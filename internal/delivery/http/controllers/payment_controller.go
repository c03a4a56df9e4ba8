package controllers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	h "volunteerhub/internal/delivery/http/helpers"
	"volunteerhub/internal/domain"
)

// webhookBodyLimit caps webhook payload size. Gateway webhook bodies are
// small JSON documents; anything larger is rejected.
const webhookBodyLimit = 1 << 20

// CreateOrderRequest is the request body for POST /payments/orders
type CreateOrderRequest struct {
	AnnouncementID string `json:"announcement_id"`
}

// Validate implements Validator.
func (c CreateOrderRequest) Validate() []string {
	if !uuidRegex.MatchString(c.AnnouncementID) {
		return []string{"announcement_id must be a valid UUID"}
	}
	return nil
}

// VerifyPaymentRequest is the request body for POST /payments/verify. The
// three fields come straight from the gateway's checkout callback.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// Validate implements Validator.
func (v VerifyPaymentRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(v.OrderID) == "" {
		errs = append(errs, "order_id is required")
	}
	if strings.TrimSpace(v.PaymentID) == "" {
		errs = append(errs, "payment_id is required")
	}
	if strings.TrimSpace(v.Signature) == "" {
		errs = append(errs, "signature is required")
	}
	return errs
}

// PaymentStatusResponse is the response body for GET /payments/status/{announcementID}
type PaymentStatusResponse struct {
	Paid bool `json:"paid"`
}

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateOrder godoc
// @Summary Create a payment order
// @Description Creates a gateway order for the payment announcement and returns what the client needs to open checkout. Participants only; paying twice is rejected.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateOrderRequest true "Payment announcement"
// @Success 201 {object} helpers.APIResponse "data contains order_id, amount, currency, and key_id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/orders [post]
func (c *PaymentController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	order, err := c.Service.CreateOrder(r.Context(), req.AnnouncementID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, order)
}

// VerifyPayment godoc
// @Summary Verify a checkout payment
// @Description Checks the checkout callback signature and marks the payment paid. A forged signature leaves the record untouched.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyPaymentRequest true "Checkout callback fields"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/verify [post]
func (c *PaymentController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	if err := c.Service.VerifyPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "payment verified"})
}

// Webhook godoc
// @Summary Gateway webhook
// @Description Receives payment events from the gateway. The body is verified against the X-Razorpay-Signature header; events other than payment.captured are acknowledged and ignored. Unauthenticated: the gateway is the caller.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Razorpay-Signature header string true "Webhook signature"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/webhook [post]
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "unreadable body")
		return
	}
	signature := r.Header.Get("X-Razorpay-Signature")
	if err := c.Service.HandleWebhook(r.Context(), body, signature); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "ok"})
}

// PaymentStatus godoc
// @Summary Get the caller's payment status
// @Description Reports whether the caller holds a paid record for the payment announcement.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param announcementID path string true "Payment announcement ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains paid"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/status/{announcementID} [get]
func (c *PaymentController) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	announcementID := r.PathValue("announcementID")
	if !uuidRegex.MatchString(announcementID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid announcementID")
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	paid, err := c.Service.HasPaid(r.Context(), announcementID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, PaymentStatusResponse{Paid: paid})
}
