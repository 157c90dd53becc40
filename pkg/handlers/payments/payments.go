package payments

import (
	"context"
	"net/http"

	"github.com/chris/property-settlement/pkg/api"
	"github.com/chris/property-settlement/pkg/handlers/respond"
	"github.com/chris/property-settlement/pkg/mapping"
	"github.com/chris/property-settlement/pkg/models"
	paymentsvc "github.com/chris/property-settlement/pkg/payments"
)

//go:generate mockery --name Service --output ./mocks --outpkg mocks

// Service is the payment orchestrator as seen by the HTTP layer.
type Service interface {
	Initiate(ctx context.Context, in paymentsvc.InitiateInput) (*models.Payment, error)
	Get(ctx context.Context, paymentID string) (*models.Payment, error)
	MarkProcessing(ctx context.Context, paymentID, actor, externalRef string) (*models.Payment, error)
	Submit(ctx context.Context, paymentID, actor, evidence string) (*models.Payment, error)
	MarkFailed(ctx context.Context, paymentID, reason string) (*models.Payment, error)
	Refund(ctx context.Context, paymentID, reason string) (*models.Payment, error)
}

// PaymentsHandler holds the dependencies for payment-related handlers.
type PaymentsHandler struct {
	Service Service
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(service Service) *PaymentsHandler {
	return &PaymentsHandler{Service: service}
}

// InitiatePayment creates a pending payment on behalf of the acting buyer.
func (h *PaymentsHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	var newPayment api.NewPayment
	if !respond.Decode(w, r, &newPayment, false) {
		return
	}
	in, err := mapping.ToDomainNewPayment(&newPayment, actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	payment, err := h.Service.Initiate(r.Context(), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiPayment(payment))
}

// GetPayment returns a payment to its payer.
func (h *PaymentsHandler) GetPayment(w http.ResponseWriter, r *http.Request, paymentId api.PaymentId) {
	payment, ok := h.payerOnly(w, r, paymentId)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiPayment(payment))
}

// MarkPaymentProcessing starts settlement with an external reference the payer
// already holds.
func (h *PaymentsHandler) MarkPaymentProcessing(w http.ResponseWriter, r *http.Request, paymentId api.PaymentId) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	var req api.ProcessingRequest
	if !respond.Decode(w, r, &req, true) {
		return
	}
	var ref string
	if req.ExternalRef != nil {
		ref = *req.ExternalRef
	}

	payment, err := h.Service.MarkProcessing(r.Context(), paymentId.String(), actor, ref)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiPayment(payment))
}

// SubmitPayment verifies settlement evidence and starts settlement.
func (h *PaymentsHandler) SubmitPayment(w http.ResponseWriter, r *http.Request, paymentId api.PaymentId) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	var req api.SubmitRequest
	if !respond.Decode(w, r, &req, false) {
		return
	}

	payment, err := h.Service.Submit(r.Context(), paymentId.String(), actor, req.Evidence)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiPayment(payment))
}

// FailPayment abandons the acting payer's payment.
func (h *PaymentsHandler) FailPayment(w http.ResponseWriter, r *http.Request, paymentId api.PaymentId) {
	if _, ok := h.payerOnly(w, r, paymentId); !ok {
		return
	}
	var req api.ReasonRequest
	if !respond.Decode(w, r, &req, true) {
		return
	}

	payment, err := h.Service.MarkFailed(r.Context(), paymentId.String(), reason(req))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiPayment(payment))
}

// RefundPayment reverses a completed payment. The route is internal and expected
// to be restricted at the gateway.
func (h *PaymentsHandler) RefundPayment(w http.ResponseWriter, r *http.Request, paymentId api.PaymentId) {
	var req api.ReasonRequest
	if !respond.Decode(w, r, &req, true) {
		return
	}

	payment, err := h.Service.Refund(r.Context(), paymentId.String(), reason(req))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiPayment(payment))
}

func (h *PaymentsHandler) payerOnly(w http.ResponseWriter, r *http.Request, paymentId api.PaymentId) (*models.Payment, bool) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return nil, false
	}
	payment, err := h.Service.Get(r.Context(), paymentId.String())
	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}
	if payment.PayerID != actor {
		respond.Error(w, r, models.AuthorizationError("payment", payment.ID, actor))
		return nil, false
	}
	return payment, true
}

func reason(req api.ReasonRequest) string {
	if req.Reason == nil {
		return ""
	}
	return *req.Reason
}
