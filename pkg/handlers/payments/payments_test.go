package payments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/property-settlement/pkg/api"
	"github.com/chris/property-settlement/pkg/handlers/payments/mocks"
	"github.com/chris/property-settlement/pkg/middleware"
	"github.com/chris/property-settlement/pkg/models"
	paymentsvc "github.com/chris/property-settlement/pkg/payments"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPayment(id uuid.UUID, status models.PaymentStatus) *models.Payment {
	return &models.Payment{
		ID:        id.String(),
		PayerID:   "buyer-1",
		ListingID: uuid.NewString(),
		Type:      models.Fiat,
		Amount:    models.MustMoney("250000", "USD"),
		Status:    status,
	}
}

func asActor(req *http.Request, actor string) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), actor))
}

func TestInitiatePayment(t *testing.T) {
	listingID := uuid.New()
	body, _ := json.Marshal(api.NewPayment{
		ListingId: listingID,
		Amount:    api.Money{Amount: "250000", Currency: "usd"},
		Method:    api.NewPaymentMethodFiat,
	})

	t.Run("Success", func(t *testing.T) {
		// Arrange
		id := uuid.New()
		svc := mocks.NewService(t)
		svc.On("Initiate", mock.Anything, mock.MatchedBy(func(in paymentsvc.InitiateInput) bool {
			return in.ListingID == listingID.String() && in.PayerID == "buyer-1" && in.Method == models.Fiat
		})).Return(testPayment(id, models.PaymentPending), nil)
		h := NewPaymentsHandler(svc)

		// Act
		rr := httptest.NewRecorder()
		h.InitiatePayment(rr, asActor(httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body)), "buyer-1"))

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		var got api.Payment
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, id, got.Id)
		assert.Equal(t, api.Pending, got.Status)
	})

	t.Run("Auction Not Won", func(t *testing.T) {
		svc := mocks.NewService(t)
		svc.On("Initiate", mock.Anything, mock.Anything).
			Return(nil, models.AuthorizationError("payment", listingID.String(), "buyer-1"))
		h := NewPaymentsHandler(svc)

		rr := httptest.NewRecorder()
		h.InitiatePayment(rr, asActor(httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body)), "buyer-1"))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Malformed Amount", func(t *testing.T) {
		bad, _ := json.Marshal(api.NewPayment{ListingId: listingID, Amount: api.Money{Amount: "a lot", Currency: "USD"}, Method: api.NewPaymentMethodFiat})
		svc := mocks.NewService(t)
		h := NewPaymentsHandler(svc)

		rr := httptest.NewRecorder()
		h.InitiatePayment(rr, asActor(httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(bad)), "buyer-1"))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestGetPayment(t *testing.T) {
	id := uuid.New()

	t.Run("Payer", func(t *testing.T) {
		svc := mocks.NewService(t)
		svc.On("Get", mock.Anything, id.String()).Return(testPayment(id, models.PaymentProcessing), nil)
		h := NewPaymentsHandler(svc)

		rr := httptest.NewRecorder()
		h.GetPayment(rr, asActor(httptest.NewRequest(http.MethodGet, "/", nil), "buyer-1"), id)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Someone Else", func(t *testing.T) {
		svc := mocks.NewService(t)
		svc.On("Get", mock.Anything, id.String()).Return(testPayment(id, models.PaymentProcessing), nil)
		h := NewPaymentsHandler(svc)

		rr := httptest.NewRecorder()
		h.GetPayment(rr, asActor(httptest.NewRequest(http.MethodGet, "/", nil), "seller-1"), id)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		svc := mocks.NewService(t)
		svc.On("Get", mock.Anything, id.String()).Return(nil, models.NotFoundError("payment", id.String()))
		h := NewPaymentsHandler(svc)

		rr := httptest.NewRecorder()
		h.GetPayment(rr, asActor(httptest.NewRequest(http.MethodGet, "/", nil), "buyer-1"), id)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSubmitPayment(t *testing.T) {
	id := uuid.New()
	body, _ := json.Marshal(api.SubmitRequest{Evidence: "0xabc"})

	t.Run("Rejected Evidence", func(t *testing.T) {
		rejected := models.ValidationError("payment", "settlement evidence rejected")
		rejected.ID = id.String()
		rejected.Status = string(models.PaymentFailed)
		svc := mocks.NewService(t)
		svc.On("Submit", mock.Anything, id.String(), "buyer-1", "0xabc").Return(nil, rejected)
		h := NewPaymentsHandler(svc)

		rr := httptest.NewRecorder()
		h.SubmitPayment(rr, asActor(httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)), "buyer-1"), id)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Missing Body", func(t *testing.T) {
		svc := mocks.NewService(t)
		h := NewPaymentsHandler(svc)

		rr := httptest.NewRecorder()
		h.SubmitPayment(rr, asActor(httptest.NewRequest(http.MethodPost, "/", nil), "buyer-1"), id)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestFailPayment(t *testing.T) {
	id := uuid.New()
	reason := "buyer withdrew"
	body, _ := json.Marshal(api.ReasonRequest{Reason: &reason})

	svc := mocks.NewService(t)
	svc.On("Get", mock.Anything, id.String()).Return(testPayment(id, models.PaymentPending), nil)
	svc.On("MarkFailed", mock.Anything, id.String(), reason).Return(testPayment(id, models.PaymentFailed), nil)
	h := NewPaymentsHandler(svc)

	rr := httptest.NewRecorder()
	h.FailPayment(rr, asActor(httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)), "buyer-1"), id)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"failed"`)
}

func TestRefundPayment(t *testing.T) {
	id := uuid.New()

	svc := mocks.NewService(t)
	svc.On("Refund", mock.Anything, id.String(), "").
		Return(nil, models.InvalidStateError("payment", id.String(), "processing", "only completed payments can be refunded"))
	h := NewPaymentsHandler(svc)

	rr := httptest.NewRecorder()
	h.RefundPayment(rr, httptest.NewRequest(http.MethodPost, "/", nil), id)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"processing"`)
}
