package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPayment() *models.Payment {
	return &models.Payment{
		ID:        "payment-1",
		PayerID:   "buyer-1",
		ListingID: "listing-1",
		Type:      models.Fiat,
		Amount:    models.MustMoney("250000", "USD"),
		Status:    models.PaymentPending,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func TestCreatePayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store, mockClient := newTestStore(t)

		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			return *in.TableName == "payments" && *in.ConditionExpression == "attribute_not_exists(id)"
		})).Return(&dynamodb.PutItemOutput{}, nil).Once()

		assert.NoError(t, store.CreatePayment(context.Background(), testPayment()))
	})

	t.Run("Duplicate", func(t *testing.T) {
		store, mockClient := newTestStore(t)

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, conditionFailed()).Once()

		assert.ErrorIs(t, store.CreatePayment(context.Background(), testPayment()), storage.ErrAlreadyExists)
	})
}

func TestGetPayment(t *testing.T) {
	store, mockClient := newTestStore(t)
	want := testPayment()
	want.EscrowID = "escrow-1"

	mockClient.On("GetItem", mock.Anything, mock.Anything).
		Return(&dynamodb.GetItemOutput{Item: marshalItem(t, toPaymentItem(want))}, nil).Once()

	got, err := store.GetPayment(context.Background(), "payment-1")
	require.NoError(t, err)
	assert.Equal(t, "escrow-1", got.EscrowID)
	assert.Equal(t, models.Fiat, got.Type)
	assert.True(t, got.Amount.Equal(want.Amount))
}

func TestUpdatePayment(t *testing.T) {
	t.Run("Guards Unlinked Payment", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		payment := testPayment()
		payment.Status = models.PaymentFailed
		payment.FailureReason = "card declined"

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return *in.ConditionExpression == "#status = :from AND attribute_not_exists(escrow_id)" &&
				avString(in.ExpressionAttributeValues[":reason"]) == "card declined"
		})).Return(&dynamodb.UpdateItemOutput{}, nil).Once()

		assert.NoError(t, store.UpdatePayment(context.Background(), payment, models.PaymentPending))
	})

	t.Run("Links Escrow", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		payment := testPayment()
		payment.Status = models.PaymentProcessing
		payment.EscrowID = "escrow-1"

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return *in.ConditionExpression == "#status = :from AND (attribute_not_exists(escrow_id) OR escrow_id = :eid)" &&
				avString(in.ExpressionAttributeValues[":eid"]) == "escrow-1"
		})).Return(&dynamodb.UpdateItemOutput{}, nil).Once()

		assert.NoError(t, store.UpdatePayment(context.Background(), payment, models.PaymentProcessing))
	})

	t.Run("Stale Status", func(t *testing.T) {
		store, mockClient := newTestStore(t)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, conditionFailed()).Once()

		err := store.UpdatePayment(context.Background(), testPayment(), models.PaymentPending)
		assert.ErrorIs(t, err, storage.ErrConditionFailed)
	})

	t.Run("DynamoDB Error", func(t *testing.T) {
		store, mockClient := newTestStore(t)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		err := store.UpdatePayment(context.Background(), testPayment(), models.PaymentPending)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrConditionFailed)
	})
}

func TestListPaymentsByStatus(t *testing.T) {
	store, mockClient := newTestStore(t)
	processing := testPayment()
	processing.Status = models.PaymentProcessing

	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == statusUpdatedAtGSI && avString(in.ExpressionAttributeValues[":status"]) == "processing"
	})).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{marshalItem(t, toPaymentItem(processing))},
	}, nil).Once()

	payments, err := store.ListPaymentsByStatus(context.Background(), models.PaymentProcessing, testNow)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "payment-1", payments[0].ID)
}

func TestFindPaymentByExternalRef(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		processing := testPayment()
		processing.Status = models.PaymentProcessing
		processing.ExternalRef = "0xabc"

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == externalRefGSI && avString(in.ExpressionAttributeValues[":ref"]) == "0xabc"
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{marshalItem(t, toPaymentItem(processing))},
		}, nil).Once()

		payment, err := store.FindPaymentByExternalRef(context.Background(), "0xabc")
		require.NoError(t, err)
		assert.Equal(t, "payment-1", payment.ID)
	})

	t.Run("Not Found", func(t *testing.T) {
		store, mockClient := newTestStore(t)

		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil).Once()

		_, err := store.FindPaymentByExternalRef(context.Background(), "0xdef")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
