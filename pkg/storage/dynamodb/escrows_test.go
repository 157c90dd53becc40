package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testEscrow() *models.Escrow {
	return &models.Escrow{
		ID:        models.EscrowIDForPayment("payment-1"),
		PaymentID: "payment-1",
		ListingID: "listing-1",
		BuyerID:   "buyer-1",
		SellerID:  "seller-1",
		Amount:    models.MustMoney("250000", "USD"),
		Status:    models.EscrowActive,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func TestCreateEscrow(t *testing.T) {
	store, mockClient := newTestStore(t)

	mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return *in.TableName == "escrows" && avString(in.Item["payment_id"]) == "payment-1"
	})).Return(&dynamodb.PutItemOutput{}, nil).Once()
	mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, conditionFailed()).Once()

	assert.NoError(t, store.CreateEscrow(context.Background(), testEscrow()))

	second := testEscrow()
	second.PaymentID = "payment-1-retry"
	assert.ErrorIs(t, store.CreateEscrow(context.Background(), second), storage.ErrAlreadyExists)
}

func TestGetEscrow(t *testing.T) {
	store, mockClient := newTestStore(t)
	want := testEscrow()
	want.Status = models.EscrowDisputed
	want.DisputeReason = "title_defect"

	mockClient.On("GetItem", mock.Anything, mock.Anything).
		Return(&dynamodb.GetItemOutput{Item: marshalItem(t, toEscrowItem(want))}, nil).Once()
	mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

	got, err := store.GetEscrow(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EscrowDisputed, got.Status)
	assert.Equal(t, "title_defect", got.DisputeReason)

	_, err = store.GetEscrow(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateEscrow(t *testing.T) {
	t.Run("Release From Either Open Status", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		escrow := testEscrow()
		escrow.Status = models.EscrowReleased
		escrow.ReleaseProof = "deed-123"
		releasedAt := testNow
		escrow.ReleasedAt = &releasedAt

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return *in.ConditionExpression == "#status IN (:from0, :from1)" &&
				avString(in.ExpressionAttributeValues[":from0"]) == "active" &&
				avString(in.ExpressionAttributeValues[":from1"]) == "disputed" &&
				avString(in.ExpressionAttributeValues[":proof"]) == "deed-123"
		})).Return(&dynamodb.UpdateItemOutput{}, nil).Once()

		err := store.UpdateEscrow(context.Background(), escrow, models.EscrowActive, models.EscrowDisputed)
		assert.NoError(t, err)
	})

	t.Run("Already Released", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		escrow := testEscrow()
		escrow.Status = models.EscrowDisputed

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, conditionFailed()).Once()

		err := store.UpdateEscrow(context.Background(), escrow, models.EscrowActive)
		assert.ErrorIs(t, err, storage.ErrConditionFailed)
	})

	t.Run("No Expected Status", func(t *testing.T) {
		store, _ := newTestStore(t)

		err := store.UpdateEscrow(context.Background(), testEscrow())
		assert.Error(t, err)
	})
}
