package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSettlement(withBid bool) storage.Settlement {
	listing := testListing()
	listing.SettlementPaymentID = "payment-1"
	payment := testPayment()
	payment.Status = models.PaymentProcessing
	payment.EscrowID = models.EscrowIDForPayment("payment-1")
	s := storage.Settlement{
		EscrowID: payment.EscrowID,
		Payment:  payment,
		Listing:  listing,
		At:       testNow,
	}
	if withBid {
		listing.Kind = models.Auction
		payment.BidID = "bid-1"
		s.Bid = testBid("bid-1", "250000", models.BidActive, testNow)
	}
	return s
}

func TestSettleSale(t *testing.T) {
	t.Run("Fixed Price", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		settlement := testSettlement(false)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			payment := in.TransactItems[0].Update
			listing := in.TransactItems[1].Update
			claim := in.TransactItems[2].Delete
			return *payment.TableName == "payments" &&
				avString(payment.ExpressionAttributeValues[":eid"]) == settlement.EscrowID &&
				*listing.ConditionExpression == "#status = :active AND settlement_payment_id = :pid" &&
				avString(listing.ExpressionAttributeValues[":pid"]) == "payment-1" &&
				*claim.TableName == "active_listings"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		require.NoError(t, store.SettleSale(context.Background(), settlement))
		assert.Equal(t, models.PaymentCompleted, settlement.Payment.Status)
		assert.Equal(t, models.ListingSold, settlement.Listing.Status)
		assert.Equal(t, "payment-1", settlement.Listing.SoldPaymentID)
		assert.Empty(t, settlement.Listing.SettlementPaymentID)
	})

	t.Run("Auction Marks Bid Won", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		settlement := testSettlement(true)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 4 &&
				avString(in.TransactItems[3].Update.Key["id"]) == "bid-1" &&
				avString(in.TransactItems[3].Update.ExpressionAttributeValues[":won"]) == "won"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		require.NoError(t, store.SettleSale(context.Background(), settlement))
		assert.Equal(t, models.BidWon, settlement.Bid.Status)
	})

	t.Run("Payment Guard Fails", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		settlement := testSettlement(false)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, transactionCanceled("ConditionalCheckFailed", "None", "None")).Once()

		err := store.SettleSale(context.Background(), settlement)
		assert.ErrorIs(t, err, storage.ErrConditionFailed)
		assert.Contains(t, err.Error(), "is not processing under escrow")
		assert.Equal(t, models.PaymentProcessing, settlement.Payment.Status)
	})

	t.Run("Transaction Fails", func(t *testing.T) {
		store, mockClient := newTestStore(t)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, errors.New("transaction failed")).Once()

		err := store.SettleSale(context.Background(), testSettlement(false))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute settle sale transaction")
	})
}
