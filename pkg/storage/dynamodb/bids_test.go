package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testBid(id, amount string, status models.BidStatus, at time.Time) *models.Bid {
	return &models.Bid{
		ID:        id,
		ListingID: "listing-1",
		BidderID:  "bidder-" + id,
		Amount:    models.MustMoney(amount, "USD"),
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestGetActiveBids(t *testing.T) {
	t.Run("Merges Bid Missing From Index", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		older := testBid("bid-1", "100", models.BidActive, testNow)
		latest := testBid("bid-2", "150", models.BidActive, testNow.Add(time.Minute))

		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "listings"
		})).Return(&dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{"high_bid_id": stringAV("bid-2")}}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == bidsByListingGSI
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{marshalItem(t, toBidItem(older))},
		}, nil).Once()
		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "bids" && avString(in.Key["id"]) == "bid-2"
		})).Return(&dynamodb.GetItemOutput{Item: marshalItem(t, toBidItem(latest))}, nil).Once()

		bids, err := store.GetActiveBids(context.Background(), "listing-1")
		require.NoError(t, err)
		require.Len(t, bids, 2)
		assert.Equal(t, "bid-1", bids[0].ID)
		assert.Equal(t, "bid-2", bids[1].ID)
	})

	t.Run("Filters Inactive Bids", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		outbid := testBid("bid-1", "100", models.BidOutbid, testNow)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{marshalItem(t, toBidItem(outbid))},
		}, nil).Once()

		bids, err := store.GetActiveBids(context.Background(), "listing-1")
		require.NoError(t, err)
		assert.Empty(t, bids)
	})
}

func TestAcceptBid(t *testing.T) {
	t.Run("Supersedes Previous Bid", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		listing := testListing()
		listing.Kind = models.Auction
		previous := testBid("bid-1", "100", models.BidActive, testNow)
		bid := testBid("bid-2", "150", models.BidActive, testNow.Add(time.Minute))

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			guard := in.TransactItems[0].Update
			put := in.TransactItems[1].Put
			flip := in.TransactItems[2].Update
			return *guard.TableName == "listings" &&
				avString(guard.ExpressionAttributeValues[":bid"]) == "bid-2" &&
				*put.TableName == "bids" &&
				avString(put.Item["amount"]) == "150" &&
				avString(flip.Key["id"]) == "bid-1" &&
				avString(flip.ExpressionAttributeValues[":outbid"]) == "outbid"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		err := store.AcceptBid(context.Background(), listing, bid, []models.Bid{*previous})
		require.NoError(t, err)
		assert.Equal(t, int64(4), listing.Version)
	})

	t.Run("Lost Race", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		listing := testListing()
		bid := testBid("bid-2", "150", models.BidActive, testNow)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, transactionCanceled("ConditionalCheckFailed", "None")).Once()

		err := store.AcceptBid(context.Background(), listing, bid, nil)
		assert.ErrorIs(t, err, storage.ErrConditionFailed)
		assert.Equal(t, int64(3), listing.Version)
	})
}

func TestWithdrawBid(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		listing := testListing()
		bid := testBid("bid-1", "100", models.BidActive, testNow)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return len(in.TransactItems) == 2 &&
				*in.TransactItems[0].Update.ConditionExpression == "version = :version AND attribute_not_exists(settlement_payment_id)" &&
				avString(in.TransactItems[1].Update.Key["id"]) == "bid-1"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		require.NoError(t, store.WithdrawBid(context.Background(), listing, bid))
		assert.Equal(t, models.BidCancelled, bid.Status)
		assert.Equal(t, int64(4), listing.Version)
	})

	t.Run("Listing Claimed", func(t *testing.T) {
		store, mockClient := newTestStore(t)
		bid := testBid("bid-1", "100", models.BidActive, testNow)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, transactionCanceled("ConditionalCheckFailed", "None")).Once()

		err := store.WithdrawBid(context.Background(), testListing(), bid)
		assert.ErrorIs(t, err, storage.ErrConditionFailed)
		assert.Equal(t, models.BidActive, bid.Status)
	})
}
