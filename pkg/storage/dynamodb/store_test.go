package dynamodb

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/require"
)

var testTables = Tables{
	Listings:       "listings",
	ActiveListings: "active_listings",
	Bids:           "bids",
	Payments:       "payments",
	Escrows:        "escrows",
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *mocks.DynamoDBAPI) {
	mockClient := mocks.NewDynamoDBAPI(t)
	return New(mockClient, testTables), mockClient
}

func testListing() *models.Listing {
	return &models.Listing{
		ID:         "listing-1",
		PropertyID: "property-1",
		SellerID:   "seller-1",
		Kind:       models.FixedPrice,
		Price:      models.MustMoney("250000", "USD"),
		Status:     models.ListingActive,
		Version:    3,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
}

func marshalItem(t *testing.T, v interface{}) map[string]types.AttributeValue {
	av, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return av
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func transactionCanceled(codes ...string) error {
	reasons := make([]types.CancellationReason, len(codes))
	for i, code := range codes {
		reasons[i] = types.CancellationReason{Code: aws.String(code)}
	}
	return &types.TransactionCanceledException{
		Message:             aws.String("Transaction cancelled"),
		CancellationReasons: reasons,
	}
}

func avString(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
