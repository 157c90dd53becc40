package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
)

const listingEndsAtGSI = "status-ends_at-index"

func stringAV(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

func numberAV(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

func timeAV(t time.Time) (types.AttributeValue, error) {
	av, err := attributevalue.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	return av, nil
}

// CreateListing atomically claims the property and creates the listing record.
func (s *Store) CreateListing(ctx context.Context, listing *models.Listing) error {
	listingAV, err := attributevalue.MarshalMap(toListingItem(listing))
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}
	claimAV, err := attributevalue.MarshalMap(activeListingItem{
		PropertyID: listing.PropertyID,
		ListingID:  listing.ID,
		CreatedAt:  listing.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal property claim: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Claim the property. Only one active listing may hold it.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.ActiveListings),
					Item:                claimAV,
					ConditionExpression: aws.String("attribute_not_exists(property_id)"),
				},
			},
			{
				// Operation 2: Create the listing record.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Listings),
					Item:                listingAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("property %s already has an active listing: %w", listing.PropertyID, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to execute create listing transaction: %w", err)
	}
	return nil
}

// GetListing retrieves a listing from DynamoDB by its ID.
func (s *Store) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Listings),
		Key:            map[string]types.AttributeValue{"id": stringAV(listingID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get listing from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("listing %s: %w", listingID, storage.ErrNotFound)
	}

	var item listingItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing: %w", err)
	}
	return item.toModel()
}

// GetActiveListingID returns the listing currently claiming the property.
func (s *Store) GetActiveListingID(ctx context.Context, propertyID string) (string, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.ActiveListings),
		Key:            map[string]types.AttributeValue{"property_id": stringAV(propertyID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get property claim from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return "", fmt.Errorf("property %s: %w", propertyID, storage.ErrNotFound)
	}

	var item activeListingItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return "", fmt.Errorf("failed to unmarshal property claim: %w", err)
	}
	return item.ListingID, nil
}

// ListEndedAuctions retrieves active listings whose end time is before the cutoff.
// Fixed-price listings carry no ends_at and are therefore absent from the index.
func (s *Store) ListEndedAuctions(ctx context.Context, before time.Time) ([]models.Listing, error) {
	cutoffAV, err := timeAV(before.UTC())
	if err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Listings),
		IndexName:              aws.String(listingEndsAtGSI),
		KeyConditionExpression: aws.String("#status = :active AND ends_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": stringAV(string(models.ListingActive)),
			":cutoff": cutoffAV,
		},
	}

	var listings []models.Listing
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query for ended auctions: %w", err)
		}

		var items []listingItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ended auctions: %w", err)
		}
		for _, item := range items {
			l, err := item.toModel()
			if err != nil {
				return nil, err
			}
			listings = append(listings, *l)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return listings, nil
}

// FinalizeListing persists a terminal status and releases the property claim.
func (s *Store) FinalizeListing(ctx context.Context, listing *models.Listing, activeBidID string) error {
	now := time.Now().UTC()
	nowAV, err := timeAV(now)
	if err != nil {
		return err
	}

	update := "SET #status = :status, updated_at = :now, version = version + :inc"
	values := map[string]types.AttributeValue{
		":status":  stringAV(string(listing.Status)),
		":active":  stringAV(string(models.ListingActive)),
		":version": numberAV(listing.Version),
		":inc":     numberAV(1),
		":now":     nowAV,
	}
	if listing.SoldPaymentID != "" {
		update += ", sold_payment_id = :sold REMOVE settlement_payment_id"
		values[":sold"] = stringAV(listing.SoldPaymentID)
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Move the listing to its terminal status.
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Listings),
				Key:                 map[string]types.AttributeValue{"id": stringAV(listing.ID)},
				UpdateExpression:    aws.String(update),
				ConditionExpression: aws.String("#status = :active AND version = :version"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: values,
			},
		},
		{
			// Operation 2: Free the property for a new listing.
			Delete: &types.Delete{
				TableName:           aws.String(s.Tables.ActiveListings),
				Key:                 map[string]types.AttributeValue{"property_id": stringAV(listing.PropertyID)},
				ConditionExpression: aws.String("listing_id = :lid"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":lid": stringAV(listing.ID),
				},
			},
		},
	}
	if activeBidID != "" {
		items = append(items, types.TransactWriteItem{
			// Operation 3: Withdraw the standing bid on a closed auction.
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Bids),
				Key:                 map[string]types.AttributeValue{"id": stringAV(activeBidID)},
				UpdateExpression:    aws.String("SET #status = :cancelled, updated_at = :now"),
				ConditionExpression: aws.String("#status = :active"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":cancelled": stringAV(string(models.BidCancelled)),
					":active":    stringAV(string(models.BidActive)),
					":now":       nowAV,
				},
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("listing %s changed before it could be finalized: %w", listing.ID, storage.ErrConditionFailed)
		}
		return fmt.Errorf("failed to execute finalize listing transaction: %w", err)
	}

	listing.Version++
	listing.UpdatedAt = now
	if listing.SoldPaymentID != "" {
		listing.SettlementPaymentID = ""
	}
	return nil
}

// ClaimSettlement records the payment settling the listing.
func (s *Store) ClaimSettlement(ctx context.Context, listing *models.Listing, paymentID string) error {
	now := time.Now().UTC()
	nowAV, err := timeAV(now)
	if err != nil {
		return err
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Listings),
		Key:                 map[string]types.AttributeValue{"id": stringAV(listing.ID)},
		UpdateExpression:    aws.String("SET settlement_payment_id = :pid, updated_at = :now, version = version + :inc"),
		ConditionExpression: aws.String("#status = :active AND version = :version AND attribute_not_exists(settlement_payment_id)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid":     stringAV(paymentID),
			":active":  stringAV(string(models.ListingActive)),
			":version": numberAV(listing.Version),
			":inc":     numberAV(1),
			":now":     nowAV,
		},
	})
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("listing %s changed before it could be claimed: %w", listing.ID, storage.ErrConditionFailed)
		}
		return fmt.Errorf("failed to claim listing for settlement: %w", err)
	}

	listing.SettlementPaymentID = paymentID
	listing.Version++
	listing.UpdatedAt = now
	return nil
}

// ReleaseSettlement clears the claim held by paymentID.
func (s *Store) ReleaseSettlement(ctx context.Context, listingID, paymentID string) error {
	nowAV, err := timeAV(time.Now().UTC())
	if err != nil {
		return err
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Listings),
		Key:                 map[string]types.AttributeValue{"id": stringAV(listingID)},
		UpdateExpression:    aws.String("SET updated_at = :now, version = version + :inc REMOVE settlement_payment_id"),
		ConditionExpression: aws.String("settlement_payment_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": stringAV(paymentID),
			":inc": numberAV(1),
			":now": nowAV,
		},
	})
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("listing %s is not claimed by payment %s: %w", listingID, paymentID, storage.ErrConditionFailed)
		}
		return fmt.Errorf("failed to release settlement claim: %w", err)
	}
	return nil
}
