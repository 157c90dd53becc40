package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
)

const bidsByListingGSI = "listing_id-created_at-index"

// GetBid retrieves a bid from DynamoDB by its ID.
func (s *Store) GetBid(ctx context.Context, bidID string) (*models.Bid, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Bids),
		Key:            map[string]types.AttributeValue{"id": stringAV(bidID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bid from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("bid %s: %w", bidID, storage.ErrNotFound)
	}

	var item bidItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bid: %w", err)
	}
	return item.toModel()
}

// ListBids retrieves every bid placed on a listing, oldest first.
func (s *Store) ListBids(ctx context.Context, listingID string) ([]models.Bid, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Bids),
		IndexName:              aws.String(bidsByListingGSI),
		KeyConditionExpression: aws.String("listing_id = :lid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lid": stringAV(listingID),
		},
		ScanIndexForward: aws.Bool(true),
	}

	var bids []models.Bid
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query bids for listing: %w", err)
		}

		var items []bidItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bids: %w", err)
		}
		for _, item := range items {
			b, err := item.toModel()
			if err != nil {
				return nil, err
			}
			bids = append(bids, *b)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return bids, nil
}

// GetActiveBids retrieves the active bids on a listing.
// The listing index is eventually consistent, so the bid the listing row last
// accepted is read directly as well and merged in.
func (s *Store) GetActiveBids(ctx context.Context, listingID string) ([]models.Bid, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.Tables.Listings),
		Key:                  map[string]types.AttributeValue{"id": stringAV(listingID)},
		ProjectionExpression: aws.String("high_bid_id"),
		ConsistentRead:       aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get listing high bid: %w", err)
	}
	var pointer struct {
		HighBidID string `dynamodbav:"high_bid_id"`
	}
	if result.Item != nil {
		if err := attributevalue.UnmarshalMap(result.Item, &pointer); err != nil {
			return nil, fmt.Errorf("failed to unmarshal listing high bid: %w", err)
		}
	}

	all, err := s.ListBids(ctx, listingID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Bid, len(all))
	for _, b := range all {
		byID[b.ID] = b
	}
	if pointer.HighBidID != "" {
		latest, err := s.GetBid(ctx, pointer.HighBidID)
		if err != nil {
			return nil, err
		}
		byID[latest.ID] = *latest
	}

	var active []models.Bid
	for _, b := range byID {
		if b.Status == models.BidActive {
			active = append(active, b)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	return active, nil
}

// AcceptBid inserts the bid as active and supersedes the previous active bids.
func (s *Store) AcceptBid(ctx context.Context, listing *models.Listing, bid *models.Bid, superseded []models.Bid) error {
	now := time.Now().UTC()
	nowAV, err := timeAV(now)
	if err != nil {
		return err
	}
	bidAV, err := attributevalue.MarshalMap(toBidItem(bid))
	if err != nil {
		return fmt.Errorf("failed to marshal bid: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Bump the listing version. This is the per-listing serialization point.
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Listings),
				Key:                 map[string]types.AttributeValue{"id": stringAV(listing.ID)},
				UpdateExpression:    aws.String("SET high_bid_id = :bid, updated_at = :now, version = version + :inc"),
				ConditionExpression: aws.String("#status = :active AND version = :version AND attribute_not_exists(settlement_payment_id)"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":bid":     stringAV(bid.ID),
					":active":  stringAV(string(models.ListingActive)),
					":version": numberAV(listing.Version),
					":inc":     numberAV(1),
					":now":     nowAV,
				},
			},
		},
		{
			// Operation 2: Create the new active bid.
			Put: &types.Put{
				TableName:           aws.String(s.Tables.Bids),
				Item:                bidAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}
	for _, prev := range superseded {
		// Operation 3..n: Flip every previously active bid to outbid.
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Bids),
				Key:                 map[string]types.AttributeValue{"id": stringAV(prev.ID)},
				UpdateExpression:    aws.String("SET #status = :outbid, updated_at = :now"),
				ConditionExpression: aws.String("#status = :active"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":outbid": stringAV(string(models.BidOutbid)),
					":active": stringAV(string(models.BidActive)),
					":now":    nowAV,
				},
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("listing %s changed while bidding: %w", listing.ID, storage.ErrConditionFailed)
		}
		return fmt.Errorf("failed to execute accept bid transaction: %w", err)
	}

	listing.Version++
	listing.UpdatedAt = now
	return nil
}

// WithdrawBid cancels an active bid while the listing is unclaimed.
func (s *Store) WithdrawBid(ctx context.Context, listing *models.Listing, bid *models.Bid) error {
	now := time.Now().UTC()
	nowAV, err := timeAV(now)
	if err != nil {
		return err
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Bump the listing version so a concurrent claim re-reads the bid.
				Update: &types.Update{
					TableName:           aws.String(s.Tables.Listings),
					Key:                 map[string]types.AttributeValue{"id": stringAV(listing.ID)},
					UpdateExpression:    aws.String("SET updated_at = :now, version = version + :inc"),
					ConditionExpression: aws.String("version = :version AND attribute_not_exists(settlement_payment_id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":version": numberAV(listing.Version),
						":inc":     numberAV(1),
						":now":     nowAV,
					},
				},
			},
			{
				// Operation 2: Cancel the bid.
				Update: &types.Update{
					TableName:           aws.String(s.Tables.Bids),
					Key:                 map[string]types.AttributeValue{"id": stringAV(bid.ID)},
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
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("bid %s could not be withdrawn: %w", bid.ID, storage.ErrConditionFailed)
		}
		return fmt.Errorf("failed to execute withdraw bid transaction: %w", err)
	}

	listing.Version++
	listing.UpdatedAt = now
	bid.Status = models.BidCancelled
	bid.UpdatedAt = now
	return nil
}
