package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
)

// SettleSale performs the final atomic settlement of a sale once its escrow is released.
// The payment, the winning bid, the listing and the property claim are written in a
// single transaction so a reader never observes a sold listing with an unsettled payment.
func (s *Store) SettleSale(ctx context.Context, settlement storage.Settlement) error {
	payment, listing := settlement.Payment, settlement.Listing
	if payment == nil || listing == nil {
		return fmt.Errorf("settle sale: payment and listing are required")
	}

	nowAV, err := timeAV(settlement.At.UTC())
	if err != nil {
		return err
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Complete the payment. Only the payment holding this escrow settles.
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Payments),
				Key:                 map[string]types.AttributeValue{"id": stringAV(payment.ID)},
				UpdateExpression:    aws.String("SET #status = :completed, updated_at = :now"),
				ConditionExpression: aws.String("#status = :processing AND escrow_id = :eid"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":completed":  stringAV(string(models.PaymentCompleted)),
					":processing": stringAV(string(models.PaymentProcessing)),
					":eid":        stringAV(settlement.EscrowID),
					":now":        nowAV,
				},
			},
		},
		{
			// Operation 2: Mark the listing sold and drop the settlement claim.
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Listings),
				Key:                 map[string]types.AttributeValue{"id": stringAV(listing.ID)},
				UpdateExpression:    aws.String("SET #status = :sold, sold_payment_id = :pid, updated_at = :now, version = version + :inc REMOVE settlement_payment_id"),
				ConditionExpression: aws.String("#status = :active AND settlement_payment_id = :pid"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":sold":   stringAV(string(models.ListingSold)),
					":active": stringAV(string(models.ListingActive)),
					":pid":    stringAV(payment.ID),
					":inc":    numberAV(1),
					":now":    nowAV,
				},
			},
		},
		{
			// Operation 3: Free the property.
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
	if settlement.Bid != nil {
		items = append(items, types.TransactWriteItem{
			// Operation 4: The settled bid wins the auction.
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Bids),
				Key:                 map[string]types.AttributeValue{"id": stringAV(settlement.Bid.ID)},
				UpdateExpression:    aws.String("SET #status = :won, updated_at = :now"),
				ConditionExpression: aws.String("#status = :active"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":won":    stringAV(string(models.BidWon)),
					":active": stringAV(string(models.BidActive)),
					":now":    nowAV,
				},
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if isConditionFailure(err) {
			if cancellationFailedAt(err, 0) {
				return fmt.Errorf("payment %s is not processing under escrow %s: %w", payment.ID, settlement.EscrowID, storage.ErrConditionFailed)
			}
			return fmt.Errorf("sale of listing %s could not be settled: %w", listing.ID, storage.ErrConditionFailed)
		}
		return fmt.Errorf("failed to execute settle sale transaction: %w", err)
	}

	payment.Status = models.PaymentCompleted
	payment.UpdatedAt = settlement.At
	listing.Status = models.ListingSold
	listing.SoldPaymentID = payment.ID
	listing.SettlementPaymentID = ""
	listing.Version++
	listing.UpdatedAt = settlement.At
	if settlement.Bid != nil {
		settlement.Bid.Status = models.BidWon
		settlement.Bid.UpdatedAt = settlement.At
	}
	return nil
}
