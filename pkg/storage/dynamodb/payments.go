package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
)

const (
	statusUpdatedAtGSI = "status-updated_at-index"
	externalRefGSI     = "external_ref-index"
)

// CreatePayment inserts a new payment record.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	paymentAV, err := attributevalue.MarshalMap(toPaymentItem(payment))
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Payments),
		Item:                paymentAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("payment %s: %w", payment.ID, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create payment in DynamoDB: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment from DynamoDB by its ID.
func (s *Store) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Payments),
		Key:            map[string]types.AttributeValue{"id": stringAV(paymentID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get payment from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}

	var item paymentItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment: %w", err)
	}
	return item.toModel()
}

// UpdatePayment persists the payment's status and references guarded by its previous
// status and its escrow link.
func (s *Store) UpdatePayment(ctx context.Context, payment *models.Payment, from models.PaymentStatus) error {
	now := time.Now().UTC()
	nowAV, err := timeAV(now)
	if err != nil {
		return err
	}

	update := "SET #status = :to, updated_at = :now"
	condition := "#status = :from AND attribute_not_exists(escrow_id)"
	values := map[string]types.AttributeValue{
		":to":   stringAV(string(payment.Status)),
		":from": stringAV(string(from)),
		":now":  nowAV,
	}
	if payment.EscrowID != "" {
		update += ", escrow_id = :eid"
		condition = "#status = :from AND (attribute_not_exists(escrow_id) OR escrow_id = :eid)"
		values[":eid"] = stringAV(payment.EscrowID)
	}
	if payment.ExternalRef != "" {
		update += ", external_ref = :ref"
		values[":ref"] = stringAV(payment.ExternalRef)
	}
	if payment.FailureReason != "" {
		update += ", failure_reason = :reason"
		values[":reason"] = stringAV(payment.FailureReason)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Payments),
		Key:                 map[string]types.AttributeValue{"id": stringAV(payment.ID)},
		UpdateExpression:    aws.String(update),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("payment %s is no longer %s: %w", payment.ID, from, storage.ErrConditionFailed)
		}
		return fmt.Errorf("failed to update payment: %w", err)
	}

	payment.UpdatedAt = now
	return nil
}

// ListPaymentsByStatus retrieves payments in a status last updated before the cutoff.
func (s *Store) ListPaymentsByStatus(ctx context.Context, status models.PaymentStatus, updatedBefore time.Time) ([]models.Payment, error) {
	cutoffAV, err := timeAV(updatedBefore.UTC())
	if err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Payments),
		IndexName:              aws.String(statusUpdatedAtGSI),
		KeyConditionExpression: aws.String("#status = :status AND updated_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": stringAV(string(status)),
			":cutoff": cutoffAV,
		},
	}

	var payments []models.Payment
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query payments by status: %w", err)
		}

		var items []paymentItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payments: %w", err)
		}
		for _, item := range items {
			p, err := item.toModel()
			if err != nil {
				return nil, err
			}
			payments = append(payments, *p)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return payments, nil
}

// FindPaymentByExternalRef retrieves the payment holding a settlement reference
// through the external_ref index.
func (s *Store) FindPaymentByExternalRef(ctx context.Context, ref string) (*models.Payment, error) {
	if ref == "" {
		return nil, fmt.Errorf("payment with empty reference: %w", storage.ErrNotFound)
	}
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Payments),
		IndexName:              aws.String(externalRefGSI),
		KeyConditionExpression: aws.String("external_ref = :ref"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ref": stringAV(ref),
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query payments by reference: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("payment with reference %s: %w", ref, storage.ErrNotFound)
	}

	var item paymentItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment: %w", err)
	}
	return item.toModel()
}
