package dynamodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
)

// CreateEscrow inserts a new escrow record.
func (s *Store) CreateEscrow(ctx context.Context, escrow *models.Escrow) error {
	escrowAV, err := attributevalue.MarshalMap(toEscrowItem(escrow))
	if err != nil {
		return fmt.Errorf("failed to marshal escrow: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Escrows),
		Item:                escrowAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"), // One escrow per payment.
	})
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("escrow %s: %w", escrow.ID, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create escrow in DynamoDB: %w", err)
	}
	return nil
}

// GetEscrow retrieves an escrow from DynamoDB by its ID.
func (s *Store) GetEscrow(ctx context.Context, escrowID string) (*models.Escrow, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Escrows),
		Key:            map[string]types.AttributeValue{"id": stringAV(escrowID)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("escrow %s: %w", escrowID, storage.ErrNotFound)
	}

	var item escrowItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal escrow: %w", err)
	}
	return item.toModel()
}

// UpdateEscrow persists the escrow's status and dispute/release details guarded by
// its previous status.
func (s *Store) UpdateEscrow(ctx context.Context, escrow *models.Escrow, from ...models.EscrowStatus) error {
	if len(from) == 0 {
		return fmt.Errorf("update escrow %s: no expected status given", escrow.ID)
	}
	now := time.Now().UTC()
	nowAV, err := timeAV(now)
	if err != nil {
		return err
	}

	update := "SET #status = :to, updated_at = :now"
	values := map[string]types.AttributeValue{
		":to":  stringAV(string(escrow.Status)),
		":now": nowAV,
	}
	placeholders := make([]string, len(from))
	for i, status := range from {
		key := fmt.Sprintf(":from%d", i)
		placeholders[i] = key
		values[key] = stringAV(string(status))
	}
	if escrow.DisputeReason != "" {
		update += ", dispute_reason = :reason, dispute_description = :description, disputed_by = :by"
		values[":reason"] = stringAV(escrow.DisputeReason)
		values[":description"] = stringAV(escrow.DisputeDescription)
		values[":by"] = stringAV(escrow.DisputedBy)
	}
	if escrow.ReleaseProof != "" {
		update += ", release_proof = :proof"
		values[":proof"] = stringAV(escrow.ReleaseProof)
	}
	if escrow.ReleasedAt != nil {
		releasedAV, err := timeAV(*escrow.ReleasedAt)
		if err != nil {
			return err
		}
		update += ", released_at = :released"
		values[":released"] = releasedAV
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Escrows),
		Key:                 map[string]types.AttributeValue{"id": stringAV(escrow.ID)},
		UpdateExpression:    aws.String(update),
		ConditionExpression: aws.String(fmt.Sprintf("#status IN (%s)", strings.Join(placeholders, ", "))),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("escrow %s changed status: %w", escrow.ID, storage.ErrConditionFailed)
		}
		return fmt.Errorf("failed to update escrow: %w", err)
	}

	escrow.UpdatedAt = now
	return nil
}

// ListEscrowsByStatus retrieves escrows in a status last updated before the cutoff.
func (s *Store) ListEscrowsByStatus(ctx context.Context, status models.EscrowStatus, updatedBefore time.Time) ([]models.Escrow, error) {
	cutoffAV, err := timeAV(updatedBefore.UTC())
	if err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Escrows),
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

	var escrows []models.Escrow
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query escrows by status: %w", err)
		}

		var items []escrowItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal escrows: %w", err)
		}
		for _, item := range items {
			e, err := item.toModel()
			if err != nil {
				return nil, err
			}
			escrows = append(escrows, *e)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return escrows, nil
}
