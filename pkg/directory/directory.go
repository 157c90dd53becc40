// Package directory answers existence questions about properties and users owned
// by the surrounding CRUD services.
package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Directory reports whether referenced entities exist.
type Directory interface {
	PropertyExists(ctx context.Context, propertyID string) (bool, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}

// GetItemAPI is the subset of the DynamoDB client used by the directory.
type GetItemAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDBDirectory looks entities up in the CRUD layer's tables.
type DynamoDBDirectory struct {
	Client          GetItemAPI
	PropertiesTable string
	UsersTable      string
}

// NewDynamoDBDirectory creates a new DynamoDBDirectory.
func NewDynamoDBDirectory(client GetItemAPI, propertiesTable, usersTable string) *DynamoDBDirectory {
	return &DynamoDBDirectory{
		Client:          client,
		PropertiesTable: propertiesTable,
		UsersTable:      usersTable,
	}
}

var _ Directory = (*DynamoDBDirectory)(nil)

// PropertyExists reports whether the property table holds propertyID.
func (d *DynamoDBDirectory) PropertyExists(ctx context.Context, propertyID string) (bool, error) {
	return d.exists(ctx, d.PropertiesTable, propertyID)
}

// UserExists reports whether the user table holds userID.
func (d *DynamoDBDirectory) UserExists(ctx context.Context, userID string) (bool, error) {
	return d.exists(ctx, d.UsersTable, userID)
}

func (d *DynamoDBDirectory) exists(ctx context.Context, table, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	result, err := d.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(table),
		Key:                  map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		ProjectionExpression: aws.String("id"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up %s in %s: %w", id, table, err)
	}
	return result.Item != nil, nil
}

// Static is an in-memory Directory for local runs and tests.
type Static struct {
	mu         sync.RWMutex
	properties map[string]bool
	users      map[string]bool
}

// NewStatic creates a Static directory seeded with the given IDs.
func NewStatic(properties, users []string) *Static {
	s := &Static{
		properties: make(map[string]bool, len(properties)),
		users:      make(map[string]bool, len(users)),
	}
	for _, id := range properties {
		s.properties[id] = true
	}
	for _, id := range users {
		s.users[id] = true
	}
	return s
}

var _ Directory = (*Static)(nil)

// AddProperty registers a property.
func (s *Static) AddProperty(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[id] = true
}

// AddUser registers a user.
func (s *Static) AddUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = true
}

func (s *Static) PropertyExists(_ context.Context, propertyID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.properties[propertyID], nil
}

func (s *Static) UserExists(_ context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[userID], nil
}

// Open accepts any non-empty ID. It is used when no directory tables are configured.
type Open struct{}

func (Open) PropertyExists(_ context.Context, propertyID string) (bool, error) {
	return propertyID != "", nil
}

func (Open) UserExists(_ context.Context, userID string) (bool, error) {
	return userID != "", nil
}
