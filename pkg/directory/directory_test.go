package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/property-settlement/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDynamoDBDirectory(t *testing.T) {
	t.Run("Property Exists", func(t *testing.T) {
		client := mocks.NewDynamoDBAPI(t)
		dir := NewDynamoDBDirectory(client, "properties", "users")

		client.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "properties"
		})).Return(&dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: "property-1"},
		}}, nil).Once()

		ok, err := dir.PropertyExists(context.Background(), "property-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("User Missing", func(t *testing.T) {
		client := mocks.NewDynamoDBAPI(t)
		dir := NewDynamoDBDirectory(client, "properties", "users")

		client.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "users"
		})).Return(&dynamodb.GetItemOutput{}, nil).Once()

		ok, err := dir.UserExists(context.Background(), "ghost")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Lookup Fails", func(t *testing.T) {
		client := mocks.NewDynamoDBAPI(t)
		dir := NewDynamoDBDirectory(client, "properties", "users")

		client.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()

		_, err := dir.UserExists(context.Background(), "user-1")
		assert.Error(t, err)
	})

	t.Run("Empty ID Skips Lookup", func(t *testing.T) {
		client := mocks.NewDynamoDBAPI(t)
		dir := NewDynamoDBDirectory(client, "properties", "users")

		ok, err := dir.PropertyExists(context.Background(), "")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStatic(t *testing.T) {
	dir := NewStatic([]string{"property-1"}, []string{"user-1"})
	dir.AddUser("user-2")

	ok, _ := dir.PropertyExists(context.Background(), "property-1")
	assert.True(t, ok)
	ok, _ = dir.PropertyExists(context.Background(), "property-2")
	assert.False(t, ok)
	ok, _ = dir.UserExists(context.Background(), "user-2")
	assert.True(t, ok)
}
