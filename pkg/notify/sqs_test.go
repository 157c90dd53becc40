package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSQS struct {
	mock.Mock
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*sqs.SendMessageOutput)
	return out, args.Error(1)
}

func TestSQSNotifier(t *testing.T) {
	n := Notification{
		RecipientID: "seller-1",
		EventType:   EventEscrowDisputed,
		Payload:     map[string]interface{}{"escrow_id": "escrow-1", "reason": "title_defect"},
	}

	t.Run("Success", func(t *testing.T) {
		client := new(mockSQS)
		notifier := NewSQSNotifier(client, "https://sqs.local/notifications")

		client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			var got Notification
			if err := json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &got); err != nil {
				return false
			}
			return aws.ToString(in.QueueUrl) == "https://sqs.local/notifications" &&
				got.RecipientID == "seller-1" &&
				got.EventType == EventEscrowDisputed &&
				aws.ToString(in.MessageAttributes["event_type"].StringValue) == "escrow.disputed"
		})).Return(&sqs.SendMessageOutput{}, nil).Once()

		require.NoError(t, notifier.Notify(context.Background(), n))
		client.AssertExpectations(t)
	})

	t.Run("Send Fails", func(t *testing.T) {
		client := new(mockSQS)
		notifier := NewSQSNotifier(client, "https://sqs.local/notifications")

		client.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("queue unavailable")).Once()

		err := notifier.Notify(context.Background(), n)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send message to SQS")
	})
}
