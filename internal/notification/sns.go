package notification

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSNotifier delivers messages as SMS through AWS SNS.
type SNSNotifier struct {
	client *sns.Client
}

// NewSNSNotifier constructs an SNS-backed notifier.
func NewSNSNotifier(client *sns.Client) *SNSNotifier {
	return &SNSNotifier{client: client}
}

// Send publishes the message body to the destination phone number.
func (n *SNSNotifier) Send(ctx context.Context, message Message) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(message.Destination),
		Message:     aws.String(message.Body),
	})
	if err != nil {
		return fmt.Errorf("%w: %s to %s: %v", ErrDeliveryFailed, message.Kind, message.Destination, err)
	}
	return nil
}
