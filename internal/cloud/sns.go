package cloud

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"
)

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes dashboard alerts to an SNS topic.
type SNSClient struct {
	svc      snsPublisher
	topicArn string
}

func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	if topicArn == "" {
		return nil, fmt.Errorf("sns topic arn is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &SNSClient{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}

	result, err := c.svc.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Info().Str("message_id", aws.ToString(result.MessageId)).Msg("alert sent")
	return nil
}

// SendOverLimitAlert notifies that the home's draw went above its limit.
func (c *SNSClient) SendOverLimitAlert(ctx context.Context, home string, usageWatts, limitWatts float64, at time.Time) error {
	subject := fmt.Sprintf("Home Energy Alert: %s over power limit", home)
	message := fmt.Sprintf(
		"Power Limit Exceeded\n\n"+
			"Home: %s\n"+
			"Current draw: %s W\n"+
			"Limit: %s W\n"+
			"Time: %s\n\n"+
			"Switch off devices that are not in use.",
		home,
		strconv.FormatFloat(usageWatts, 'f', -1, 64),
		strconv.FormatFloat(limitWatts, 'f', -1, 64),
		at.Format(time.RFC3339),
	)

	return c.SendAlert(ctx, subject, message)
}
