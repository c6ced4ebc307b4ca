package cloud

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	input *sns.PublishInput
	err   error
}

func (s *stubPublisher) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSNSClient_SendOverLimitAlert(t *testing.T) {
	pub := &stubPublisher{}
	c := &SNSClient{svc: pub, topicArn: "arn:aws:sns:us-east-1:123:home"}
	at := time.Date(2025, 11, 20, 10, 30, 0, 0, time.UTC)

	require.NoError(t, c.SendOverLimitAlert(context.Background(), "Rumahku", 5200, 5000, at))
	require.NotNil(t, pub.input)
	assert.Equal(t, "arn:aws:sns:us-east-1:123:home", aws.ToString(pub.input.TopicArn))
	assert.Equal(t, "Home Energy Alert: Rumahku over power limit", aws.ToString(pub.input.Subject))
	assert.Contains(t, aws.ToString(pub.input.Message), "Current draw: 5200 W")
	assert.Contains(t, aws.ToString(pub.input.Message), "Limit: 5000 W")
	assert.Contains(t, aws.ToString(pub.input.Message), "2025-11-20T10:30:00Z")
}

func TestSNSClient_PublishError(t *testing.T) {
	boom := errors.New("throttled")
	c := &SNSClient{svc: &stubPublisher{err: boom}, topicArn: "arn"}
	err := c.SendAlert(context.Background(), "s", "m")
	assert.ErrorIs(t, err, boom)
}

type stubS3 struct {
	key  string
	body []byte
	err  error
}

func (s *stubS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.key = aws.ToString(in.Key)
	s.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Client_UploadReport(t *testing.T) {
	store := &stubS3{}
	c := &S3Client{
		svc:    store,
		bucket: "reports",
		presign: func(_ context.Context, bucket, key string) (string, error) {
			return "https://" + bucket + ".example/" + key, nil
		},
	}

	url, err := c.UploadReport(context.Background(), "overview/a.json", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, "https://reports.example/overview/a.json", url)
	assert.Equal(t, "overview/a.json", store.key)
	assert.JSONEq(t, `{"ok":true}`, string(store.body))
}

func TestS3Client_UploadError(t *testing.T) {
	c := &S3Client{svc: &stubS3{err: errors.New("denied")}, bucket: "reports"}
	_, err := c.UploadReport(context.Background(), "k", nil)
	assert.ErrorContains(t, err, "failed to upload to S3")
}
