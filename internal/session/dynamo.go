package session

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Record is the DynamoDB item for one session.
type Record struct {
	SessionID  string            `dynamodbav:"sessionId"`
	Attributes map[string]string `dynamodbav:"attributes"`
	UpdatedAt  string            `dynamodbav:"updatedAt"`
	ExpiresAt  int64             `dynamodbav:"expiresAt,omitempty"`
}

// DynamoStore keeps sessions in a DynamoDB table keyed by sessionId.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, tableName string, ttl time.Duration) *DynamoStore {
	if client == nil {
		panic("session: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("session: table name cannot be empty")
	}
	return &DynamoStore{client: client, tableName: tableName, ttl: ttl, now: time.Now}
}

func (s *DynamoStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("session: failed to fetch session: %w", err)
	}
	if out.Item == nil {
		return map[string]string{}, nil
	}

	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("session: failed to decode session: %w", err)
	}
	if rec.Attributes == nil {
		rec.Attributes = map[string]string{}
	}
	return rec.Attributes, nil
}

func (s *DynamoStore) Save(ctx context.Context, sessionID string, attrs map[string]string) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}
	now := s.now().UTC()
	rec := Record{
		SessionID:  sessionID,
		Attributes: attrs,
		UpdatedAt:  now.Format(time.RFC3339Nano),
	}
	if rec.Attributes == nil {
		rec.Attributes = map[string]string{}
	}
	if s.ttl > 0 {
		rec.ExpiresAt = now.Add(s.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("session: failed to marshal session: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("session: failed to persist session: %w", err)
	}
	return nil
}
