package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/domain/chat"
	apperrors "pawdopt-backend/pkg/errors"
)

// MessageRepository implements ports.MessageRepository on the messages table,
// keyed by (chat_id, sent_at). sent_at is a fixed-width timestamp, so range
// order is send order.
type MessageRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// Compile-time interface check
var _ ports.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists a message.
func (r *MessageRepository) Save(ctx context.Context, m *chat.Message) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal message").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	})
	if err != nil {
		return apperrors.NewDatabaseError("PutItem", err)
	}

	return nil
}

// FindByID returns one message by its composite key or a not-found error.
func (r *MessageRepository) FindByID(ctx context.Context, chatID, sentAt string) (*chat.Message, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.tableName,
		Key:       messageKey(chatID, sentAt),
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("GetItem", err)
	}
	if out.Item == nil {
		return nil, apperrors.NewNotFoundError("message")
	}

	var m chat.Message
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal message").WithCause(err)
	}
	return &m, nil
}

// ListByChat pages one chat's history in ascending sent_at order. The
// returned NextToken is the encoded LastEvaluatedKey, empty on the last page.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID string, limit int32, nextToken string) (*ports.MessagePage, error) {
	startKey, err := decodeCursor(nextToken)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid continuation token").WithCause(err)
	}

	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("chat_id").Equal(expression.Value(chatID))).
		Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query expression").WithCause(err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 &r.tableName,
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(limit),
		ScanIndexForward:          aws.Bool(true),
		ExclusiveStartKey:         startKey,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("Query", err)
	}

	items := make([]*chat.Message, 0, len(out.Items))
	for _, item := range out.Items {
		var m chat.Message
		if err := attributevalue.UnmarshalMap(item, &m); err != nil {
			r.logger.Warn("Skipping unparseable message item",
				zap.String("chatID", chatID),
				zap.Error(err),
			)
			continue
		}
		items = append(items, &m)
	}

	token, err := encodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode continuation token").WithCause(err)
	}

	return &ports.MessagePage{Items: items, NextToken: token}, nil
}

// SetReadStatus flips read_status to true, conditioned on it being false.
// A lost race or a repeat surfaces as a no-op success, keeping the flag
// monotonic without telling callers apart.
func (r *MessageRepository) SetReadStatus(ctx context.Context, chatID, sentAt string) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("read_status"), expression.Value(true))).
		WithCondition(expression.Name("read_status").Equal(expression.Value(false))).
		Build()
	if err != nil {
		return apperrors.NewInternalError("failed to build update expression").WithCause(err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.tableName,
		Key:                       messageKey(chatID, sentAt),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			// Already read; nothing to do.
			return nil
		}
		return apperrors.NewDatabaseError("UpdateItem", err)
	}

	return nil
}

func messageKey(chatID, sentAt string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"chat_id": &types.AttributeValueMemberS{Value: chatID},
		"sent_at": &types.AttributeValueMemberS{Value: sentAt},
	}
}
