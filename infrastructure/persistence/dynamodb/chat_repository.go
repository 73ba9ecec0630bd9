package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/domain/chat"
	apperrors "pawdopt-backend/pkg/errors"
)

// ChatRepository implements ports.ChatRepository on the chats table, keyed by
// chat_id alone.
type ChatRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// Compile-time interface check
var _ ports.ChatRepository = (*ChatRepository)(nil)

// NewChatRepository creates a new ChatRepository
func NewChatRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists a chat thread.
func (r *ChatRepository) Save(ctx context.Context, c *chat.Chat) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal chat").WithCause(err)
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

// FindByID returns one chat or a not-found error.
func (r *ChatRepository) FindByID(ctx context.Context, chatID string) (*chat.Chat, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.tableName,
		Key:       chatKey(chatID),
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("GetItem", err)
	}
	if out.Item == nil {
		return nil, apperrors.NewNotFoundError("chat")
	}

	var c chat.Chat
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal chat").WithCause(err)
	}
	return &c, nil
}

// FindByParticipant returns the chats where the user is the adopter, or the
// shelter when asShelter is set.
func (r *ChatRepository) FindByParticipant(ctx context.Context, userID string, asShelter bool) ([]*chat.Chat, error) {
	attribute := "adopter_id"
	if asShelter {
		attribute = "shelter_id"
	}

	filter := expression.Name(attribute).Equal(expression.Value(userID))
	return r.scan(ctx, filter)
}

// FindCompetitors returns every chat about dogID whose adopter is not
// winningAdopterID. Already-inactive chats are included; deactivating them
// again is a no-op, which keeps the fan-out retryable.
func (r *ChatRepository) FindCompetitors(ctx context.Context, dogID, winningAdopterID string) ([]*chat.Chat, error) {
	filter := expression.Name("dog_id").Equal(expression.Value(dogID)).
		And(expression.Name("adopter_id").NotEqual(expression.Value(winningAdopterID)))
	return r.scan(ctx, filter)
}

func (r *ChatRepository) scan(ctx context.Context, filter expression.ConditionBuilder) ([]*chat.Chat, error) {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build scan expression").WithCause(err)
	}

	chats := make([]*chat.Chat, 0)
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 &r.tableName,
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, apperrors.NewDatabaseError("Scan", err)
		}

		for _, item := range out.Items {
			var c chat.Chat
			if err := attributevalue.UnmarshalMap(item, &c); err != nil {
				r.logger.Warn("Skipping unparseable chat item", zap.Error(err))
				continue
			}
			chats = append(chats, &c)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return chats, nil
}

// UpdateStatus overwrites the chat status. Writing the current value is a
// plain no-op, so the dog-adopted fan-out can repeat safely.
func (r *ChatRepository) UpdateStatus(ctx context.Context, chatID string, status chat.Status) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("status"), expression.Value(string(status)))).
		Build()
	if err != nil {
		return apperrors.NewInternalError("failed to build update expression").WithCause(err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.tableName,
		Key:                       chatKey(chatID),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return apperrors.NewDatabaseError("UpdateItem", err)
	}

	return nil
}

func chatKey(chatID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"chat_id": &types.AttributeValueMemberS{Value: chatID},
	}
}
