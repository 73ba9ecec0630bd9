package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	apperrors "pawdopt-backend/pkg/errors"
)

// Connections expire via the table's TTL attribute as a backstop for
// disconnect events that never arrive. API Gateway closes idle WebSocket
// connections well before this.
const connectionTTL = 3 * time.Hour

// ConnectionRepository implements ports.ConnectionRepository on the
// connections table. Items are keyed PK=CONNECTION#<id>/SK=METADATA, with a
// GSI keyed by CHAT#<chatId> for per-chat subscriber lookup.
type ConnectionRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// Compile-time interface check
var _ ports.ConnectionRepository = (*ConnectionRepository)(nil)

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *ConnectionRepository {
	return &ConnectionRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// connectionItem represents the DynamoDB item structure for a connection
type connectionItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	GSI1PK       string `dynamodbav:"GSI1PK"`
	GSI1SK       string `dynamodbav:"GSI1SK"`
	ConnectionID string `dynamodbav:"connection_id"`
	ChatID       string `dynamodbav:"chat_id"`
	UserID       string `dynamodbav:"user_id"`
	Endpoint     string `dynamodbav:"endpoint"`
	ExpiresAt    int64  `dynamodbav:"expires_at"`
}

// Save registers a live connection as a subscriber to its chat.
func (r *ConnectionRepository) Save(ctx context.Context, conn ports.Connection) error {
	item, err := attributevalue.MarshalMap(connectionItem{
		PK:           fmt.Sprintf("CONNECTION#%s", conn.ConnectionID),
		SK:           "METADATA",
		GSI1PK:       fmt.Sprintf("CHAT#%s", conn.ChatID),
		GSI1SK:       fmt.Sprintf("CONNECTION#%s", conn.ConnectionID),
		ConnectionID: conn.ConnectionID,
		ChatID:       conn.ChatID,
		UserID:       conn.UserID,
		Endpoint:     conn.Endpoint,
		ExpiresAt:    time.Now().Add(connectionTTL).Unix(),
	})
	if err != nil {
		return apperrors.NewInternalError("failed to marshal connection").WithCause(err)
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

// Delete removes a connection. Deleting an unknown id succeeds, so disconnect
// handling and stale-connection cleanup can race freely.
func (r *ConnectionRepository) Delete(ctx context.Context, connectionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CONNECTION#%s", connectionID)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return apperrors.NewDatabaseError("DeleteItem", err)
	}
	return nil
}

// FindByChat returns the live subscribers of a chat.
func (r *ConnectionRepository) FindByChat(ctx context.Context, chatID string) ([]ports.Connection, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("CHAT#%s", chatID)))).
		Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query expression").WithCause(err)
	}

	connections := make([]ports.Connection, 0)
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 &r.tableName,
			IndexName:                 aws.String(r.indexName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, apperrors.NewDatabaseError("Query", err)
		}

		for _, raw := range out.Items {
			var item connectionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping unparseable connection item", zap.Error(err))
				continue
			}
			connections = append(connections, ports.Connection{
				ConnectionID: item.ConnectionID,
				ChatID:       item.ChatID,
				UserID:       item.UserID,
				Endpoint:     item.Endpoint,
			})
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return connections, nil
}
