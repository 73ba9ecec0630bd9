// Package dynamodb implements the application's repository ports on DynamoDB.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/domain/adoption"
	apperrors "pawdopt-backend/pkg/errors"
)

// RequestRepository implements ports.RequestRepository on the requests table.
// The table is keyed by (request_id, created_at); per-user listings run as
// filtered scans because request volume per deployment is small.
type RequestRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// Compile-time interface check
var _ ports.RequestRepository = (*RequestRepository)(nil)

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *RequestRepository {
	return &RequestRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists a request.
func (r *RequestRepository) Save(ctx context.Context, request *adoption.Request) error {
	item, err := attributevalue.MarshalMap(request)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal request").WithCause(err)
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

// FindByAdopter returns every request the adopter has filed, newest last.
func (r *RequestRepository) FindByAdopter(ctx context.Context, adopterID string) ([]*adoption.Request, error) {
	return r.scanByAttribute(ctx, "adopter_id", adopterID)
}

// FindByShelter returns every request filed against the shelter's dogs.
func (r *RequestRepository) FindByShelter(ctx context.Context, shelterID string) ([]*adoption.Request, error) {
	return r.scanByAttribute(ctx, "shelter_id", shelterID)
}

func (r *RequestRepository) scanByAttribute(ctx context.Context, attribute, value string) ([]*adoption.Request, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name(attribute).Equal(expression.Value(value))).
		Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build scan expression").WithCause(err)
	}

	requests := make([]*adoption.Request, 0)
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
			var request adoption.Request
			if err := attributevalue.UnmarshalMap(item, &request); err != nil {
				r.logger.Warn("Skipping unparseable request item", zap.Error(err))
				continue
			}
			requests = append(requests, &request)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return requests, nil
}

// UpdateStatus overwrites the status attribute. No condition is applied:
// concurrent writers resolve last-writer-wins.
func (r *RequestRepository) UpdateStatus(ctx context.Context, requestID, createdAt string, status adoption.Status) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("status"), expression.Value(string(status)))).
		Build()
	if err != nil {
		return apperrors.NewInternalError("failed to build update expression").WithCause(err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.tableName,
		Key:                       requestKey(requestID, createdAt),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return apperrors.NewDatabaseError("UpdateItem", err)
	}

	return nil
}

// AttachChat back-fills the chat id onto an approved request.
func (r *RequestRepository) AttachChat(ctx context.Context, requestID, createdAt, chatID string) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("chat_id"), expression.Value(chatID))).
		Build()
	if err != nil {
		return apperrors.NewInternalError("failed to build update expression").WithCause(err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.tableName,
		Key:                       requestKey(requestID, createdAt),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return apperrors.NewDatabaseError("UpdateItem", err)
	}

	return nil
}

// Delete removes the request row. Deleting an absent key succeeds.
func (r *RequestRepository) Delete(ctx context.Context, requestID, createdAt string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.tableName,
		Key:       requestKey(requestID, createdAt),
	})
	if err != nil {
		return apperrors.NewDatabaseError("DeleteItem", err)
	}
	return nil
}

func requestKey(requestID, createdAt string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"request_id": &types.AttributeValueMemberS{Value: requestID},
		"created_at": &types.AttributeValueMemberS{Value: createdAt},
	}
}
