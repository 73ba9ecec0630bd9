// Package di wires application dependencies with google/wire.
package di

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/application/services"
	"pawdopt-backend/infrastructure/config"
	"pawdopt-backend/infrastructure/messaging/eventbridge"
	"pawdopt-backend/infrastructure/persistence/dynamodb"
	"pawdopt-backend/infrastructure/realtime"
	"pawdopt-backend/pkg/auth"
	"pawdopt-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideRequestRepository creates the adoption request repository
func ProvideRequestRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.RequestRepository {
	return dynamodb.NewRequestRepository(client, cfg.RequestTable, logger)
}

// ProvideChatRepository creates the chat repository
func ProvideChatRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ChatRepository {
	return dynamodb.NewChatRepository(client, cfg.ChatTable, logger)
}

// ProvideMessageRepository creates the message repository
func ProvideMessageRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MessageRepository {
	return dynamodb.NewMessageRepository(client, cfg.MessageTable, logger)
}

// ProvideConnectionRepository creates the WebSocket connection repository
func ProvideConnectionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ConnectionRepository {
	return dynamodb.NewConnectionRepository(client, cfg.ConnectionsTable, cfg.ChatConnectionsIndex, logger)
}

// ProvideEventBus creates the EventBridge-backed event bus
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return eventbridge.NewEventBridgePublisher(client, cfg.EventBusName, logger)
}

// ProvideBroadcaster creates the WebSocket broadcaster
func ProvideBroadcaster(awsCfg aws.Config, connections ports.ConnectionRepository, cfg *config.Config, logger *zap.Logger) ports.Broadcaster {
	return realtime.NewBroadcaster(awsCfg, connections, cfg.WebSocketEndpoint, logger)
}

// ProvideMetrics creates the CloudWatch metrics recorder. Disabled
// environments get a nil recorder, which every caller treats as a no-op.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics("Pawdopt/Backend", client)
}

// ProvideDistributedRateLimiter creates the DynamoDB-backed rate limiter.
// Returns nil when no rate limit table is configured.
func ProvideDistributedRateLimiter(client *awsdynamodb.Client, cfg *config.Config) *auth.DistributedRateLimiter {
	if cfg.RateLimitTable == "" {
		return nil
	}
	return auth.NewDistributedRateLimiter(client, cfg.RateLimitTable, cfg.RateLimitPerMinute, time.Minute, "api")
}

// ProvideChatService creates the chat service
func ProvideChatService(chats ports.ChatRepository, eventBus ports.EventBus, metrics *observability.Metrics, logger *zap.Logger) *services.ChatService {
	return services.NewChatService(chats, eventBus, metrics, logger)
}

// ProvideRequestService creates the request service
func ProvideRequestService(requests ports.RequestRepository, chats *services.ChatService, eventBus ports.EventBus, logger *zap.Logger) *services.RequestService {
	return services.NewRequestService(requests, chats, eventBus, logger)
}

// ProvideMessageService creates the message service
func ProvideMessageService(messages ports.MessageRepository, chats ports.ChatRepository, eventBus ports.EventBus, logger *zap.Logger) *services.MessageService {
	return services.NewMessageService(messages, chats, eventBus, logger)
}
