//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/application/services"
	"pawdopt-backend/infrastructure/config"
	"pawdopt-backend/pkg/auth"
	"pawdopt-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	RequestRepo    ports.RequestRepository
	ChatRepo       ports.ChatRepository
	MessageRepo    ports.MessageRepository
	ConnectionRepo ports.ConnectionRepository
	EventBus       ports.EventBus
	Broadcaster    ports.Broadcaster
	RequestService *services.RequestService
	ChatService    *services.ChatService
	MessageService *services.MessageService
	Metrics        *observability.Metrics
	RateLimiter    *auth.DistributedRateLimiter
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideRequestRepository,
	ProvideChatRepository,
	ProvideMessageRepository,
	ProvideConnectionRepository,
	ProvideEventBus,
	ProvideBroadcaster,
	ProvideMetrics,
	ProvideDistributedRateLimiter,
	ProvideChatService,
	ProvideRequestService,
	ProvideMessageService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
