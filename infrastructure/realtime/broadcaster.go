// Package realtime pushes payloads to live WebSocket clients through the
// API Gateway Management API.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
)

// Broadcaster implements ports.Broadcaster by posting to each live
// connection subscribed to a chat. Delivery is best-effort: a failed post is
// logged and skipped, and a Gone connection is deleted so it is never tried
// again.
type Broadcaster struct {
	connections ports.ConnectionRepository
	awsConfig   aws.Config
	endpoint    string
	logger      *zap.Logger

	mu      sync.Mutex
	clients map[string]*apigatewaymanagementapi.Client
}

// Compile-time interface check
var _ ports.Broadcaster = (*Broadcaster)(nil)

// NewBroadcaster creates a Broadcaster. endpoint is the default API Gateway
// WebSocket endpoint, used when a stored connection has no endpoint of its
// own.
func NewBroadcaster(awsConfig aws.Config, connections ports.ConnectionRepository, endpoint string, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		connections: connections,
		awsConfig:   awsConfig,
		endpoint:    endpoint,
		logger:      logger,
		clients:     make(map[string]*apigatewaymanagementapi.Client),
	}
}

// BroadcastToChat sends payload to every live subscriber of chatID.
func (b *Broadcaster) BroadcastToChat(ctx context.Context, chatID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast payload: %w", err)
	}

	subscribers, err := b.connections.FindByChat(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to look up chat subscribers: %w", err)
	}
	if len(subscribers) == 0 {
		return nil
	}

	sent := 0
	for _, conn := range subscribers {
		endpoint := conn.Endpoint
		if endpoint == "" {
			endpoint = b.endpoint
		}

		if err := b.post(ctx, endpoint, conn.ConnectionID, data); err != nil {
			b.logger.Warn("Failed to post to connection",
				zap.String("chatID", chatID),
				zap.String("connectionID", conn.ConnectionID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	b.logger.Debug("Chat broadcast complete",
		zap.String("chatID", chatID),
		zap.Int("subscribers", len(subscribers)),
		zap.Int("delivered", sent),
	)

	return nil
}

func (b *Broadcaster) post(ctx context.Context, endpoint, connectionID string, data []byte) error {
	client := b.clientFor(endpoint)

	_, err := client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connectionID),
		Data:         data,
	})
	if err != nil {
		var gone *apigwtypes.GoneException
		if errors.As(err, &gone) {
			// The client disconnected without a disconnect event. Drop the
			// registration so future broadcasts skip it.
			if delErr := b.connections.Delete(ctx, connectionID); delErr != nil {
				b.logger.Warn("Failed to remove stale connection",
					zap.String("connectionID", connectionID),
					zap.Error(delErr),
				)
			}
			return nil
		}
		return err
	}

	return nil
}

// clientFor returns a Management API client for the endpoint, caching per
// endpoint because each WebSocket stage has its own callback URL.
func (b *Broadcaster) clientFor(endpoint string) *apigatewaymanagementapi.Client {
	b.mu.Lock()
	defer b.mu.Unlock()

	if client, ok := b.clients[endpoint]; ok {
		return client
	}

	client := apigatewaymanagementapi.NewFromConfig(b.awsConfig, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s", endpoint))
	})
	b.clients[endpoint] = client
	return client
}
