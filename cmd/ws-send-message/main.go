// Package main implements the WebSocket push Lambda. It consumes domain
// events from the event bus and forwards them to the live subscribers of the
// affected chat. Delivery is best-effort; the store is the source of truth
// and clients reconcile through history fetches.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"pawdopt-backend/infrastructure/config"
	"pawdopt-backend/infrastructure/di"
)

var container *di.Container

// PushMessage is the frame delivered to WebSocket clients.
type PushMessage struct {
	Type      string                 `json:"type"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

func handler(ctx context.Context, event events.CloudWatchEvent) error {
	var detail map[string]interface{}
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return fmt.Errorf("failed to parse event detail: %w", err)
	}

	chatID, _ := detail["chat_id"].(string)
	if chatID == "" {
		// Not a chat-scoped event; nothing to push.
		container.Logger.Debug("Skipping event without chat id",
			zap.String("detailType", event.DetailType),
		)
		return nil
	}

	payload := PushMessage{
		Type:      event.DetailType,
		Timestamp: time.Now().Unix(),
		Data:      detail,
	}

	if err := container.Broadcaster.BroadcastToChat(ctx, chatID, payload); err != nil {
		container.Logger.Error("Broadcast failed",
			zap.String("chatID", chatID),
			zap.String("detailType", event.DetailType),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func main() {
	lambda.Start(handler)
}
