// Package main implements the dog-adopted fan-out Lambda. When a dog's
// status is finalized to adopted, every chat about that dog except the
// winning adopter's is set inactive. The dog-registry update path invokes it
// directly with {action:"updateChatStatus", adopter_id, dog_id}; approval
// alone never triggers it, since several approved adopters chat concurrently
// until the shelter finalizes the adoption. Safe to re-run: chats already
// inactive stay inactive.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"pawdopt-backend/infrastructure/config"
	"pawdopt-backend/infrastructure/di"
	"pawdopt-backend/pkg/observability"
)

const actionUpdateChatStatus = "updateChatStatus"

var (
	container *di.Container
	tracer    *observability.Tracer
)

// FanoutRequest is the direct-invocation payload.
type FanoutRequest struct {
	Action    string `json:"action"`
	AdopterID string `json:"adopter_id"`
	DogID     string `json:"dog_id"`
}

// FanoutResponse reports which chats were deactivated.
type FanoutResponse struct {
	UpdatedChats []string `json:"updatedChats"`
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

	tracer = observability.NewTracer("pawdopt.chat-fanout")
}

func handler(ctx context.Context, raw json.RawMessage) (*FanoutResponse, error) {
	adopterID, dogID, err := parseEvent(raw)
	if err != nil {
		return nil, err
	}

	tracer.AddAnnotation(ctx, "dog_id", dogID)

	var updated []string
	err = tracer.TraceFunction(ctx, "DeactivateCompetingChats", func(ctx context.Context) error {
		var err error
		updated, err = container.ChatService.DeactivateCompeting(ctx, adopterID, dogID)
		return err
	})
	if err != nil {
		container.Logger.Error("Fan-out failed",
			zap.String("dogID", dogID),
			zap.Error(err),
		)
		return nil, err
	}

	return &FanoutResponse{UpdatedChats: updated}, nil
}

// parseEvent parses the direct invocation payload. Bus events are not
// accepted as triggers: only the explicit updateChatStatus action runs the
// fan-out.
func parseEvent(raw json.RawMessage) (adopterID, dogID string, err error) {
	var direct FanoutRequest
	if err := json.Unmarshal(raw, &direct); err != nil {
		return "", "", fmt.Errorf("failed to parse invocation payload: %w", err)
	}
	if direct.Action != actionUpdateChatStatus {
		return "", "", fmt.Errorf("unsupported action %q", direct.Action)
	}
	if direct.AdopterID == "" || direct.DogID == "" {
		return "", "", fmt.Errorf("adopter_id and dog_id are required")
	}
	return direct.AdopterID, direct.DogID, nil
}

func main() {
	lambda.Start(handler)
}
