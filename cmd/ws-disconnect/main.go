// Package main implements the WebSocket $disconnect Lambda. It drops the
// connection's subscription; a disconnect that never fires is covered by the
// Gone cleanup during broadcast and the table's TTL.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"pawdopt-backend/infrastructure/config"
	"pawdopt-backend/infrastructure/di"
)

var container *di.Container

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

func handler(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := req.RequestContext.ConnectionID

	if err := container.ConnectionRepo.Delete(ctx, connectionID); err != nil {
		// Log and report success anyway: the TTL and Gone cleanup will
		// collect whatever this missed.
		container.Logger.Warn("Failed to delete connection",
			zap.String("connectionID", connectionID),
			zap.Error(err),
		)
	} else {
		container.Logger.Info("WebSocket disconnected",
			zap.String("connectionID", connectionID),
		)
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "disconnected"}, nil
}

func main() {
	lambda.Start(handler)
}
