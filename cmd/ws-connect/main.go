// Package main implements the WebSocket $connect Lambda. A client connects
// with a chat id and its identity token; the connection is registered as a
// live subscriber of that chat.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"pawdopt-backend/application/ports"
	"pawdopt-backend/infrastructure/config"
	"pawdopt-backend/infrastructure/di"
	"pawdopt-backend/pkg/auth"
)

var (
	container *di.Container
	validator *auth.JWTValidator
)

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

	// WebSocket routes have no JWT authorizer; the token arrives as a query
	// parameter and is validated here.
	validator, err = auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
	if err != nil {
		log.Fatalf("Failed to create token validator: %v", err)
	}
}

func handler(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	chatID := req.QueryStringParameters["chatId"]
	token := req.QueryStringParameters["token"]

	if chatID == "" || token == "" {
		return respond(http.StatusBadRequest, "chatId and token query parameters are required"), nil
	}

	claims, err := validator.ValidateToken(token)
	if err != nil {
		return respond(http.StatusUnauthorized, "invalid token"), nil
	}

	c, err := container.ChatRepo.FindByID(ctx, chatID)
	if err != nil {
		return respond(http.StatusNotFound, "chat not found"), nil
	}
	if !c.HasParticipant(claims.UserID) {
		return respond(http.StatusForbidden, "not a participant of this chat"), nil
	}

	conn := ports.Connection{
		ConnectionID: req.RequestContext.ConnectionID,
		ChatID:       chatID,
		UserID:       claims.UserID,
		Endpoint:     fmt.Sprintf("%s/%s", req.RequestContext.DomainName, req.RequestContext.Stage),
	}
	if err := container.ConnectionRepo.Save(ctx, conn); err != nil {
		container.Logger.Error("Failed to register connection",
			zap.String("connectionID", conn.ConnectionID),
			zap.String("chatID", chatID),
			zap.Error(err),
		)
		return respond(http.StatusInternalServerError, "failed to register connection"), nil
	}

	container.Logger.Info("WebSocket connected",
		zap.String("connectionID", conn.ConnectionID),
		zap.String("chatID", chatID),
		zap.String("userID", claims.UserID),
	)

	return respond(http.StatusOK, "connected"), nil
}

func respond(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: status, Body: body}
}

func main() {
	lambda.Start(handler)
}
