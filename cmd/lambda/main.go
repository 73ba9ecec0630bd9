// Package main implements the REST API Lambda behind the HTTP API Gateway.
// The gateway's JWT authorizer validates tokens; this entrypoint lifts the
// verified claims into headers for the router's auth middleware.
package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pawdopt-backend/infrastructure/config"
	"pawdopt-backend/infrastructure/di"
	"pawdopt-backend/interfaces/http/rest"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

// init runs during cold start
func init() {
	coldStartTime = time.Now()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(container)
	handler := router.Setup()

	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(coldStartTime)),
	)
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}

	// The authorizer already verified the token; pass the caller's identity
	// through to the auth middleware.
	if jwt := req.RequestContext.Authorizer; jwt != nil && jwt.JWT != nil {
		claims := jwt.JWT.Claims
		if sub, ok := claims["sub"]; ok && sub != "" {
			req.Headers["X-API-Gateway-Authorized"] = "true"
			req.Headers["X-User-ID"] = sub
			req.Headers["X-User-Role"] = claims["custom:role"]
		}
	}

	resp, err := chiLambda.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	}
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Request-ID"] = req.RequestContext.RequestID
	}

	if resp.StatusCode >= 400 {
		container.Logger.Error("Request failed",
			zap.String("method", req.RequestContext.HTTP.Method),
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("requestID", req.RequestContext.RequestID),
		)
	}

	return resp, err
}

func main() {
	lambda.Start(Handler)
}
