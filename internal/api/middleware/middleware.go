package middleware

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
)

// APIGatewayHandler is a function that handles API Gateway requests
type APIGatewayHandler func(context.Context, *slog.Logger, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Chain applies middlewares right to left, so the first argument is the
// outermost wrapper
func Chain(handler APIGatewayHandler, wrappers ...func(APIGatewayHandler) APIGatewayHandler) APIGatewayHandler {
	for i := len(wrappers) - 1; i >= 0; i-- {
		handler = wrappers[i](handler)
	}
	return handler
}
