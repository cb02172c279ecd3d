package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// LoggingMiddleware is a middleware for logging requests and responses
type LoggingMiddleware struct{}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware() LoggingMiddleware {
	return LoggingMiddleware{}
}

// Handle handles the logging middleware
func (m LoggingMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		startTime := time.Now()

		logger.Info("REQUEST",
			"method", request.HTTPMethod,
			"path", request.Path,
			"requestId", request.RequestContext.RequestID,
			"queryParameters", request.QueryStringParameters,
			"headers", maskSensitiveHeaders(request.Headers))

		response, err := next(ctx, logger, request)

		if err != nil {
			logger.Info("ERROR", "error", err)
		}
		logger.Info("RESPONSE",
			"status", response.StatusCode,
			"duration", time.Since(startTime),
		)

		return response, err
	}
}

// maskSensitiveHeaders masks sensitive headers
func maskSensitiveHeaders(headers map[string]string) map[string]string {
	maskedHeaders := make(map[string]string, len(headers))
	for k, v := range headers {
		maskedHeaders[k] = v
	}

	sensitiveHeaders := []string{
		"Authorization",
		"X-Api-Key",
		"Cookie",
	}

	for _, header := range sensitiveHeaders {
		if _, ok := maskedHeaders[header]; ok {
			maskedHeaders[header] = "***"
		}
	}

	return maskedHeaders
}
