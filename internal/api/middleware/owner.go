package middleware

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mwangi/biasharabot/backend/internal/api/response"
	"github.com/mwangi/biasharabot/backend/internal/domain/owner"
)

// OwnerContextKey is the key for the owner context in the request context
type OwnerContextKey string

const (
	// OwnerContextKeyValue is the context key for owner information
	OwnerContextKeyValue OwnerContextKey = "owner"
)

// OwnerMiddleware is a middleware for extracting and validating the owner scope
type OwnerMiddleware struct {
}

// NewOwnerMiddleware creates a new owner middleware
func NewOwnerMiddleware() *OwnerMiddleware {
	return &OwnerMiddleware{}
}

// Handle handles the owner middleware for Lambda functions
func (m *OwnerMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		// Public paths carry no claims and need no owner scope
		if isPublicPath(request.Path, request.HTTPMethod) {
			return next(ctx, logger, request)
		}

		// Extract the claims from the context
		claims, ok := GetClaims(ctx)
		if !ok {
			return response.AuthenticationError("user claims not found in context", request.RequestContext.RequestID), nil
		}

		// Get owner ID from the claim, falling back to the token subject
		ownerID := claims.OwnerID
		if ownerID == "" {
			ownerID = claims.Subject
		}

		// If the X-Owner-Id header is present it must match the claim; a
		// caller can never reach another owner's data by swapping headers
		if headerOwnerID := request.Headers["X-Owner-Id"]; headerOwnerID != "" && headerOwnerID != ownerID {
			return response.AuthorizationError("user does not have access to owner "+headerOwnerID, request.RequestContext.RequestID), nil
		}

		// Create owner context
		ownerCtx := &owner.OwnerContext{
			OwnerID: ownerID,
			Subject: claims.Subject,
			Phone:   claims.Phone,
		}

		// Add owner context to the request context
		ctx = context.WithValue(ctx, OwnerContextKeyValue, ownerCtx)

		// Call the next handler
		return next(ctx, logger, request)
	}
}

// GetOwnerID gets the owner ID from the request context
func GetOwnerID(ctx context.Context) string {
	ownerCtx, ok := ctx.Value(OwnerContextKeyValue).(*owner.OwnerContext)
	if !ok {
		return ""
	}
	return ownerCtx.OwnerID
}

// GetOwnerContext gets the owner context from the request context
func GetOwnerContext(ctx context.Context) (*owner.OwnerContext, bool) {
	ownerCtx, ok := ctx.Value(OwnerContextKeyValue).(*owner.OwnerContext)
	return ownerCtx, ok
}
