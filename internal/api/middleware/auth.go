package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/jwk"
	"go.uber.org/zap"

	"github.com/mwangi/biasharabot/backend/internal/api/response"
	"github.com/mwangi/biasharabot/backend/internal/common/config"
	"github.com/mwangi/biasharabot/backend/internal/common/utils"
)

// UserClaimsKey is the key for the user claims in the request context
type UserClaimsKey string

const (
	// UserClaimsKeyValue is the context key for user claims
	UserClaimsKeyValue UserClaimsKey = "userClaims"
)

// AuthMiddleware is a middleware for JWT authentication
type AuthMiddleware struct {
	cfg         *config.Config
	jwksURL     string
	tokenIssuer string
	jwkSet      jwk.Set
	log         *zap.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(cfg *config.Config, log *zap.Logger) *AuthMiddleware {
	m := &AuthMiddleware{
		cfg:         cfg,
		jwksURL:     utils.BuildJWKSURL(cfg.UserPoolID, cfg.AWSRegion),
		tokenIssuer: utils.GetTokenIssuer(cfg.UserPoolID, cfg.AWSRegion),
		log:         log,
	}

	// Fetch JWK set (don't fail if this fails, we'll retry on first request)
	jwkSet, err := jwk.Fetch(context.Background(), m.jwksURL)
	if err == nil {
		m.jwkSet = jwkSet
	} else {
		log.Warn("Failed to fetch JWK set, will retry on first token validation", zap.Error(err))
	}

	return m
}

// Handle handles the auth middleware
func (m *AuthMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		// Check for public paths that don't require authentication
		if isPublicPath(request.Path, request.HTTPMethod) {
			return next(ctx, logger, request)
		}

		// Extract the token from the Authorization header
		token, err := utils.ExtractBearerToken(request.Headers["Authorization"])
		if err != nil {
			return response.AuthenticationError(err.Error(), request.RequestContext.RequestID), nil
		}

		claims, err := utils.ParseJWT(token, m.keyFunc(ctx))
		if err != nil {
			m.log.Warn("Token validation failed", zap.Error(err))
			return response.AuthenticationError("invalid or expired token", request.RequestContext.RequestID), nil
		}

		// Validate the token issuer
		if claims.Issuer != m.tokenIssuer {
			return response.AuthenticationError("invalid token issuer", request.RequestContext.RequestID), nil
		}

		// Add the claims to the context
		ctx = context.WithValue(ctx, UserClaimsKeyValue, claims)

		// Call the next handler
		return next(ctx, logger, request)
	}
}

// GetClaims gets the user claims from the request context
func GetClaims(ctx context.Context) (*utils.CognitoClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKeyValue).(*utils.CognitoClaims)
	return claims, ok
}

// keyFunc returns a function that retrieves the key for JWT validation
func (m *AuthMiddleware) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		// Validate the token algorithm
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method: " + token.Method.Alg())
		}

		// Get the key ID from the token header
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("key ID not found in token header")
		}

		key, err := m.lookupKey(ctx, kid)
		if err != nil {
			return nil, err
		}

		var rawKey interface{}
		if err := key.Raw(&rawKey); err != nil {
			return nil, err
		}
		return rawKey, nil
	}
}

// lookupKey finds the signing key by ID, refreshing the JWK set once when the
// key is unknown (Cognito rotates keys)
func (m *AuthMiddleware) lookupKey(ctx context.Context, kid string) (jwk.Key, error) {
	if m.jwkSet != nil {
		if key, ok := m.jwkSet.LookupKeyID(kid); ok {
			return key, nil
		}
	}

	jwkSet, err := jwk.Fetch(ctx, m.jwksURL)
	if err != nil {
		return nil, errors.New("failed to fetch JWK set: " + err.Error())
	}
	m.jwkSet = jwkSet

	key, ok := m.jwkSet.LookupKeyID(kid)
	if !ok {
		return nil, errors.New("signing key not found for key ID " + kid)
	}
	return key, nil
}

// isPublicPath checks if the path is public (doesn't require authentication)
func isPublicPath(path string, method string) bool {
	// List of public paths
	publicPaths := map[string][]string{
		"/ping": {"GET"},
	}

	// Check if the path exists in the public paths map
	if methods, ok := publicPaths[path]; ok {
		for _, allowedMethod := range methods {
			if allowedMethod == method {
				return true
			}
		}
	}

	// Check for OPTIONS requests (CORS preflight)
	if method == "OPTIONS" {
		return true
	}

	return false
}
