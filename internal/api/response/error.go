package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mwangi/biasharabot/backend/internal/domain/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success          bool             `json:"success"`
	Error            string           `json:"error"`
	ErrorDescription ErrorDescription `json:"error_description"`
	Metadata         ResponseMetadata `json:"metadata"`
}

// ErrorDescription represents the error details
type ErrorDescription struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error creates an error response
func Error(appErr errors.AppError, requestID string) events.APIGatewayProxyResponse {
	// Create the response body
	response := ErrorResponse{
		Success: false,
		Error:   appErr.Code,
		ErrorDescription: ErrorDescription{
			Message: appErr.Message,
			Details: appErr.Details,
		},
		Metadata: ResponseMetadata{
			Version:   "1.0",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: requestID,
		},
	}

	// Convert the response to JSON
	body, err := json.Marshal(response)
	if err != nil {
		// Fallback for JSON marshaling errors
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"success":false,"error":"INTERNAL_ERROR","error_description":{"message":"Failed to marshal error response"}}`,
			Headers:    DefaultHeaders(),
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: appErr.StatusCode,
		Body:       string(body),
		Headers:    DefaultHeaders(),
	}
}

// ValidationError creates a validation error response
func ValidationError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewValidationError(message), requestID)
}

// NotFound creates a not found error response
func NotFound(message string) events.APIGatewayProxyResponse {
	return Error(errors.NewNotFoundError(message), "")
}

// InternalError creates an internal error response
func InternalError(message string, err error, requestID string) events.APIGatewayProxyResponse {
	// Log the error for internal debugging
	fmt.Printf("Internal error: %s: %v\n", message, err)

	// Return a generic error message to the client
	return Error(errors.NewInternalError(message, err), requestID)
}

// AuthenticationError creates an authentication error response
func AuthenticationError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewAuthenticationError(message), requestID)
}

// AuthorizationError creates an authorization error response
func AuthorizationError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewAuthorizationError(message), requestID)
}

// ConflictError creates a conflict error response
func ConflictError(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewConflictError(message), requestID)
}

// BadRequest creates a bad request error response
func BadRequest(message string, requestID string) events.APIGatewayProxyResponse {
	return Error(errors.NewValidationError(message), requestID)
}
