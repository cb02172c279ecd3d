package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mwangi/biasharabot/backend/internal/api/middleware"
	"github.com/mwangi/biasharabot/backend/internal/api/response"
	"github.com/mwangi/biasharabot/backend/internal/common/utils"
	"github.com/mwangi/biasharabot/backend/internal/domain/advisor"
	commonErrors "github.com/mwangi/biasharabot/backend/internal/domain/errors"
	"github.com/mwangi/biasharabot/backend/internal/domain/ledger"
)

// AdvisorHandler handles the advisor API endpoints
type AdvisorHandler struct {
	service *advisor.Service
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(service *advisor.Service) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

// Handle routes an API Gateway request to the matching operation
func (h *AdvisorHandler) Handle(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := strings.TrimSuffix(request.Path, "/")
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")

	switch {
	case path == "/ping" && request.HTTPMethod == "GET":
		return h.Ping(ctx, logger, request)
	case path == "/forecast" && request.HTTPMethod == "GET":
		return h.GetForecast(ctx, logger, request)
	case path == "/health-score" && request.HTTPMethod == "GET":
		return h.GetHealthScore(ctx, logger, request)
	case path == "/receivables" && request.HTTPMethod == "GET":
		return h.ListReceivables(ctx, logger, request)
	case len(segments) == 3 && segments[0] == "receivables" && segments[2] == "payments" && request.HTTPMethod == "POST":
		return h.RecordPayment(ctx, logger, request, segments[1])
	case path == "/transactions" && request.HTTPMethod == "POST":
		return h.CreateTransaction(ctx, logger, request)
	}

	return response.NotFound("route not found: " + request.HTTPMethod + " " + request.Path), nil
}

// Ping handles GET /ping
func (h *AdvisorHandler) Ping(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return response.OK(map[string]string{"status": "ok"}, request.RequestContext.RequestID), nil
}

// GetForecast handles GET /forecast?days=N
func (h *AdvisorHandler) GetForecast(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID := middleware.GetOwnerID(ctx)
	if ownerID == "" {
		return response.AuthenticationError("owner not found in context", request.RequestContext.RequestID), nil
	}

	horizonDays := advisor.DefaultHorizonDays
	if days := request.QueryStringParameters["days"]; days != "" {
		n, err := utils.ParsePositiveInt(days, "days")
		if err != nil {
			return h.errorResponse(err, request), nil
		}
		horizonDays = n
	}

	report, err := h.service.Forecast(ctx, ownerID, horizonDays)
	if err != nil {
		return h.errorResponse(err, request), nil
	}

	return response.OK(report, request.RequestContext.RequestID), nil
}

// GetHealthScore handles GET /health-score
func (h *AdvisorHandler) GetHealthScore(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID := middleware.GetOwnerID(ctx)
	if ownerID == "" {
		return response.AuthenticationError("owner not found in context", request.RequestContext.RequestID), nil
	}

	result, err := h.service.Health(ctx, ownerID)
	if err != nil {
		return h.errorResponse(err, request), nil
	}

	return response.OK(result, request.RequestContext.RequestID), nil
}

// ListReceivables handles GET /receivables
func (h *AdvisorHandler) ListReceivables(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID := middleware.GetOwnerID(ctx)
	if ownerID == "" {
		return response.AuthenticationError("owner not found in context", request.RequestContext.RequestID), nil
	}

	open, err := h.service.PendingReceivables(ctx, ownerID)
	if err != nil {
		return h.errorResponse(err, request), nil
	}

	return response.OK(open, request.RequestContext.RequestID), nil
}

// paymentRequest is the body of POST /receivables/{id}/payments
type paymentRequest struct {
	Amount int64 `json:"amount"`
}

// RecordPayment handles POST /receivables/{id}/payments
func (h *AdvisorHandler) RecordPayment(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest, receivableID string) (events.APIGatewayProxyResponse, error) {
	ownerID := middleware.GetOwnerID(ctx)
	if ownerID == "" {
		return response.AuthenticationError("owner not found in context", request.RequestContext.RequestID), nil
	}

	if err := utils.ValidateUUID(receivableID); err != nil {
		return response.ValidationError("invalid receivable ID", request.RequestContext.RequestID), nil
	}

	var body paymentRequest
	if err := json.Unmarshal([]byte(request.Body), &body); err != nil {
		return response.ValidationError("invalid request body", request.RequestContext.RequestID), nil
	}

	result, err := h.service.RecordPayment(ctx, ownerID, receivableID, body.Amount)
	if err != nil {
		return h.errorResponse(err, request), nil
	}

	return response.OK(result, request.RequestContext.RequestID), nil
}

// CreateTransaction handles POST /transactions
func (h *AdvisorHandler) CreateTransaction(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ownerID := middleware.GetOwnerID(ctx)
	if ownerID == "" {
		return response.AuthenticationError("owner not found in context", request.RequestContext.RequestID), nil
	}

	var req ledger.CreateTransactionRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return response.ValidationError("invalid request body", request.RequestContext.RequestID), nil
	}

	record, err := h.service.LogTransaction(ctx, ownerID, &req)
	if err != nil {
		return h.errorResponse(err, request), nil
	}

	return response.Created(record, request.RequestContext.RequestID), nil
}

// errorResponse maps service errors to the response envelope
func (h *AdvisorHandler) errorResponse(err error, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	if appErr, ok := err.(commonErrors.AppError); ok {
		return response.Error(appErr, request.RequestContext.RequestID)
	}
	return response.InternalError("an unexpected error occurred", err, request.RequestContext.RequestID)
}
