package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mwangi/biasharabot/backend/internal/api/handlers"
	"github.com/mwangi/biasharabot/backend/internal/api/middleware"
	"github.com/mwangi/biasharabot/backend/internal/api/response"
	envconfig "github.com/mwangi/biasharabot/backend/internal/common/config"
	"github.com/mwangi/biasharabot/backend/internal/domain/advisor"
	"github.com/mwangi/biasharabot/backend/internal/domain/forecast"
	ddbclient "github.com/mwangi/biasharabot/backend/internal/platform/dynamodb/client"
	"github.com/mwangi/biasharabot/backend/internal/platform/dynamodb/repository"
)

var (
	handler middleware.APIGatewayHandler
	logger  *slog.Logger
)

func init() {
	config, err := envconfig.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load Env config: %v", err)
	}

	// Initialize logger; dev environments get debug output
	logLevel := slog.LevelDebug
	if config.IsProd() {
		logLevel = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	// Initialize DynamoDB client
	dbClient, err := ddbclient.NewDynamoDBClient(context.Background(), config.AWSRegion)
	if err != nil {
		log.Fatalf("Failed to create DynamoDB client: %v", err)
	}

	// Initialize repositories
	factory := repository.NewFactory(dbClient, config.DynamoDBTableName, logger)

	// Initialize the projection engine with any deployment overrides
	engine := forecast.NewEngine(forecastConfig(config))

	// Initialize the advisor service
	service := advisor.NewService(
		factory.OwnerRepository(),
		factory.TransactionRepository(),
		factory.StaffRepository(),
		factory.ReceivableRepository(),
		engine,
		logger,
	)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create zap logger: %v", err)
	}

	// Build the middleware chain: logging -> recovery -> auth -> owner scope
	advisorHandler := handlers.NewAdvisorHandler(service)
	handler = middleware.Chain(
		advisorHandler.Handle,
		middleware.NewLoggingMiddleware().Handle,
		middleware.NewRecoveryMiddleware().Handle,
		middleware.NewAuthMiddleware(config, zapLogger).Handle,
		middleware.NewOwnerMiddleware().Handle,
	)
}

// forecastConfig builds the engine policy from the environment overrides
func forecastConfig(cfg *envconfig.Config) forecast.Config {
	fc := forecast.DefaultConfig()
	if cfg.WeekendMultiplier > 0 {
		fc.WeekendMultiplier = decimal.NewFromFloat(cfg.WeekendMultiplier)
	}
	if cfg.LowCashBufferDays > 0 {
		fc.LowCashBufferDays = int64(cfg.LowCashBufferDays)
	}
	return fc
}

func lambdaHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// Handle CORS preflight
	if request.HTTPMethod == "OPTIONS" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    response.DefaultHeaders(),
		}, nil
	}

	return handler(ctx, logger, request)
}

func main() {
	lambda.Start(lambdaHandler)
}
