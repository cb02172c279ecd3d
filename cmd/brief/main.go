package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/shopspring/decimal"

	envconfig "github.com/mwangi/biasharabot/backend/internal/common/config"
	"github.com/mwangi/biasharabot/backend/internal/domain/advisor"
	"github.com/mwangi/biasharabot/backend/internal/domain/forecast"
	ddbclient "github.com/mwangi/biasharabot/backend/internal/platform/dynamodb/client"
	"github.com/mwangi/biasharabot/backend/internal/platform/dynamodb/repository"
)

var (
	service *advisor.Service
	logger  *slog.Logger
)

func init() {
	config, err := envconfig.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load Env config: %v", err)
	}

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

	fc := forecast.DefaultConfig()
	if config.WeekendMultiplier > 0 {
		fc.WeekendMultiplier = decimal.NewFromFloat(config.WeekendMultiplier)
	}
	if config.LowCashBufferDays > 0 {
		fc.LowCashBufferDays = int64(config.LowCashBufferDays)
	}

	service = advisor.NewService(
		factory.OwnerRepository(),
		factory.TransactionRepository(),
		factory.StaffRepository(),
		factory.ReceivableRepository(),
		forecast.NewEngine(fc),
		logger,
	)
}

// handler runs the scheduled morning brief: refresh every owner's forecast
// and health score, and log the outcome of each.
func handler(ctx context.Context) error {
	summary, err := service.RefreshAll(ctx, advisor.DefaultHorizonDays)
	if err != nil {
		logger.Error("brief run failed", "error", err)
		return err
	}

	for _, brief := range summary.Briefs {
		logger.Info("owner brief",
			"ownerId", brief.OwnerID,
			"score", brief.Score,
			"status", brief.Status,
			"firstProblemDay", brief.FirstProblemDay,
		)
	}

	logger.Info("brief run complete",
		"owners", summary.Owners,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return nil
}

func main() {
	lambda.Start(handler)
}
