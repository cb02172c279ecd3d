package config

import (
	"errors"
	"os"
	"strconv"
)

// Config represents the application configuration
// This struct contains all configuration parameters for the application
type Config struct {
	// AWS-specific configuration
	AWSRegion         string
	DynamoDBTableName string
	UserPoolID        string
	UserPoolClientID  string

	// Environment and region info
	Environment string
	Region      string

	// Projection policy overrides. Zero values mean "use the engine
	// defaults" (1.3x weekend income, 3-day low-cash buffer).
	WeekendMultiplier float64
	LowCashBufferDays int

	// Lambda detection flag (cached)
	isLambda bool
}

// LoadFromEnv loads the configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}

	// Required environment variables
	cfg.DynamoDBTableName = os.Getenv("DYNAMODB_TABLE_NAME")
	if cfg.DynamoDBTableName == "" {
		return nil, errors.New("DYNAMODB_TABLE_NAME environment variable is required")
	}

	cfg.UserPoolID = os.Getenv("USER_POOL_ID")
	if cfg.UserPoolID == "" {
		return nil, errors.New("USER_POOL_ID environment variable is required")
	}

	cfg.UserPoolClientID = os.Getenv("USER_POOL_CLIENT_ID")
	if cfg.UserPoolClientID == "" {
		return nil, errors.New("USER_POOL_CLIENT_ID environment variable is required")
	}

	// Environment and region info
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "dev" // Default to dev environment
	}

	cfg.Region = os.Getenv("REGION")
	if cfg.Region == "" {
		cfg.Region = "ke"
	}

	// AWS Region
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	if cfg.AWSRegion == "" {
		// Default AWS regions based on our region code
		switch cfg.Region {
		case "ke", "tz", "ug":
			cfg.AWSRegion = "af-south-1"
		case "in":
			cfg.AWSRegion = "ap-south-1"
		default:
			cfg.AWSRegion = "af-south-1" // Default fallback
		}
	}

	// Projection policy overrides
	if v := os.Getenv("WEEKEND_MULTIPLIER"); v != "" {
		multiplier, err := strconv.ParseFloat(v, 64)
		if err != nil || multiplier <= 0 {
			return nil, errors.New("WEEKEND_MULTIPLIER must be a positive number")
		}
		cfg.WeekendMultiplier = multiplier
	}
	if v := os.Getenv("LOW_CASH_BUFFER_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return nil, errors.New("LOW_CASH_BUFFER_DAYS must be a non-negative integer")
		}
		cfg.LowCashBufferDays = days
	}

	// Check if running in Lambda
	cfg.isLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsLambda returns true if the application is running in AWS Lambda
func (c *Config) IsLambda() bool {
	return c.isLambda
}
