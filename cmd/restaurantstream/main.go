package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"lunchbot/internal/config"
	"lunchbot/internal/repository"
	"lunchbot/internal/stream"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	mustSet("LUNCH_TABLE", cfg.LunchTable)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	catalogClient, err := repository.NewCatalogClient(awsdynamodb.NewFromConfig(awsCfg), cfg.LunchTable)
	if err != nil {
		slog.Error("failed to create catalog client", "err", err)
		os.Exit(1)
	}
	reactor, err := stream.NewRestaurantReactor(catalogClient, logger)
	if err != nil {
		slog.Error("failed to create reactor", "err", err)
		os.Exit(1)
	}

	lambda.Start(reactor.Handle)
}

func mustSet(key, v string) {
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
}
