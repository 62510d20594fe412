package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"lunchbot/handler"
	"lunchbot/internal/config"
	"lunchbot/internal/fulfillment"
	"lunchbot/internal/integrations/paramstore"
	"lunchbot/internal/repository"
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

	mustSet("STATE_TABLE", cfg.StateTable)
	mustSet("LUNCH_TABLE", cfg.LunchTable)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}
	dynamoClient := awsdynamodb.NewFromConfig(awsCfg)

	stateClient, err := repository.NewStateClient(dynamoClient, cfg.StateTable)
	if err != nil {
		slog.Error("failed to create state client", "err", err)
		os.Exit(1)
	}
	catalogClient, err := repository.NewCatalogClient(dynamoClient, cfg.LunchTable)
	if err != nil {
		slog.Error("failed to create catalog client", "err", err)
		os.Exit(1)
	}

	cardImageURL := cfg.CardImageURL
	if cfg.ParamPrefix != "" {
		ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			slog.Error("failed to create SSM client", "err", err)
			os.Exit(1)
		}
		cardImageURL = ssmClient.GetOrDefault(ctx, cfg.ParamPrefix+"/card_image_url", cfg.CardImageURL)
	}

	processor, err := fulfillment.NewProcessor(stateClient, catalogClient, cardImageURL, logger)
	if err != nil {
		slog.Error("failed to create processor", "err", err)
		os.Exit(1)
	}
	h, err := handler.NewFulfillment(processor, logger)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func mustSet(key, v string) {
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
}
