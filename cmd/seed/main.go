// Command seed loads catalog rows into the lunch-options table for local
// and development stacks. Input is a JSON array of catalog entries:
//
//	[{"officeLocation": "Kamppi", "cuisineType": "Thai",
//	  "restaurants": [{"name": "Thai Place", "rating": 4.5, "visits": 12}]}]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"lunchbot/internal/config"
	"lunchbot/internal/domain"
)

func main() {
	file := flag.String("file", "seed.json", "path to the catalog seed file")
	flag.Parse()

	// .env is optional; the real environment wins either way.
	_ = godotenv.Load()

	if err := run(context.Background(), *file); err != nil {
		slog.Error("seeding failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, file string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.LunchTable == "" {
		return fmt.Errorf("LUNCH_TABLE is not set")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var entries []domain.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}
	client := awsdynamodb.NewFromConfig(awsCfg)

	for _, entry := range entries {
		if entry.OfficeLocation == "" || entry.CuisineType == "" {
			return fmt.Errorf("entry is missing officeLocation or cuisineType")
		}
		item, err := attributevalue.MarshalMap(entry)
		if err != nil {
			return fmt.Errorf("marshal entry %s/%s: %w", entry.OfficeLocation, entry.CuisineType, err)
		}
		_, err = client.PutItem(ctx, &awsdynamodb.PutItemInput{
			TableName: aws.String(cfg.LunchTable),
			Item:      item,
		})
		if err != nil {
			return fmt.Errorf("put entry %s/%s: %w", entry.OfficeLocation, entry.CuisineType, err)
		}
		slog.Info("seeded catalog entry",
			"officeLocation", entry.OfficeLocation,
			"cuisineType", entry.CuisineType,
			"restaurants", len(entry.Restaurants))
	}
	return nil
}
