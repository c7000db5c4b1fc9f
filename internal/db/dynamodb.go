package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/spacesedan/reelpulse/internal/models"
)

const (
	maxBatchSize    = 25
	maxBatchRetries = 3
)

// ErrUnprocessedItems is returned when DynamoDB keeps rejecting part of a
// batch after every retry.
var ErrUnprocessedItems = errors.New("unprocessed items remain")

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// SentimentStore persists scored reviews to a DynamoDB table keyed by
// review_id.
type SentimentStore struct {
	client  DynamoDBAPI
	table   string
	backoff time.Duration
}

func NewSentimentStore(client DynamoDBAPI, table string) *SentimentStore {
	return &SentimentStore{
		client:  client,
		table:   table,
		backoff: 500 * time.Millisecond,
	}
}

// BatchInsert writes results in batches of 25, retrying unprocessed items
// with exponential backoff. Items still unprocessed after the last retry
// fail the insert with ErrUnprocessedItems.
func (s *SentimentStore) BatchInsert(ctx context.Context, results []models.ReviewSentiment) error {
	createdAt := time.Now().Unix()

	for i := 0; i < len(results); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := min(i+maxBatchSize, len(results))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, result := range results[i:end] {
			if result.CreatedAt == 0 {
				result.CreatedAt = createdAt
			}
			item, err := attributevalue.MarshalMap(result)
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to marshal review %s: %w", result.ReviewID, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored review sentiments",
		slog.String("table", s.table),
		slog.Int("count", len(results)))
	return nil
}

func (s *SentimentStore) writeBatch(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write review sentiments: %w", err)
	}

	retryCount := 0
	backoff := s.backoff
	for len(out.UnprocessedItems) > 0 && retryCount < maxBatchRetries {
		time.Sleep(backoff)
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed sentiment items...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.table])))

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error %w", err)
		}
		retryCount++
	}

	if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
		slog.Error("[DynamoDB] Some sentiment items failed after retries",
			slog.Int("remaining", remaining))
		return fmt.Errorf("[DynamoDB] %d sentiment items not written after %d retries: %w",
			remaining, maxBatchRetries, ErrUnprocessedItems)
	}
	return nil
}

// All scans the whole table.
func (s *SentimentStore) All(ctx context.Context) ([]models.ReviewSentiment, error) {
	var results []models.ReviewSentiment

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for review sentiments failed: %w", err)
		}

		var page []models.ReviewSentiment
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal current page", slog.String("error", err.Error()))
			return nil, err
		}
		results = append(results, page...)
	}

	slog.Info("[DynamoDB] Successfully retrieved review sentiments", slog.Int("count", len(results)))
	return results, nil
}
