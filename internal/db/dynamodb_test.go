package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reelpulse/internal/models"
)

type fakeDynamo struct {
	batches     [][]types.WriteRequest
	unprocessed int
	scanPages   [][]map[string]types.AttributeValue
}

func (f *fakeDynamo) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	out := &dynamodb.BatchWriteItemOutput{}
	for table, reqs := range in.RequestItems {
		f.batches = append(f.batches, reqs)
		if f.unprocessed > 0 {
			f.unprocessed--
			out.UnprocessedItems = map[string][]types.WriteRequest{table: reqs[:1]}
		}
	}
	return out, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	page := 0
	if in.ExclusiveStartKey != nil {
		fmt.Sscanf(in.ExclusiveStartKey["page"].(*types.AttributeValueMemberN).Value, "%d", &page)
	}

	out := &dynamodb.ScanOutput{Items: f.scanPages[page]}
	if page+1 < len(f.scanPages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"page": &types.AttributeValueMemberN{Value: fmt.Sprint(page + 1)},
		}
	}
	return out, nil
}

func sentiments(n int) []models.ReviewSentiment {
	out := make([]models.ReviewSentiment, n)
	for i := range out {
		out[i] = models.ReviewSentiment{
			ReviewID:       fmt.Sprintf("r-%d", i),
			Movie:          "Barbie (2023)",
			Review:         "great",
			SentimentScore: 0.6,
			SentimentLabel: models.LabelPositive,
		}
	}
	return out
}

func TestBatchInsert_ChunksOf25(t *testing.T) {
	fake := &fakeDynamo{}
	store := NewSentimentStore(fake, "ReviewSentiments")

	require.NoError(t, store.BatchInsert(context.Background(), sentiments(60)))

	require.Len(t, fake.batches, 3)
	assert.Len(t, fake.batches[0], 25)
	assert.Len(t, fake.batches[1], 25)
	assert.Len(t, fake.batches[2], 10)

	var got models.ReviewSentiment
	require.NoError(t, attributevalue.UnmarshalMap(fake.batches[0][0].PutRequest.Item, &got))
	assert.Equal(t, "r-0", got.ReviewID)
	assert.Equal(t, models.LabelPositive, got.SentimentLabel)
	assert.NotZero(t, got.CreatedAt)
	_, hasDate := fake.batches[0][0].PutRequest.Item["date"]
	assert.False(t, hasDate)
}

func TestBatchInsert_RetriesUnprocessed(t *testing.T) {
	fake := &fakeDynamo{unprocessed: 1}
	store := NewSentimentStore(fake, "ReviewSentiments")
	store.backoff = time.Millisecond

	require.NoError(t, store.BatchInsert(context.Background(), sentiments(3)))

	require.Len(t, fake.batches, 2)
	assert.Len(t, fake.batches[1], 1)
}

func TestBatchInsert_UnprocessedAfterRetries(t *testing.T) {
	fake := &fakeDynamo{unprocessed: 10}
	store := NewSentimentStore(fake, "ReviewSentiments")
	store.backoff = time.Millisecond

	err := store.BatchInsert(context.Background(), sentiments(3))
	require.ErrorIs(t, err, ErrUnprocessedItems)
	assert.Contains(t, err.Error(), "1 sentiment items")

	assert.Len(t, fake.batches, 1+maxBatchRetries)
}

func TestBatchInsert_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSentimentStore(&fakeDynamo{}, "t").BatchInsert(ctx, sentiments(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAll_Paginates(t *testing.T) {
	page := func(ids ...string) []map[string]types.AttributeValue {
		var items []map[string]types.AttributeValue
		for _, id := range ids {
			item, err := attributevalue.MarshalMap(models.ReviewSentiment{ReviewID: id, Movie: "m"})
			require.NoError(t, err)
			items = append(items, item)
		}
		return items
	}

	fake := &fakeDynamo{scanPages: [][]map[string]types.AttributeValue{page("a", "b"), page("c")}}
	results, err := NewSentimentStore(fake, "t").All(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ReviewID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
