package models

const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"
)

// ReviewSentiment is one scored review in long format.
type ReviewSentiment struct {
	ReviewID       string  `json:"review_id" dynamodbav:"review_id"`
	Movie          string  `json:"movie" dynamodbav:"movie"`
	Review         string  `json:"review" dynamodbav:"review"`
	SentimentScore float64 `json:"sentiment_score" dynamodbav:"sentiment_score"`
	SentimentLabel string  `json:"sentiment_label" dynamodbav:"sentiment_label"`
	Date           string  `json:"date,omitempty" dynamodbav:"date,omitempty"`
	CreatedAt      int64   `json:"created_at,omitempty" dynamodbav:"created_at,omitempty"`
}
