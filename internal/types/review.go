package types

// Sentiment is one of the three fixed review sentiment labels.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Review is a single customer review scraped from a review page.
// Rating defaults to 0 when the page carried no parseable star value.
type Review struct {
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
}

// ClassifiedReview is a Review with its model-assigned sentiment label.
type ClassifiedReview struct {
	Text      string    `json:"text"`
	Rating    float64   `json:"rating"`
	Sentiment Sentiment `json:"sentiment"`
}

// SentimentStats counts classified reviews by label. The three counts
// always sum to the number of reviews classified.
type SentimentStats struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Tally counts the sentiment labels of a classified batch.
func Tally(reviews []ClassifiedReview) SentimentStats {
	var stats SentimentStats
	for _, r := range reviews {
		switch r.Sentiment {
		case SentimentPositive:
			stats.Positive++
		case SentimentNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}
	}
	return stats
}
