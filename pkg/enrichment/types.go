package enrichment

// Sentiment classification of complaint text. Adapters never return an
// empty value; SentimentUnknown is the fallback when the upstream scorer
// cannot be reached or understood.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentUnknown  Sentiment = "unknown"
)

// Category of a complaint. CategoryOther is the fallback for call
// failures and for any upstream answer outside the vocabulary.
type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryBilling   Category = "billing"
	CategoryOther     Category = "other"
)

// Outcome records how one adapter call settled. Fallback is true when the
// value is a safe default rather than a real classification; Reason says why.
type Outcome struct {
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

func ok() Outcome {
	return Outcome{}
}

func fallback(reason string) Outcome {
	return Outcome{Fallback: true, Reason: reason}
}
