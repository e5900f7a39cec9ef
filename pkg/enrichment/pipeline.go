package enrichment

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var errEmptyText = errors.New("complaint text is required")

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Submission is one inbound complaint before enrichment. ForwardedFor is
// the raw X-Forwarded-For chain as received, possibly empty.
type Submission struct {
	Text         string
	ForwardedFor string
}

// Result is a fully enriched complaint. Sentiment, Category and IsSpam are
// always defined; IPAddress and Location are nil when unavailable. Outcomes
// records, per adapter that ran, whether its value is real or a fallback.
type Result struct {
	Text      string
	Sentiment Sentiment
	Category  Category
	IsSpam    bool
	IPAddress *string
	Location  *string
	Outcomes  map[string]Outcome
}

type SentimentAnalyzer interface {
	ClassifySentiment(ctx context.Context, text string) (Sentiment, Outcome)
}

type Categorizer interface {
	ClassifyCategory(ctx context.Context, text string) (Category, Outcome)
}

type SpamChecker interface {
	DetectSpam(ctx context.Context, text string) (bool, Outcome)
}

type LocationResolver interface {
	ResolveLocation(ctx context.Context, ip string) (*string, Outcome)
}

// Enricher fans the four adapter calls out over one submission and joins
// on all of them before assembling the result. Adapter failures never
// surface here; each adapter settles to its documented fallback.
type Enricher struct {
	sentiment SentimentAnalyzer
	category  Categorizer
	spam      SpamChecker
	geo       LocationResolver
}

func NewEnricher(sentiment SentimentAnalyzer, category Categorizer, spam SpamChecker, geo LocationResolver) *Enricher {
	return &Enricher{
		sentiment: sentiment,
		category:  category,
		spam:      spam,
		geo:       geo,
	}
}

// ExtractIP returns the first address of a comma-separated forwarded-for
// chain, or nil when the chain is empty.
func ExtractIP(forwardedFor string) *string {
	if strings.TrimSpace(forwardedFor) == "" {
		return nil
	}
	first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	if first == "" {
		return nil
	}
	return &first
}

func (e *Enricher) Enrich(ctx context.Context, sub Submission) (*Result, error) {
	if strings.TrimSpace(sub.Text) == "" {
		return nil, ValidationError{reason: errEmptyText}
	}

	result := &Result{
		Text:      sub.Text,
		IPAddress: ExtractIP(sub.ForwardedFor),
		Outcomes:  make(map[string]Outcome, 4),
	}

	// The four calls are independent; each goroutine writes its own
	// fields, and the WaitGroup is the join barrier.
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		sentiment, outcome := e.sentiment.ClassifySentiment(ctx, sub.Text)
		mu.Lock()
		result.Sentiment = sentiment
		result.Outcomes["sentiment"] = outcome
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		category, outcome := e.category.ClassifyCategory(ctx, sub.Text)
		mu.Lock()
		result.Category = category
		result.Outcomes["category"] = outcome
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		isSpam, outcome := e.spam.DetectSpam(ctx, sub.Text)
		mu.Lock()
		result.IsSpam = isSpam
		result.Outcomes["spam"] = outcome
		mu.Unlock()
	}()

	if result.IPAddress != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			location, outcome := e.geo.ResolveLocation(ctx, *result.IPAddress)
			mu.Lock()
			result.Location = location
			result.Outcomes["geolocation"] = outcome
			mu.Unlock()
		}()
	}

	wg.Wait()

	return result, nil
}
