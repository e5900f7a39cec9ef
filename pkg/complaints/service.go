package complaints

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reclamo-io/platform/pkg/common/logger"
	"github.com/reclamo-io/platform/pkg/enrichment"
	"gorm.io/datatypes"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Store is the persistence boundary for complaint records.
type Store interface {
	Create(ctx context.Context, c *Complaint) error
	Get(ctx context.Context, id string) (*Complaint, error)
	List(ctx context.Context, f Filter) ([]Complaint, error)
	Close(ctx context.Context, id string) (*Complaint, error)
}

// Enricher runs the classification pipeline over one submission.
type Enricher interface {
	Enrich(ctx context.Context, sub enrichment.Submission) (*enrichment.Result, error)
}

// EventPublisher emits complaint lifecycle events. Publishing is best
// effort; failures are logged and never surfaced to the API caller.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, data map[string]interface{}) error
}

type Service struct {
	enricher Enricher
	store    Store
	events   EventPublisher
}

func NewService(enricher Enricher, store Store, events EventPublisher) *Service {
	return &Service{enricher: enricher, store: store, events: events}
}

func (s *Service) Submit(ctx context.Context, sub enrichment.Submission) (*Complaint, error) {
	result, err := s.enricher.Enrich(ctx, sub)
	if err != nil {
		return nil, err
	}

	c := &Complaint{
		ID:         uuid.New().String(),
		Text:       result.Text,
		Sentiment:  string(result.Sentiment),
		Category:   string(result.Category),
		IsSpam:     result.IsSpam,
		IPAddress:  result.IPAddress,
		Location:   result.Location,
		Status:     StatusOpen,
		Enrichment: outcomesToJSON(result.Outcomes),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("persisting complaint: %w", err)
	}

	s.publish(ctx, "complaint.created", c)

	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Complaint, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Complaint, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.store.List(ctx, f)
}

func (s *Service) Close(ctx context.Context, id string) (*Complaint, error) {
	c, err := s.store.Close(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "complaint.closed", c)

	return c, nil
}

func (s *Service) publish(ctx context.Context, eventType string, c *Complaint) {
	if s.events == nil {
		return
	}
	data := map[string]interface{}{
		"complaint_id": c.ID,
		"status":       c.Status,
		"category":     c.Category,
		"is_spam":      c.IsSpam,
	}
	if err := s.events.PublishEvent(ctx, eventType, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("failed to publish complaint event")
	}
}

func outcomesToJSON(outcomes map[string]enrichment.Outcome) datatypes.JSONMap {
	m := make(datatypes.JSONMap, len(outcomes))
	for adapter, outcome := range outcomes {
		entry := map[string]interface{}{"fallback": outcome.Fallback}
		if outcome.Reason != "" {
			entry["reason"] = outcome.Reason
		}
		m[adapter] = entry
	}
	return m
}
