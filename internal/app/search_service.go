package app

import (
	"context"
	"log"
	"time"

	"resumescout/internal/model"
	"resumescout/internal/search"
)

// LogPublisher pushes completed searches onto the audit queue.
type LogPublisher interface {
	Publish(ctx context.Context, entry model.SearchLog) error
}

type SearchService struct {
	engine    *search.Engine
	publisher LogPublisher
	mode      string
}

func NewSearchService(engine *search.Engine, publisher LogPublisher, mode string) *SearchService {
	return &SearchService{
		engine:    engine,
		publisher: publisher,
		mode:      mode,
	}
}

// Search runs the query through the retrieval engine and records an
// audit entry. Publishing is best effort: a broker outage must not
// fail the search itself.
func (s *SearchService) Search(ctx context.Context, recruiterID uint, query string) ([]search.Result, error) {
	start := time.Now()

	results, err := s.engine.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		entry := model.SearchLog{
			RecruiterID: recruiterID,
			Query:       query,
			Mode:        s.mode,
			ResultCount: len(results),
			DurationMS:  time.Since(start).Milliseconds(),
		}
		if err := s.publisher.Publish(ctx, entry); err != nil {
			log.Printf("publish search log failed: %v", err)
		}
	}

	return results, nil
}
