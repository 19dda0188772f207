// Package retrieval answers search and profile requests by scoring a
// container's active memories against a query.
package retrieval

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/recallstack/recall/pkg/metrics"
	"github.com/recallstack/recall/pkg/recall"
	"github.com/recallstack/recall/pkg/score"
	"github.com/recallstack/recall/pkg/store"
)

const (
	// searchCandidateLimit bounds the working set scored per search request:
	// the most recent active memories in the container(s).
	searchCandidateLimit = 200

	// profileCandidateLimit bounds the larger working set used by the
	// profile-query variant.
	profileCandidateLimit = 500

	// searchScoreFloor is the fixed low-relevance floor for search; results
	// scoring at or below it are discarded.
	searchScoreFloor = 0.05

	// DefaultProfileThreshold is the score floor for the profile-query
	// variant when the caller does not supply one.
	DefaultProfileThreshold = 0.1

	// profileResultCap caps the search results embedded in a profile response.
	profileResultCap = 10

	// profileFactLimit bounds each of the static and dynamic fact lists.
	profileFactLimit = 50

	defaultSearchLimit = 10
)

// Result pairs a memory with its relevance score.
type Result struct {
	Memory *store.MemoryRecord
	Score  float64
}

// ProfileResult is the answer to a profile request. SearchResults is nil when
// no query was supplied.
type ProfileResult struct {
	Static        []string
	Dynamic       []string
	SearchResults []Result
}

// Service orchestrates the memory store and the relevance scorer.
type Service struct {
	memories  store.MemoryStore
	profile   store.ProfileStore
	logger    *zap.Logger
	collector metrics.Collector
}

// NewService creates a retrieval service.
func NewService(memories store.MemoryStore, profile store.ProfileStore, logger *zap.Logger, collector metrics.Collector) *Service {
	return &Service{
		memories:  memories,
		profile:   profile,
		logger:    logger,
		collector: collector,
	}
}

// Search scores the most recent active memories of the given containers
// against query, drops scores at or below the fixed floor, orders by score
// descending (ties keep recency order) and truncates to limit.
func (s *Service) Search(ctx context.Context, containerTags []string, query string, limit int) ([]Result, error) {
	start := time.Now()

	if limit <= 0 {
		limit = defaultSearchLimit
	}

	records, _, err := s.memories.ListActive(ctx, containerTags, searchCandidateLimit, 0)
	if err != nil {
		s.collector.RecordError(ctx, "search", recall.ClassifyError(err))
		return nil, err
	}

	results := rank(records, query, searchScoreFloor, limit)

	s.collector.RecordOperation(ctx, "search", "success", time.Since(start).Milliseconds())
	s.logger.Debug("search completed",
		zap.Strings("containers", containerTags),
		zap.Int("candidates", len(records)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Profile returns the container's static and dynamic fact lists. When query
// is non-empty it additionally searches a larger working set with the given
// threshold as score floor (DefaultProfileThreshold when <= 0), capped at
// profileResultCap results.
func (s *Service) Profile(ctx context.Context, containerTag, query string, threshold float64) (*ProfileResult, error) {
	start := time.Now()

	if threshold <= 0 {
		threshold = DefaultProfileThreshold
	}

	static, err := s.profile.ListFacts(ctx, containerTag, store.FactTypeStatic, profileFactLimit)
	if err != nil {
		s.collector.RecordError(ctx, "profile", recall.ClassifyError(err))
		return nil, err
	}
	dynamic, err := s.profile.ListFacts(ctx, containerTag, store.FactTypeDynamic, profileFactLimit)
	if err != nil {
		s.collector.RecordError(ctx, "profile", recall.ClassifyError(err))
		return nil, err
	}

	result := &ProfileResult{Static: static, Dynamic: dynamic}

	if query != "" {
		records, _, err := s.memories.ListActive(ctx, []string{containerTag}, profileCandidateLimit, 0)
		if err != nil {
			s.collector.RecordError(ctx, "profile", recall.ClassifyError(err))
			return nil, err
		}
		result.SearchResults = rank(records, query, threshold, profileResultCap)
	}

	s.collector.RecordOperation(ctx, "profile", "success", time.Since(start).Milliseconds())
	return result, nil
}

// ListActive returns a page of active memories for the given containers,
// newest first, plus the total active count for pagination.
func (s *Service) ListActive(ctx context.Context, containerTags []string, limit, offset int) ([]*store.MemoryRecord, int64, error) {
	start := time.Now()

	records, total, err := s.memories.ListActive(ctx, containerTags, limit, offset)
	if err != nil {
		s.collector.RecordError(ctx, "list", recall.ClassifyError(err))
		return nil, 0, err
	}

	s.collector.RecordOperation(ctx, "list", "success", time.Since(start).Milliseconds())
	return records, total, nil
}

// rank scores each record against query, discards scores <= floor, sorts
// descending by score and truncates to limit. The sort is stable so ties keep
// the store's recency order.
func rank(records []*store.MemoryRecord, query string, floor float64, limit int) []Result {
	var results []Result
	for _, record := range records {
		sc := score.Score(query, record.Content)
		if sc <= floor {
			continue
		}
		results = append(results, Result{Memory: record, Score: sc})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
