// Package maintain covers the destructive and aggregate operations: forget,
// bulk delete, fact promotion, container wipe and service-wide stats.
package maintain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/recallstack/recall/pkg/metrics"
	"github.com/recallstack/recall/pkg/recall"
	"github.com/recallstack/recall/pkg/store"
)

// Service orchestrates maintenance across both stores.
type Service struct {
	memories  store.MemoryStore
	facts     store.ProfileStore
	stats     store.StatsReader
	logger    *zap.Logger
	collector metrics.Collector
}

// NewService creates a maintenance service.
func NewService(memories store.MemoryStore, facts store.ProfileStore, stats store.StatsReader, logger *zap.Logger, collector metrics.Collector) *Service {
	return &Service{
		memories:  memories,
		facts:     facts,
		stats:     stats,
		logger:    logger,
		collector: collector,
	}
}

// ForgetRequest identifies what to soft-delete. Exactly one of ID and Content
// must be set.
type ForgetRequest struct {
	ContainerTag string
	ID           string
	Content      string
}

// Forget soft-deletes by id (at most one row) or by exact content match
// (every active row with that content). Returns whether anything matched;
// a miss is not an error.
func (s *Service) Forget(ctx context.Context, req ForgetRequest) (bool, error) {
	if (req.ID == "") == (req.Content == "") {
		return false, fmt.Errorf("%w: exactly one of id or content must be provided", recall.ErrValidation)
	}

	tag := req.ContainerTag
	if tag == "" {
		tag = "default"
	}

	if req.ID != "" {
		forgotten, err := s.memories.ForgetByID(ctx, tag, req.ID)
		if err != nil {
			s.collector.RecordError(ctx, "forget", recall.ClassifyError(err))
			return false, err
		}
		return forgotten, nil
	}

	affected, err := s.memories.ForgetByContent(ctx, tag, req.Content)
	if err != nil {
		s.collector.RecordError(ctx, "forget", recall.ClassifyError(err))
		return false, err
	}
	return affected > 0, nil
}

// BulkDelete hard-deletes memories by id, regardless of container or
// soft-delete state. Returns the number of rows removed.
func (s *Service) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids must be a non-empty list", recall.ErrValidation)
	}

	deleted, err := s.memories.DeleteByIDs(ctx, ids)
	if err != nil {
		s.collector.RecordError(ctx, "delete_bulk", recall.ClassifyError(err))
		return 0, err
	}

	s.logger.Info("bulk delete", zap.Int("requested", len(ids)), zap.Int64("deleted", deleted))
	return deleted, nil
}

// Promote reclassifies a dynamic fact as static. Returns whether any row was
// flipped; promoting a fact with no dynamic rows is a no-op.
func (s *Service) Promote(ctx context.Context, containerTag, fact string) (bool, error) {
	if strings.TrimSpace(fact) == "" {
		return false, fmt.Errorf("%w: fact is required", recall.ErrValidation)
	}
	if containerTag == "" {
		containerTag = "default"
	}

	promoted, err := s.facts.Promote(ctx, containerTag, fact)
	if err != nil {
		s.collector.RecordError(ctx, "promote", recall.ClassifyError(err))
		return false, err
	}
	return promoted, nil
}

// Stats aggregates counts across all containers. The fact count includes
// facts whose source memory has been forgotten or deleted; facts are never
// cascaded.
type Stats struct {
	Memories   int64
	Facts      int64
	Containers []string
}

// Stats returns the active memory count, the total fact count and the
// distinct container tags.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	start := time.Now()

	memories, err := s.stats.CountActiveMemories(ctx)
	if err != nil {
		s.collector.RecordError(ctx, "stats", recall.ClassifyError(err))
		return nil, err
	}
	facts, err := s.stats.CountFacts(ctx)
	if err != nil {
		s.collector.RecordError(ctx, "stats", recall.ClassifyError(err))
		return nil, err
	}
	containers, err := s.stats.ContainerTags(ctx)
	if err != nil {
		s.collector.RecordError(ctx, "stats", recall.ClassifyError(err))
		return nil, err
	}
	if containers == nil {
		containers = []string{}
	}

	s.collector.SetStorageCount(ctx, "memories", memories)
	s.collector.SetStorageCount(ctx, "facts", facts)
	s.collector.RecordOperation(ctx, "stats", "success", time.Since(start).Milliseconds())

	return &Stats{Memories: memories, Facts: facts, Containers: containers}, nil
}

// WipeContainer hard-deletes every memory and every fact in the container.
// Irreversible.
func (s *Service) WipeContainer(ctx context.Context, containerTag string) error {
	if strings.TrimSpace(containerTag) == "" {
		return fmt.Errorf("%w: containerTag is required", recall.ErrValidation)
	}

	if err := s.memories.Wipe(ctx, containerTag); err != nil {
		s.collector.RecordError(ctx, "wipe", recall.ClassifyError(err))
		return err
	}
	if err := s.facts.Wipe(ctx, containerTag); err != nil {
		s.collector.RecordError(ctx, "wipe", recall.ClassifyError(err))
		return err
	}

	s.logger.Info("container wiped", zap.String("container", containerTag))
	return nil
}
