// Package ingest handles memory creation and the fact extraction that rides
// along with it.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/recallstack/recall/pkg/extract"
	"github.com/recallstack/recall/pkg/metrics"
	"github.com/recallstack/recall/pkg/recall"
	"github.com/recallstack/recall/pkg/store"
)

// DefaultContainerTag is used when the caller does not name a container.
const DefaultContainerTag = "default"

// Service creates memories and persists their derived facts.
type Service struct {
	memories  store.MemoryStore
	logger    *zap.Logger
	collector metrics.Collector
}

// NewService creates an ingest service.
func NewService(memories store.MemoryStore, logger *zap.Logger, collector metrics.Collector) *Service {
	return &Service{
		memories:  memories,
		logger:    logger,
		collector: collector,
	}
}

// CreateRequest carries the fields of a memory to create.
type CreateRequest struct {
	ContainerTag string
	Content      string
	Metadata     map[string]interface{}
	CustomID     string
}

// Create validates the request, extracts candidate facts from the content and
// persists the memory together with its dynamic facts in one transaction.
// Returns the id of the new memory.
func (s *Service) Create(ctx context.Context, req CreateRequest) (string, error) {
	start := time.Now()

	if strings.TrimSpace(req.Content) == "" {
		return "", fmt.Errorf("%w: content is required", recall.ErrValidation)
	}

	tag := req.ContainerTag
	if tag == "" {
		tag = DefaultContainerTag
	}

	facts := extract.Facts(req.Content)

	record := &store.MemoryRecord{
		ContainerTag: tag,
		Content:      req.Content,
		Metadata:     req.Metadata,
		CustomID:     req.CustomID,
	}

	if err := s.memories.Create(ctx, record, facts); err != nil {
		s.collector.RecordError(ctx, "add", recall.ClassifyError(err))
		return "", err
	}

	s.collector.RecordOperation(ctx, "add", "success", time.Since(start).Milliseconds())
	s.logger.Debug("memory created",
		zap.String("id", record.ID),
		zap.String("container", tag),
		zap.Int("facts", len(facts)),
	)
	return record.ID, nil
}
