package ingest

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/recallstack/recall/pkg/metrics"
	"github.com/recallstack/recall/pkg/recall"
	"github.com/recallstack/recall/pkg/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	svc := NewService(store.NewMemoryStore(s.DB()), zap.NewNop(), metrics.NewNoopCollector())
	return svc, s
}

func TestCreateRequiresContent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(ctx, CreateRequest{ContainerTag: "work", Content: content})
		if !errors.Is(err, recall.ErrValidation) {
			t.Errorf("content %q: expected validation error, got: %v", content, err)
		}
	}
}

func TestCreateDefaultsContainerTag(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	id, err := svc.Create(ctx, CreateRequest{Content: "a plain note with no trigger"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	records, _, err := store.NewMemoryStore(s.DB()).ListActive(ctx, []string{DefaultContainerTag}, 10, 0)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != id {
		t.Errorf("memory not stored under %q: %v", DefaultContainerTag, records)
	}
}

func TestCreateExtractsFacts(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	content := "We talked about the weather. I prefer working from home on Fridays."
	if _, err := svc.Create(ctx, CreateRequest{ContainerTag: "work", Content: content}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	facts, err := store.NewProfileStore(s.DB()).ListFacts(ctx, "work", store.FactTypeDynamic, 10)
	if err != nil {
		t.Fatalf("ListFacts failed: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("facts: got %v, want exactly the preference sentence", facts)
	}
	if facts[0] != "I prefer working from home on Fridays" {
		t.Errorf("fact: got %q", facts[0])
	}
}

func TestCreateKeepsMetadataAndCustomID(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	id, err := svc.Create(ctx, CreateRequest{
		ContainerTag: "work",
		Content:      "meeting notes",
		Metadata:     map[string]interface{}{"source": "calendar"},
		CustomID:     "meeting-42",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	records, _, err := store.NewMemoryStore(s.DB()).ListActive(ctx, []string{"work"}, 10, 0)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	got := records[0]
	if got.ID != id {
		t.Errorf("id: got %q, want %q", got.ID, id)
	}
	if got.CustomID != "meeting-42" {
		t.Errorf("customId: got %q", got.CustomID)
	}
	if got.Metadata["source"] != "calendar" {
		t.Errorf("metadata: got %v", got.Metadata)
	}
}
