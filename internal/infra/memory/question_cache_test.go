package memory

import (
	"context"
	"testing"
	"time"

	"spark-quiz/internal/domain"
)

func TestQuestionCacheCaches(t *testing.T) {
	store := NewSeededStore()
	loader := &countingLoader{store: store}
	cache := NewQuestionCache(loader, time.Minute)

	first, err := cache.QuestionsByTechnology(context.Background(), "git")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	second, err := cache.QuestionsByTechnology(context.Background(), "git")
	if err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("cache changed the payload: %d vs %d", len(first), len(second))
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	store := NewSeededStore()
	loader := &countingLoader{store: store}
	cache := NewQuestionCache(loader, time.Minute)

	now := time.Now()
	cache.clock = func() time.Time { return now }

	if _, err := cache.QuestionsByTechnology(context.Background(), "git"); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Jitter adds at most 10% on top of the TTL.
	now = now.Add(2 * time.Minute)
	if _, err := cache.QuestionsByTechnology(context.Background(), "git"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	store *Store
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, technology string) ([]domain.Question, error) {
	l.calls++
	return l.store.QuestionsByTechnology(ctx, technology)
}
