package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"spark-quiz/internal/domain"
	"spark-quiz/internal/infra/memory"
)

// QuestionCache caches each technology's question set in Redis as one JSON
// value and falls back to the loader on a miss. Concurrent misses for the
// same technology collapse into a single load.
type QuestionCache struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) QuestionsByTechnology(ctx context.Context, technology string) ([]domain.Question, error) {
	key := c.key(technology)

	if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var questions []domain.Question
		if err := json.Unmarshal(cached, &questions); err == nil {
			return questions, nil
		}
		// Corrupt entry: drop it and reload.
		c.client.Del(ctx, key)
	}

	result, err, _ := c.sf.Do(technology, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var questions []domain.Question
			if err := json.Unmarshal(cached, &questions); err == nil {
				return questions, nil
			}
		}

		questions, err := c.loader.LoadQuestions(ctx, technology)
		if err != nil {
			return nil, err
		}

		if payload, err := json.Marshal(questions); err == nil {
			c.client.Set(ctx, key, payload, c.ttlWithJitter())
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) key(technology string) string {
	return "questions:" + technology
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
