package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/StratSim/stratsim_api/internal/models"
)

// Grades for a completed round are immutable until a result re-import, so a
// long TTL is safe; imports invalidate explicitly.
const gradeTTL = 24 * time.Hour

// GradeCache caches the computed cohort grades of a completed round.
type GradeCache struct {
	redis *RedisClient
}

// NewGradeCache creates a new GradeCache.
func NewGradeCache(redis *RedisClient) *GradeCache {
	return &GradeCache{redis: redis}
}

func (c *GradeCache) key(roundID int) string {
	return fmt.Sprintf("grades:round:%d", roundID)
}

// Set caches the full grade list for a round.
func (c *GradeCache) Set(ctx context.Context, roundID int, grades []models.RoundGrade) error {
	data, err := json.Marshal(grades)
	if err != nil {
		return fmt.Errorf("failed to marshal grades: %w", err)
	}
	return c.redis.Set(ctx, c.key(roundID), string(data), gradeTTL)
}

// Get returns the cached grade list for a round, or a cache-miss error.
func (c *GradeCache) Get(ctx context.Context, roundID int) ([]models.RoundGrade, error) {
	data, err := c.redis.Get(ctx, c.key(roundID))
	if err != nil {
		return nil, err
	}
	var grades []models.RoundGrade
	if err := json.Unmarshal([]byte(data), &grades); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grades: %w", err)
	}
	return grades, nil
}

// Invalidate drops the cached grades for a round, e.g. after a result import.
func (c *GradeCache) Invalidate(ctx context.Context, roundID int) error {
	return c.redis.Delete(ctx, c.key(roundID))
}
