package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// PendingSubmission is the awaiting-confirmation state of a submitAll call.
// It is created after a successful draft flush and consumed (or cancelled)
// by the confirmation step. The TTL bounds how long the final warning may
// stay on screen before the team has to start over.
type PendingSubmission struct {
	Token      string    `json:"token"`
	TeamID     int       `json:"teamId"`
	RoundID    int       `json:"roundId"`
	ProductIDs []string  `json:"productIds"`
	FlushedAt  time.Time `json:"flushedAt"`
}

// SubmissionCache holds pending submissions in Redis under two keys: by
// confirmation token, and by (team, round) so a team can only ever have one
// pending submission per round.
type SubmissionCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSubmissionCache creates a SubmissionCache with the given confirmation TTL.
func NewSubmissionCache(redis *RedisClient, ttl time.Duration) *SubmissionCache {
	return &SubmissionCache{redis: redis, ttl: ttl}
}

func (c *SubmissionCache) keyByToken(token string) string {
	return fmt.Sprintf("submission:token:%s", token)
}

func (c *SubmissionCache) keyByTeamRound(teamID, roundID int) string {
	return fmt.Sprintf("submission:pending:%d:%d", teamID, roundID)
}

// Set stores a pending submission under both keys.
func (c *SubmissionCache) Set(ctx context.Context, p *PendingSubmission) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal pending submission: %w", err)
	}
	if err := c.redis.Set(ctx, c.keyByToken(p.Token), string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to set token key: %w", err)
	}
	if err := c.redis.Set(ctx, c.keyByTeamRound(p.TeamID, p.RoundID), p.Token, c.ttl); err != nil {
		return fmt.Errorf("failed to set team key: %w", err)
	}
	return nil
}

// GetByToken retrieves a pending submission by confirmation token.
func (c *SubmissionCache) GetByToken(ctx context.Context, token string) (*PendingSubmission, error) {
	data, err := c.redis.Get(ctx, c.keyByToken(token))
	if err != nil {
		return nil, err
	}
	var p PendingSubmission
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending submission: %w", err)
	}
	return &p, nil
}

// Delete removes a pending submission (both keys).
func (c *SubmissionCache) Delete(ctx context.Context, p *PendingSubmission) error {
	return c.redis.Delete(ctx, c.keyByToken(p.Token), c.keyByTeamRound(p.TeamID, p.RoundID))
}
