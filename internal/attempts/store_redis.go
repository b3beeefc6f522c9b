package attempts

import (
	"context"
	"fmt"
	"strconv"
	"time"

	id "nagrik/pkg/domain"

	"github.com/redis/go-redis/v9"
)

const (
	redisAttemptKeyPrefix = "attempts:user:"
	redisHashKeyPrefix    = "attempts:dochash:"
)

// RedisStore persists attempt history in Redis sorted sets scored by
// submission time, so window queries are range queries.
type RedisStore struct {
	client  *redis.Client
	maxKeep time.Duration
}

// NewRedisStore constructs a Redis-backed attempt store. Keys expire after
// maxKeep so abandoned users do not accumulate state.
func NewRedisStore(client *redis.Client, maxKeep time.Duration) *RedisStore {
	return &RedisStore{
		client:  client,
		maxKeep: maxKeep,
	}
}

// Record appends an attempt to the user's sorted set and registers the
// document hash for duplicate detection.
func (s *RedisStore) Record(ctx context.Context, attempt Attempt) error {
	score := float64(attempt.At.UnixMilli())
	userKey := attemptUserKey(attempt.UserID, attempt.DocumentType)
	hashKey := attemptHashKey(attempt.UserID)

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, userKey, redis.Z{Score: score, Member: attempt.VerificationID})
	pipe.ZRemRangeByScore(ctx, userKey, "0", strconv.FormatInt(attempt.At.Add(-s.maxKeep).UnixMilli(), 10))
	pipe.Expire(ctx, userKey, s.maxKeep)
	if attempt.ContentHash != "" {
		pipe.ZAdd(ctx, hashKey, redis.Z{Score: score, Member: attempt.ContentHash})
		pipe.Expire(ctx, hashKey, s.maxKeep)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// CountSince counts attempts for the user and document type after the cutoff.
func (s *RedisStore) CountSince(ctx context.Context, userID id.UserID, documentType string, cutoff time.Time) (int, error) {
	min := strconv.FormatInt(cutoff.UnixMilli()+1, 10)
	count, err := s.client.ZCount(ctx, attemptUserKey(userID, documentType), min, "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return int(count), nil
}

// HasDocumentHash reports whether the user submitted the same document bytes
// after the cutoff.
func (s *RedisStore) HasDocumentHash(ctx context.Context, userID id.UserID, contentHash string, cutoff time.Time) (bool, error) {
	score, err := s.client.ZScore(ctx, attemptHashKey(userID), contentHash).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("check document hash: %w", err)
	}
	return time.UnixMilli(int64(score)).After(cutoff), nil
}

func attemptUserKey(userID id.UserID, documentType string) string {
	return fmt.Sprintf("%s%s:%s", redisAttemptKeyPrefix, userID.String(), documentType)
}

func attemptHashKey(userID id.UserID) string {
	return redisHashKeyPrefix + userID.String()
}
