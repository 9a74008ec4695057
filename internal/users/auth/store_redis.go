package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/encoding/json"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements [SessionRepository].
//
// Each session is a JSON value under auth:session:<token hash> expiring with
// the session. A per-user set auth:user_sessions:<user id> indexes the hashes
// for bulk revocation.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSession + userID
}

func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("redis_session_create_failed: session already expired")
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, sessionKey(session.TokenHash), payload, ttl)
		pipe.SAdd(context, userSessionsKey(session.UserID), session.TokenHash)
		pipe.Expire(context, userSessionsKey(session.UserID), RefreshTokenTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

/*
FindByTokenHash loads a session.

Returns:
  - *Session: The stored session
  - error: apperr.NotFound when the session is unknown, revoked or expired
*/
func (repository *RedisSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	raw, err := repository.client.Get(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}
	return session, nil
}

func (repository *RedisSessionRepository) Revoke(context context.Context, session *Session) error {
	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, sessionKey(session.TokenHash))
		pipe.SRem(context, userSessionsKey(session.UserID), session.TokenHash)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}
	return nil
}

func (repository *RedisSessionRepository) RevokeAll(context context.Context, userID, keepHash string) error {
	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_session_list_failed: %w", err)
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		for _, hash := range hashes {
			if hash == keepHash {
				continue
			}
			pipe.Del(context, sessionKey(hash))
			pipe.SRem(context, userSessionsKey(userID), hash)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}
	return nil
}
