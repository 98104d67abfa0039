// Package repo stores the message log of a chat session.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/chat-governanca/server/internal/agent/model"
	errx "github.com/chat-governanca/server/internal/core/error"
	logx "github.com/chat-governanca/server/pkg/logger"
)

const keyPrefix = "chat-governanca:session"

// storedMessage is the Redis representation of one log entry. Only dialogue
// text and the reasoning trace survive; tool traffic stays inside a run.
type storedMessage struct {
	Role      schema.RoleType `json:"role"`
	Content   string          `json:"content"`
	Reasoning string          `json:"reasoning,omitempty"`
	At        time.Time       `json:"at"`
}

func toStored(m *schema.Message, now time.Time) storedMessage {
	s := storedMessage{Role: m.Role, Content: m.Content, At: now.UTC()}
	if r, ok := m.Extra[model.ExtraReasoning].(string); ok {
		s.Reasoning = r
	}
	return s
}

func (s storedMessage) message() *schema.Message {
	m := &schema.Message{Role: s.Role, Content: s.Content}
	if s.Reasoning != "" {
		m.Extra = map[string]any{model.ExtraReasoning: s.Reasoning}
	}
	return m
}

// RedisConversationRepository keeps each session log in a Redis list whose
// TTL is refreshed on every append.
type RedisConversationRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
	now func() time.Time
}

func NewRedisConversationRepository(rdb redis.Cmdable, ttl time.Duration) *RedisConversationRepository {
	return &RedisConversationRepository{rdb: rdb, ttl: ttl, now: time.Now}
}

func (r *RedisConversationRepository) conversationKey(conversationID string) string {
	return fmt.Sprintf("%s:%s:messages", keyPrefix, conversationID)
}

func (r *RedisConversationRepository) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	if message == nil {
		return fmt.Errorf("add message: nil message")
	}
	b, err := json.Marshal(toStored(message, r.now()))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	key := r.conversationKey(conversationID)

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, b)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to append message to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisConversationRepository) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	key := r.conversationKey(conversationID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logx.Error().Err(err).Str("key", key).Msg("failed to load session log from redis")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]*schema.Message, 0, len(rows))
	for i, row := range rows {
		var s storedMessage
		if err := json.Unmarshal([]byte(row), &s); err != nil {
			logx.Warn().Err(err).Str("key", key).Int("index", i).Msg("skipping unreadable log entry")
			continue
		}
		msgs = append(msgs, s.message())
	}
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *RedisConversationRepository) ClearHistory(ctx context.Context, conversationID string) error {
	key := r.conversationKey(conversationID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete session log from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisConversationRepository) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	key := r.conversationKey(conversationID)
	n, err := r.rdb.LLen(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logx.Error().Err(err).Str("key", key).Msg("failed to count session messages in redis")
		return 0, errx.WrapRedis(err)
	}
	return int(n), nil
}

var _ model.ConversationRepository = (*RedisConversationRepository)(nil)
