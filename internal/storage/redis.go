package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"school-canteen/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps all per-visitor state: the session identity hash, the cart
// hash and the pending flash messages, each keyed by the cookie token and
// sharing the same TTL.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func cartKey(token string) string {
	return "cart:" + token
}

func flashKey(token string) string {
	return "flash:" + token
}

// GetSession never fails on an unknown token: it returns an anonymous session
// for the given token instead.
func (s *RedisStore) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	fields, err := s.Client.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, err
	}

	session := &domain.Session{Token: token}
	if len(fields) == 0 {
		return session, nil
	}

	session.UserID, _ = strconv.Atoi(fields["user_id"])
	session.Username = fields["username"]
	session.Role = fields["role"]
	return session, nil
}

func (s *RedisStore) SetSession(ctx context.Context, session *domain.Session) error {
	key := sessionKey(session.Token)
	if err := s.Client.HSet(ctx, key, map[string]interface{}{
		"user_id":  session.UserID,
		"username": session.Username,
		"role":     session.Role,
	}).Err(); err != nil {
		return err
	}
	return s.Client.Expire(ctx, key, s.TTL).Err()
}

// ClearSession drops identity, cart and flashes in one shot (logout).
func (s *RedisStore) ClearSession(ctx context.Context, token string) error {
	return s.Client.Del(ctx, sessionKey(token), cartKey(token), flashKey(token)).Err()
}

// AddToCart increments the quantity for itemID (creating the entry if absent)
// and returns the total item count across the cart.
func (s *RedisStore) AddToCart(ctx context.Context, token, itemID string, quantity int) (int, error) {
	key := cartKey(token)
	if err := s.Client.HIncrBy(ctx, key, itemID, int64(quantity)).Err(); err != nil {
		return 0, err
	}
	s.Client.Expire(ctx, key, s.TTL)

	quantities, err := s.Client.HVals(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range quantities {
		n, _ := strconv.Atoi(raw)
		count += n
	}
	return count, nil
}

func (s *RedisStore) GetCart(ctx context.Context, token string) (domain.Cart, error) {
	entries, err := s.Client.HGetAll(ctx, cartKey(token)).Result()
	if err != nil {
		return nil, err
	}

	cart := domain.Cart{}
	for itemID, raw := range entries {
		quantity, err := strconv.Atoi(raw)
		if err != nil || quantity <= 0 {
			continue
		}
		cart[itemID] = quantity
	}
	return cart, nil
}

func (s *RedisStore) ClearCart(ctx context.Context, token string) error {
	return s.Client.Del(ctx, cartKey(token)).Err()
}

func (s *RedisStore) PushFlash(ctx context.Context, token string, flash domain.Flash) error {
	payload, err := json.Marshal(flash)
	if err != nil {
		return err
	}
	key := flashKey(token)
	if err := s.Client.RPush(ctx, key, payload).Err(); err != nil {
		return err
	}
	return s.Client.Expire(ctx, key, s.TTL).Err()
}

// PopFlashes drains and returns all pending flash messages for the token.
func (s *RedisStore) PopFlashes(ctx context.Context, token string) ([]domain.Flash, error) {
	key := flashKey(token)

	pipe := s.Client.TxPipeline()
	entries := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	var flashes []domain.Flash
	for _, raw := range entries.Val() {
		var flash domain.Flash
		if err := json.Unmarshal([]byte(raw), &flash); err != nil {
			continue
		}
		flashes = append(flashes, flash)
	}
	return flashes, nil
}
