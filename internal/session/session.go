package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Session 是某个登录用户的应用状态：用户本身和正在处理的班次
type Session struct {
	User  *domain.User
	Shift *domain.ShiftData
}

// Store 把每个用户当前的班次保存在 redis 中
type Store struct {
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

func NewStore(rdb *redis.Client, ttl, timeout time.Duration) *Store {
	return &Store{
		rdb:     rdb,
		ttl:     ttl,
		timeout: timeout,
	}
}

func shiftKey(userID int64) string {
	return fmt.Sprintf("session_%d_shift", userID)
}

// Load 读取用户的会话，没有保存过班次时 Shift 为 nil
func (s *Store) Load(ctx context.Context, user *domain.User) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sess := &Session{User: user}

	data, err := s.rdb.Get(ctx, shiftKey(user.ID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sess, nil
		}
		return nil, err
	}

	shift := &domain.ShiftData{}
	if err := json.Unmarshal(data, shift); err != nil {
		// 无法解析的旧数据直接丢弃
		return sess, nil
	}
	sess.Shift = shift

	return sess, nil
}

func (s *Store) Save(ctx context.Context, sess *Session) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := json.Marshal(sess.Shift)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, shiftKey(sess.User.ID), data, s.ttl).Err()
}

func (s *Store) Clear(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.rdb.Del(ctx, shiftKey(userID)).Err()
}
