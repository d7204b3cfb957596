//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"botilleria/internal/ageverify/store"
	"botilleria/pkg/platform/sentinel"
	"botilleria/pkg/testutil/containers"
)

type RedisKVSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	kv    *store.RedisKV
}

func TestRedisKVSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisKVSuite))
}

func (s *RedisKVSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.kv = store.NewRedisKV(s.redis.Client)
}

func (s *RedisKVSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisKVSuite) TestSetGetDelete() {
	ctx := context.Background()
	key := store.KeyPrefix + "11111111-1111-1111-1111-111111111111"

	_, err := s.kv.Get(ctx, key)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.kv.Set(ctx, key, []byte(`{"verificationMethod":"birthdate"}`), time.Minute))

	got, err := s.kv.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal([]byte(`{"verificationMethod":"birthdate"}`), got)

	s.Require().NoError(s.kv.Delete(ctx, key))
	_, err = s.kv.Get(ctx, key)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisKVSuite) TestSetOverwrites() {
	ctx := context.Background()
	key := store.KeyPrefix + "22222222-2222-2222-2222-222222222222"

	s.Require().NoError(s.kv.Set(ctx, key, []byte("first"), time.Minute))
	s.Require().NoError(s.kv.Set(ctx, key, []byte("second"), time.Minute))

	got, err := s.kv.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal([]byte("second"), got)
}

func (s *RedisKVSuite) TestTTLGarbageCollects() {
	ctx := context.Background()
	key := store.KeyPrefix + "33333333-3333-3333-3333-333333333333"

	s.Require().NoError(s.kv.Set(ctx, key, []byte("v"), 500*time.Millisecond))

	s.Require().Eventually(func() bool {
		_, err := s.kv.Get(ctx, key)
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *RedisKVSuite) TestDeleteMissingIsNoop() {
	s.NoError(s.kv.Delete(context.Background(), store.KeyPrefix+"missing"))
}
