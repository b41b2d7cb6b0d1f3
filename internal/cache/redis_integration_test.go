package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/MichalMitros/cms-sync/internal/cache"
	"github.com/go-faker/faker/v4"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/suite"
)

type RedisIntegrationTestSuite struct {
	suite.Suite
	client *redis.Client
	prefix string
}

func TestIntegrationRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}

	suite.Run(t, &RedisIntegrationTestSuite{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	})
}

func (s *RedisIntegrationTestSuite) SetupTest() {
	s.prefix = "test:" + faker.UUIDDigit() + ":"
}

func (s *RedisIntegrationTestSuite) TearDownSuite() {
	s.Require().NoError(s.client.Close(), "can't close redis client")
}

type payload struct {
	Slug  string   `json:"slug"`
	Tags  []string `json:"tags"`
	Price float64  `json:"price"`
}

func (s *RedisIntegrationTestSuite) TestSetGet() {
	ctx := context.TODO()
	store := cache.NewRedis[[]payload](s.client, s.prefix)
	want := []payload{{Slug: "desk-1", Tags: []string{"oak"}, Price: 99.99}}

	s.Require().NoError(store.Set(ctx, "products", want, time.Minute), "should store value")

	got, ok, err := store.Get(ctx, "products")
	s.Require().NoError(err, "should read value")
	s.True(ok, "should find stored value")
	s.Equal(want, got, "should decode stored value")

	ttl, err := s.client.TTL(ctx, s.prefix+"products").Result()
	s.Require().NoError(err, "should read ttl")
	s.Positive(ttl, "should store value with ttl")
}

func (s *RedisIntegrationTestSuite) TestGetMissing() {
	store := cache.NewRedis[[]payload](s.client, s.prefix)

	got, ok, err := store.Get(context.TODO(), "missing")

	s.Require().NoError(err, "shouldn't treat missing key as error")
	s.False(ok, "should report missing key")
	s.Nil(got, "should return zero value")
}

func (s *RedisIntegrationTestSuite) TestExpiry() {
	ctx := context.TODO()
	store := cache.NewRedis[string](s.client, s.prefix)

	s.Require().NoError(store.Set(ctx, "short", "value", 50*time.Millisecond), "should store value")
	time.Sleep(150 * time.Millisecond)

	_, ok, err := store.Get(ctx, "short")
	s.Require().NoError(err, "should read value")
	s.False(ok, "should expire value")
}

func (s *RedisIntegrationTestSuite) TestGetStale() {
	ctx := context.TODO()
	store := cache.NewRedis[string](s.client, s.prefix)

	s.Require().NoError(store.Set(ctx, "short", "value", 50*time.Millisecond), "should store value")
	time.Sleep(150 * time.Millisecond)

	_, ok, err := store.Get(ctx, "short")
	s.Require().NoError(err, "should read value")
	s.False(ok, "should expire value")

	stale, ok, err := store.GetStale(ctx, "short")
	s.Require().NoError(err, "should read stale value")
	s.True(ok, "should keep stale value")
	s.Equal("value", stale, "should return last stored value")

	s.Require().NoError(store.Delete(ctx, "short"), "should delete value")
	_, ok, err = store.GetStale(ctx, "short")
	s.Require().NoError(err, "should read stale value")
	s.False(ok, "should delete stale value")
}

func (s *RedisIntegrationTestSuite) TestDeleteAndClear() {
	ctx := context.TODO()
	store := cache.NewRedis[string](s.client, s.prefix)
	other := cache.NewRedis[string](s.client, "other-"+s.prefix)

	for _, key := range []string{"a", "b", "c"} {
		s.Require().NoError(store.Set(ctx, key, key, time.Minute), "should store value")
	}
	s.Require().NoError(other.Set(ctx, "a", "kept", time.Minute), "should store value")

	s.Require().NoError(store.Delete(ctx, "a"), "should delete value")
	_, ok, err := store.Get(ctx, "a")
	s.Require().NoError(err, "should read value")
	s.False(ok, "should remove deleted key")

	s.Require().NoError(store.Clear(ctx), "should clear values")

	_, ok, err = store.Get(ctx, "b")
	s.Require().NoError(err, "should read value")
	s.False(ok, "should remove all prefixed keys")

	kept, ok, err := other.Get(ctx, "a")
	s.Require().NoError(err, "should read value")
	s.True(ok, "should keep keys under other prefix")
	s.Equal("kept", kept, "should keep keys under other prefix")

	s.Require().NoError(other.Clear(ctx), "should clear other values")
}
