package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/pkg/logger"
	redisclient "github.com/threadline/threadline-backend/pkg/redis"
)

func TestKeys(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	if got := OrderKey(id); got != "tl:orders:order:11111111-1111-1111-1111-111111111111" {
		t.Fatalf("unexpected order key %s", got)
	}
	if got := AdminOrdersKey(id, 2, 20); got != "tl:orders:admin:11111111-1111-1111-1111-111111111111:p2:s20" {
		t.Fatalf("unexpected admin key %s", got)
	}
	if got := ClientOrdersPattern(id); got != "tl:orders:client:11111111-1111-1111-1111-111111111111:*" {
		t.Fatalf("unexpected client pattern %s", got)
	}
}

type stubRedis struct {
	data       map[string]string
	patterns   []string
	getErr     error
	patternErr error
}

func (s *stubRedis) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", redisclient.Nil
	}
	return v, nil
}

func (s *stubRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.data[key] = string(value.([]byte))
	return nil
}

func (s *stubRedis) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubRedis) DelPattern(_ context.Context, pattern string) (int, error) {
	s.patterns = append(s.patterns, pattern)
	return 0, s.patternErr
}

func TestRedisCacheMissAndHit(t *testing.T) {
	ctx := context.Background()
	store := &stubRedis{data: map[string]string{}}
	c, err := NewRedisCache(store)
	if err != nil {
		t.Fatalf("new redis cache: %v", err)
	}

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("redis nil should be a clean miss, ok=%v err=%v", ok, err)
	}
	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("expected hit, got %q ok=%v err=%v", got, ok, err)
	}

	store.getErr = errors.New("i/o timeout")
	if _, _, err := c.Get(ctx, "k"); err == nil {
		t.Fatal("backend errors should surface")
	}
	if _, err := NewRedisCache(nil); err == nil {
		t.Fatal("expected error without client")
	}
}

func TestInvalidatorOrdersChanged(t *testing.T) {
	ctx := context.Background()
	c := newTestMemoryCache(t, 100)
	adminID, otherAdmin := uuid.New(), uuid.New()
	clientID := uuid.New()
	orderID, untouched := uuid.New(), uuid.New()

	for _, key := range []string{
		AdminOrdersKey(adminID, 1, 10),
		AdminOrdersKey(adminID, 2, 10),
		AdminOrdersKey(otherAdmin, 1, 10),
		ClientOrdersKey(clientID, 1, 10),
		OrderKey(orderID),
		OrderKey(untouched),
	} {
		_ = c.Set(ctx, key, []byte("x"), time.Minute)
	}

	NewInvalidator(c, nil).OrdersChanged(ctx, adminID, clientID, orderID)

	for _, key := range []string{AdminOrdersKey(otherAdmin, 1, 10), OrderKey(untouched)} {
		if _, ok, _ := c.Get(ctx, key); !ok {
			t.Fatalf("expected %s to survive", key)
		}
	}
	if c.items.Len() != 2 {
		t.Fatalf("expected only unrelated entries left, len=%d", c.items.Len())
	}
}

func TestInvalidatorSwallowsErrors(t *testing.T) {
	store := &stubRedis{data: map[string]string{}, patternErr: errors.New("connection refused")}
	c, _ := NewRedisCache(store)
	inv := NewInvalidator(c, logger.Nop())

	inv.OrdersChanged(context.Background(), uuid.New(), uuid.Nil)
	if len(store.patterns) != 1 {
		t.Fatalf("nil client should skip client pattern, got %v", store.patterns)
	}

	var nilInv *Invalidator
	nilInv.OrdersChanged(context.Background(), uuid.New(), uuid.New())
}
