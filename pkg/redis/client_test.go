package redis

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/threadline/threadline-backend/pkg/config"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Set(ctx, "tl:orders:order:1", "payload", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := client.Get(ctx, "tl:orders:order:1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "payload" {
		t.Fatalf("expected payload, got %q", got)
	}
	if err := client.Del(ctx, "tl:orders:order:1"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "tl:orders:order:1"); !errors.Is(err, Nil) {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
	if err := client.Del(ctx); err != nil {
		t.Fatalf("empty del should be a no-op: %v", err)
	}
}

func TestDelPatternWalksEveryScanPage(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.pageSize = 2
	client := &Client{store: mock}

	for i := 1; i <= 5; i++ {
		mock.data[fmt.Sprintf("tl:orders:admin:a1:p%d:s10", i)] = "x"
	}
	mock.data["tl:orders:admin:a2:p1:s10"] = "keep"
	mock.data["tl:orders:order:9"] = "keep"

	deleted, err := client.DelPattern(ctx, "tl:orders:admin:a1:*")
	if err != nil {
		t.Fatalf("del pattern failed: %v", err)
	}
	if deleted != 5 {
		t.Fatalf("expected 5 deleted keys, got %d", deleted)
	}
	if len(mock.data) != 2 {
		t.Fatalf("unrelated keys should survive, left %v", mock.data)
	}
	if mock.scanCalls < 3 {
		t.Fatalf("expected paginated scans, got %d calls", mock.scanCalls)
	}
}

func TestDelPatternPropagatesScanError(t *testing.T) {
	mock := newMockCmdable()
	mock.scanErr = errors.New("connection reset")
	client := &Client{store: mock}

	if _, err := client.DelPattern(context.Background(), "tl:*"); err == nil {
		t.Fatal("expected scan error")
	}
}

func TestPublish(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Publish(context.Background(), EventsChannel("admin-1"), `{"type":"order_created"}`); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if got := mock.published["tl:events:admin-1"]; len(got) != 1 {
		t.Fatalf("expected one message on channel, got %v", mock.published)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close without raw client should be nil, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "tl:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.IdempotencyKey("scope", ""); got != "tl:idempotency:scope" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
	if got := EventsChannel("admin-1"); got != "tl:events:admin-1" {
		t.Fatalf("unexpected events channel %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/3", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 3 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options db=%d pool=%d", opts.DB, opts.PoolSize)
	}
	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 2 {
		t.Fatalf("unexpected options addr=%s db=%d", opts.Addr, opts.DB)
	}
}

type mockCmdable struct {
	data      map[string]string
	published map[string][]any
	pageSize  int
	scanCalls int
	scanErr   error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data:      make(map[string]string),
		published: make(map[string][]any),
		pageSize:  100,
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

// Scan pages over a sorted snapshot; a non-zero cursor is the next offset plus one.
func (m *mockCmdable) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	m.scanCalls++
	if m.scanErr != nil {
		return redis.NewScanCmdResult(nil, 0, m.scanErr)
	}
	all := make([]string, 0, len(m.data))
	for key := range m.data {
		all = append(all, key)
	}
	sort.Strings(all)

	start := 0
	if cursor > 0 {
		start = int(cursor) - 1
	}
	if start > len(all) {
		start = len(all)
	}
	end := start + m.pageSize
	if end > len(all) {
		end = len(all)
	}
	var keys []string
	for _, key := range all[start:end] {
		if ok, _ := path.Match(match, key); ok {
			keys = append(keys, key)
		}
	}
	var next uint64
	if end < len(all) {
		// matched keys are deleted by the caller, shifting the snapshot left
		next = uint64(end-len(keys)) + 1
	}
	return redis.NewScanCmdResult(keys, next, nil)
}

func (m *mockCmdable) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	m.published[channel] = append(m.published[channel], message)
	return redis.NewIntResult(1, nil)
}
