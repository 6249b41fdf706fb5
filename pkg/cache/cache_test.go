package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a nil miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "layout:x"); hit || err != nil {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "layout:x", []byte(`{"a":{"x":1,"y":2}}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:x")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != `{"a":{"x":1,"y":2}}` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "layout:x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:x"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "layout:x"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := fc.(*FileCache)

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry should miss without error, got hit %v err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := fc.(*FileCache)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir should be empty, has %d entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("tree123", LayoutKeyOpts{Engine: "graphviz", RankSep: 0.5})
	lk2 := k.LayoutKey("tree123", LayoutKeyOpts{Engine: "exec", RankSep: 0.5})
	if lk1 == lk2 {
		t.Error("Different engines should produce different keys")
	}
	if lk1[:7] != "layout:" {
		t.Errorf("LayoutKey prefix unexpected: %s", lk1)
	}

	sk := k.StoryKey("req", StoryKeyOpts{Model: "gemini-2.5-flash"})
	if sk[:6] != "story:" {
		t.Errorf("StoryKey prefix unexpected: %s", sk)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "storygraph:")

	key := scoped.LayoutKey("tree", LayoutKeyOpts{Engine: "graphviz"})
	want := "storygraph:" + NewDefaultKeyer().LayoutKey("tree", LayoutKeyOpts{Engine: "graphviz"})
	if key != want {
		t.Errorf("ScopedKeyer LayoutKey = %s, want %s", key, want)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := networkError("redis get", errors.New("connection refused"))
	if !IsRetryable(err) {
		t.Error("networkError should be retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("networkError should wrap ErrNetwork")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := DefaultBackoff
	DefaultBackoff.Delay = time.Millisecond
	defer func() { DefaultBackoff = old }()

	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	permanent := errors.New("permanent")
	calls = 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return permanent }); err != permanent || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestBackoffAttempts(t *testing.T) {
	calls := 0
	b := Backoff{Attempts: 5, Delay: time.Microsecond}
	err := b.Retry(context.Background(), func() error { calls++; return Retryable(ErrNetwork) })
	if !IsRetryable(err) || calls != 5 {
		t.Errorf("Retry() = %v after %d calls, want 5 retryable failures", err, calls)
	}

	calls = 0
	_ = Backoff{}.Retry(context.Background(), func() error { calls++; return Retryable(ErrNetwork) })
	if calls != 1 {
		t.Errorf("zero Backoff made %d calls, want 1", calls)
	}
}
