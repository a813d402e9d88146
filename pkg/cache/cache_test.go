package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, err := c.Get(ctx, "key"); err != nil || hit {
		t.Errorf("NullCache stored data: hit=%v err=%v", hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	t.Run("round trip", func(t *testing.T) {
		if err := c.Set(ctx, "layout:abc", []byte("payload"), time.Hour); err != nil {
			t.Fatalf("Set: %v", err)
		}
		data, hit, err := c.Get(ctx, "layout:abc")
		if err != nil || !hit {
			t.Fatalf("Get: hit=%v err=%v", hit, err)
		}
		if string(data) != "payload" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("miss", func(t *testing.T) {
		if _, hit, _ := c.Get(ctx, "unknown"); hit {
			t.Error("hit on unknown key")
		}
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
			t.Fatalf("Set: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if _, hit, _ := c.Get(ctx, "short"); hit {
			t.Error("expired entry served as hit")
		}
	})

	t.Run("delete", func(t *testing.T) {
		_ = c.Set(ctx, "gone", []byte("x"), 0)
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "gone"); hit {
			t.Error("deleted entry served as hit")
		}
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Errorf("deleting a missing key errored: %v", err)
		}
	})
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h3 := Hash([]byte("world")); h1 == h3 {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := LayoutKeyOpts{VizType: "radial", Width: 800, Height: 800, Gap: 90}

	if k.LayoutKey("abc", opts) != k.LayoutKey("abc", opts) {
		t.Error("keyer is not deterministic")
	}
	if k.LayoutKey("abc", opts) == k.LayoutKey("def", opts) {
		t.Error("different map hashes share a key")
	}
	gapped := opts
	gapped.Gap = 180
	if k.LayoutKey("abc", opts) == k.LayoutKey("abc", gapped) {
		t.Error("different gaps share a key")
	}

	aOpts := ArtifactKeyOpts{Format: "svg", Interactive: true}
	bOpts := ArtifactKeyOpts{Format: "svg", Interactive: true, Focus: "gateway:PaymentGW"}
	if k.ArtifactKey("abc", aOpts) == k.ArtifactKey("abc", bOpts) {
		t.Error("focused and unfocused artifacts share a key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")
	opts := LayoutKeyOpts{VizType: "radial"}

	got := scoped.LayoutKey("abc", opts)
	want := "staging:" + inner.LayoutKey("abc", opts)
	if got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("non-retryable fails immediately", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return context.DeadlineExceeded
		})
		if err == nil || calls != 1 {
			t.Errorf("calls = %d, err = %v", calls, err)
		}
	})

	t.Run("retryable eventually succeeds", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			if calls < 2 {
				return Retryable(context.DeadlineExceeded)
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Errorf("calls = %d, err = %v", calls, err)
		}
	})
}
