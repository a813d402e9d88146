package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	layoutStarts int
}

func (h *recordingPipelineHooks) OnLayoutStart(ctx context.Context, vizType string, gatewayCount int) {
	h.layoutStarts++
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits++
}

func TestHookRegistration(t *testing.T) {
	t.Cleanup(Reset)

	ph := &recordingPipelineHooks{}
	ch := &recordingCacheHooks{}
	SetPipelineHooks(ph)
	SetCacheHooks(ch)

	ctx := context.Background()
	Pipeline().OnLayoutStart(ctx, "radial", 3)
	Pipeline().OnLayoutComplete(ctx, "radial", time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "layout")

	if ph.layoutStarts != 1 {
		t.Errorf("layout starts = %d, want 1", ph.layoutStarts)
	}
	if ch.hits != 1 {
		t.Errorf("cache hits = %d, want 1", ch.hits)
	}
}

func TestSetNilKeepsCurrentHooks(t *testing.T) {
	t.Cleanup(Reset)

	ph := &recordingPipelineHooks{}
	SetPipelineHooks(ph)
	SetPipelineHooks(nil)

	Pipeline().OnLayoutStart(context.Background(), "radial", 1)
	if ph.layoutStarts != 1 {
		t.Error("nil registration replaced the active hooks")
	}
}

func TestReset(t *testing.T) {
	SetPipelineHooks(&recordingPipelineHooks{})
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset did not restore the no-op pipeline hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset did not restore the no-op cache hooks")
	}
}
