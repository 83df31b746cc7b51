package observability

import (
	"context"
	"testing"
	"time"
)

type testGenerationHooks struct {
	metadataStarts int
	resolveStarts  int
}

func (h *testGenerationHooks) OnMetadataStart(context.Context, string) { h.metadataStarts++ }
func (h *testGenerationHooks) OnMetadataComplete(context.Context, string, int, time.Duration, error) {
}
func (h *testGenerationHooks) OnResolveStart(context.Context, int) { h.resolveStarts++ }
func (h *testGenerationHooks) OnResolveComplete(context.Context, int, time.Duration, error) {
}

type testCacheHooks struct {
	hits int
}

func (h *testCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (h *testCacheHooks) OnCacheSet(context.Context, string, int) {}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGenerationHooks{}
	g.OnMetadataStart(ctx, "Cargo.toml")
	g.OnMetadataComplete(ctx, "Cargo.toml", 42, time.Second, nil)
	g.OnResolveStart(ctx, 42)
	g.OnResolveComplete(ctx, 42, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "metadata")
	c.OnCacheMiss(ctx, "metadata")
	c.OnCacheSet(ctx, "metadata", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Generation().(NoopGenerationHooks); !ok {
		t.Error("Generation() should return NoopGenerationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customGen := &testGenerationHooks{}
	SetGenerationHooks(customGen)
	if Generation() != customGen {
		t.Error("SetGenerationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Nil registrations are ignored
	SetGenerationHooks(nil)
	if Generation() != customGen {
		t.Error("SetGenerationHooks(nil) should keep existing hooks")
	}

	Reset()
	if _, ok := Generation().(NoopGenerationHooks); !ok {
		t.Error("Reset should restore noop generation hooks")
	}
}

func TestHooksAreInvoked(t *testing.T) {
	Reset()
	defer Reset()

	gen := &testGenerationHooks{}
	SetGenerationHooks(gen)

	ctx := context.Background()
	Generation().OnMetadataStart(ctx, "Cargo.toml")
	Generation().OnResolveStart(ctx, 3)

	if gen.metadataStarts != 1 {
		t.Errorf("metadataStarts = %d, want 1", gen.metadataStarts)
	}
	if gen.resolveStarts != 1 {
		t.Errorf("resolveStarts = %d, want 1", gen.resolveStarts)
	}
}
