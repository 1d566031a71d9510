package packager

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func newTestService(cache *Cache) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(NewGenerator(log), cache, log)
}

func TestService_BuildManifest_caches(t *testing.T) {
	svc := newTestService(NewCache(8))
	cfg := testConfig(125.5)

	first, cached, err := svc.BuildManifest(cfg)
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	if cached {
		t.Error("first build should be a cache miss")
	}

	second, cached, err := svc.BuildManifest(cfg)
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	if !cached {
		t.Error("second build should be a cache hit")
	}
	if first != second {
		t.Error("cached manifest must match the generated one")
	}
	if svc.CacheEntries() != 1 {
		t.Errorf("CacheEntries = %d, want 1", svc.CacheEntries())
	}
}

func TestService_BuildManifest_nil_cache(t *testing.T) {
	svc := newTestService(nil)
	cfg := testConfig(60)

	out, cached, err := svc.BuildManifest(cfg)
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	if cached || out == "" {
		t.Errorf("expected uncached generation: cached=%v", cached)
	}
	if svc.CacheEntries() != 0 {
		t.Errorf("CacheEntries = %d without a cache, want 0", svc.CacheEntries())
	}
}

func TestService_BuildManifest_no_streams(t *testing.T) {
	svc := newTestService(NewCache(8))

	_, _, err := svc.BuildManifest(ManifestConfig{Duration: 60})
	if !errors.Is(err, ErrNoStreams) {
		t.Errorf("expected ErrNoStreams, got %v", err)
	}
	if svc.CacheEntries() != 0 {
		t.Error("failed builds must not populate the cache")
	}
}

func TestService_SelectVideo(t *testing.T) {
	svc := newTestService(nil)
	streams := []StreamDescriptor{
		videoStream("136", "720p"),
		videoStream("137", "1080p"),
	}

	got := svc.SelectVideo(streams)
	if len(got) != 2 || got[0].Resolution != "1080p" {
		t.Errorf("unexpected video selection: %v", got)
	}
}

func TestService_SelectAudio(t *testing.T) {
	svc := newTestService(nil)
	streams := []StreamDescriptor{
		audioStream("140", "es", 128000),
		audioStream("140-1", "en", 128000),
	}

	got := svc.SelectAudio(streams)
	if len(got) != 2 || got[0].Locale != "en" {
		t.Errorf("unexpected audio selection: %v", got)
	}
}
