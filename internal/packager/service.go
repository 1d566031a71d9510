package packager

import "log/slog"

// Service wires stream selection, manifest generation, and the manifest
// cache together. The selectors and generator are pure; the cache is the
// only state the service holds.
type Service struct {
	gen   *Generator
	cache *Cache
	log   *slog.Logger
}

// NewService returns a Service using gen and cache. cache may be nil to
// disable caching (e.g. in tests).
func NewService(gen *Generator, cache *Cache, log *slog.Logger) *Service {
	return &Service{gen: gen, cache: cache, log: log}
}

// BuildManifest returns the MPD document for cfg, serving repeat configs
// from the cache. cached reports whether the manifest came from the cache.
func (s *Service) BuildManifest(cfg ManifestConfig) (manifest string, cached bool, err error) {
	key := ConfigKey(cfg)
	if s.cache != nil {
		if m, ok := s.cache.Get(key); ok {
			return m, true, nil
		}
	}

	manifest, err = s.gen.Generate(cfg)
	if err != nil {
		return "", false, err
	}
	if s.cache != nil {
		s.cache.Set(key, manifest)
	}
	return manifest, false, nil
}

// SelectVideo picks the deduplicated quality ladder from streams.
func (s *Service) SelectVideo(streams []StreamDescriptor) []StreamDescriptor {
	return SelectVideoStreams(streams)
}

// SelectAudio picks the best stream per language from streams.
func (s *Service) SelectAudio(streams []StreamDescriptor) []StreamDescriptor {
	return SelectBestAudioStreams(streams)
}

// CacheEntries returns the number of cached manifests, 0 when caching is
// disabled. Used for metrics.
func (s *Service) CacheEntries() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}
