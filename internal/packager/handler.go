package packager

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dash-packager/internal/platform/metrics"
)

const manifestContentType = "application/dash+xml"

// Handler exposes packager HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and
// optional Metrics. Metrics may be nil to disable metric recording (e.g. in
// tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// selectRequest is the body for the stream-selection endpoints.
type selectRequest struct {
	Streams []StreamDescriptor `json:"streams"`
}

// selectResponse carries the selected subset back to the caller.
type selectResponse struct {
	Streams []StreamDescriptor `json:"streams"`
}

// BuildManifest handles POST /manifest.
// Body: a ManifestConfig; response: the MPD document as application/dash+xml.
func (h *Handler) BuildManifest(w http.ResponseWriter, r *http.Request) {
	var cfg ManifestConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.log.Debug("invalid manifest config body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	manifest, cached, err := h.svc.BuildManifest(cfg)
	if err != nil {
		if errors.Is(err, ErrNoStreams) {
			h.log.Info("manifest rejected, no streams in config")
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		h.log.Error("build manifest failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Debug("manifest built",
		slog.Bool("cached", cached),
		slog.Int("video_streams", len(cfg.VideoStreams)),
		slog.Int("audio_streams", len(cfg.AudioStreams)))

	w.Header().Set("Content-Type", manifestContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(manifest))

	if h.metrics != nil {
		if cached {
			h.metrics.IncCacheHits()
		} else {
			h.metrics.IncManifestsGenerated()
		}
	}
}

// SelectVideo handles POST /select/video.
// Body: { "streams": [...] }; response: the selected quality ladder.
func (h *Handler) SelectVideo(w http.ResponseWriter, r *http.Request) {
	h.handleSelect(w, r, h.svc.SelectVideo)
}

// SelectAudio handles POST /select/audio.
// Body: { "streams": [...] }; response: one best stream per language.
func (h *Handler) SelectAudio(w http.ResponseWriter, r *http.Request) {
	h.handleSelect(w, r, h.svc.SelectAudio)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request, selector func([]StreamDescriptor) []StreamDescriptor) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid select body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	selected := selector(req.Streams)
	if selected == nil {
		selected = []StreamDescriptor{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(selectResponse{Streams: selected}); err != nil {
		h.log.Error("encode select response", slog.String("error", err.Error()))
	}
}
