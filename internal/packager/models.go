package packager

import "strings"

// StreamRole says what kind of media a stream descriptor carries.
type StreamRole string

const (
	// RoleVideoOnly is a video track with no audio muxed in.
	RoleVideoOnly StreamRole = "video-only"
	// RoleAudio is an audio-only track.
	RoleAudio StreamRole = "audio"
	// RoleMixed is a combined audio+video stream (legacy progressive formats).
	RoleMixed StreamRole = "mixed"
)

// ByteRanges holds the byte offsets of the initialization and index segments
// inside a single origin file. Fields are pointers so that partially supplied
// data is distinguishable from a legitimate zero offset; segment addressing is
// only emitted when all four fields are present.
type ByteRanges struct {
	InitStart  *int64 `json:"initStart,omitempty"`
	InitEnd    *int64 `json:"initEnd,omitempty"`
	IndexStart *int64 `json:"indexStart,omitempty"`
	IndexEnd   *int64 `json:"indexEnd,omitempty"`
}

// Complete reports whether all four byte-range fields are present.
// Partial byte-range data is treated the same as no byte-range data.
func (r *ByteRanges) Complete() bool {
	return r != nil && r.InitStart != nil && r.InitEnd != nil && r.IndexStart != nil && r.IndexEnd != nil
}

// StreamDescriptor describes one media variant served by the origin.
// This also matches the input JSON payload accepted by the HTTP handlers.
// Descriptors are treated as immutable values once constructed.
type StreamDescriptor struct {
	// ID is the encoding identifier (itag). It may carry a "-N" variant
	// suffix; BaseID strips it.
	ID   string     `json:"id"`
	Role StreamRole `json:"role"`

	// Resolution is one of the quality ladder labels (e.g. "1080p"),
	// or empty when the stream does not advertise one.
	Resolution string `json:"resolution,omitempty"`
	// Bitrate in bits per second; 0 means unknown.
	Bitrate int `json:"bitrate,omitempty"`
	// Codec is a free-form codec string ("h264", "avc1.42E01E", "opus", ...).
	Codec string `json:"codec,omitempty"`
	// Container is a free-form container/format token ("MP4", "WEBM", "M4A", ...).
	Container string `json:"container,omitempty"`

	// URL points at the stream on the origin server.
	URL string `json:"url"`
	// ByteRanges addresses the init and index segments inside the file at URL.
	ByteRanges *ByteRanges `json:"byteRanges,omitempty"`

	// Locale is a BCP 47 language code ("en", "es-419"); audio/subtitle tracks only.
	Locale string `json:"locale,omitempty"`
	// TrackID identifies the audio track when no locale is available.
	TrackID string `json:"trackId,omitempty"`
	// TrackName is a human-readable track label ("English (original)").
	TrackName string `json:"trackName,omitempty"`

	// Optional per-stream media parameters; 0 means unknown and the
	// manifest generator substitutes a default.
	Width           int `json:"width,omitempty"`
	Height          int `json:"height,omitempty"`
	FPS             int `json:"fps,omitempty"`
	AudioSampleRate int `json:"audioSampleRate,omitempty"`
	AudioChannels   int `json:"audioChannels,omitempty"`
}

// BaseID returns the stream id with any "-N" variant suffix stripped:
// "137-2" and "137" share the base id "137".
func (s StreamDescriptor) BaseID() string {
	if i := strings.Index(s.ID, "-"); i >= 0 {
		return s.ID[:i]
	}
	return s.ID
}

// languageKey resolves the grouping key for an audio stream:
// locale, else track id, else the undetermined-language tag.
func (s StreamDescriptor) languageKey() string {
	if s.Locale != "" {
		return s.Locale
	}
	if s.TrackID != "" {
		return s.TrackID
	}
	return undeterminedLanguage
}

// undeterminedLanguage is the BCP 47 tag for an unknown language.
const undeterminedLanguage = "und"

// ManifestConfig is the input to the manifest generator: the streams to
// advertise plus the presentation duration in seconds. Subtitle descriptors
// are accepted and carried through but not yet advertised in the manifest.
type ManifestConfig struct {
	VideoStreams []StreamDescriptor `json:"videoStreams,omitempty"`
	AudioStreams []StreamDescriptor `json:"audioStreams,omitempty"`
	Subtitles    []StreamDescriptor `json:"subtitles,omitempty"`
	Duration     float64            `json:"duration,omitempty"`
}
