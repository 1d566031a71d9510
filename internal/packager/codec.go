package packager

import "strings"

// canonicalCodecPrefixes are codec strings already in RFC 6381 form.
// Inputs starting with one of these pass through NormalizeCodec untouched,
// which makes normalization idempotent.
var canonicalCodecPrefixes = []string{"avc1.", "vp09.", "av01.", "mp4a.", "opus", "vorbis"}

// codecAliases maps loose codec names to canonical RFC 6381 identifiers.
// Matching is case-insensitive substring, checked in this order.
var codecAliases = []struct {
	needle    string
	canonical string
}{
	{"h264", "avc1.42E01E"},
	{"vp9", "vp09.00.10.08"},
	{"av1", "av01.0.05M.08"},
	{"aac", "mp4a.40.2"},
	{"opus", "opus"},
	{"vorbis", "vorbis"},
}

// NormalizeCodec maps a loose codec string to its canonical RFC 6381
// identifier. Already-canonical inputs are returned unchanged with their
// original casing; unknown codecs pass through unmodified.
func NormalizeCodec(codec string) string {
	lower := strings.ToLower(codec)
	for _, prefix := range canonicalCodecPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return codec
		}
	}
	for _, alias := range codecAliases {
		if strings.Contains(lower, alias.needle) {
			return alias.canonical
		}
	}
	return codec
}

// formatMimeTypes maps upper-cased container/format tokens to MIME types.
// Format tokens are matched exactly, before any codec-based inference, and
// without regard to isVideo: "WEBM" always yields video/webm even for an
// audio caller (the audio token is "WEBMA").
var formatMimeTypes = map[string]string{
	"MPEG_4": "video/mp4",
	"MP4":    "video/mp4",
	"WEBM":   "video/webm",
	"V_VP9":  "video/webm",
	"VP9":    "video/webm",
	"M4A":    "audio/mp4",
	"MP4A":   "audio/mp4",
	"WEBMA":  "audio/webm",
	"OPUS":   "audio/webm",
	"VORBIS": "audio/webm",
}

// codecMimeTypes maps lower-cased codec substrings to MIME types, checked
// in this order when the format token yields nothing.
var codecMimeTypes = []struct {
	needle string
	mime   string
}{
	{"avc1", "video/mp4"},
	{"h264", "video/mp4"},
	{"vp09", "video/webm"},
	{"vp9", "video/webm"},
	{"av01", "video/mp4"},
	{"av1", "video/mp4"},
	{"mp4a", "audio/mp4"},
	{"opus", "audio/webm"},
	{"vorbis", "audio/webm"},
}

// InferMimeType derives the MIME type for a stream from its container format
// and codec. The format token wins when recognized; otherwise the codec is
// substring-matched; otherwise video/mp4 or audio/mp4 depending on isVideo.
func InferMimeType(format, codec string, isVideo bool) string {
	if mime, ok := formatMimeTypes[strings.ToUpper(format)]; ok {
		return mime
	}
	if lower := strings.ToLower(codec); lower != "" {
		for _, entry := range codecMimeTypes {
			if strings.Contains(lower, entry.needle) {
				return entry.mime
			}
		}
	}
	if isVideo {
		return "video/mp4"
	}
	return "audio/mp4"
}
