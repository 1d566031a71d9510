package packager

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

// ErrNoStreams is returned by Generate when the config carries neither video
// nor audio streams; there is nothing a player could play.
var ErrNoStreams = errors.New("manifest config has no video or audio streams")

// Defaults substituted for media parameters the origin did not report.
const (
	defaultVideoBandwidth = 1000000
	defaultAudioBandwidth = 128000
	defaultWidth          = 1920
	defaultHeight         = 1080
	defaultFrameRate      = 30
	defaultSampleRate     = 44100
	defaultChannels       = 2
)

const audioChannelScheme = "urn:mpeg:dash:23003:3:audio_channel_configuration:2011"

// xmlEscaper escapes the five XML special characters. A single Replacer pass
// guarantees values are escaped exactly once.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// Generator synthesizes static on-demand DASH MPD documents from stream
// descriptors. Generation is a pure function of the config: the same config
// always yields the same bytes, so output is safe to cache.
type Generator struct {
	log *slog.Logger
}

// NewGenerator returns a Generator that reports non-fatal conditions through
// log. A nil log discards them.
func NewGenerator(log *slog.Logger) *Generator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{log: log}
}

// Generate builds the MPD document for cfg. It fails only when cfg has no
// streams at all; every other irregularity degrades gracefully and the
// returned document is always syntactically complete.
func (g *Generator) Generate(cfg ManifestConfig) (string, error) {
	if len(cfg.VideoStreams) == 0 && len(cfg.AudioStreams) == 0 {
		return "", ErrNoStreams
	}
	if cfg.Duration <= 0 {
		g.log.Warn("manifest duration is zero or missing, emitting PT0S",
			slog.Int("video_streams", len(cfg.VideoStreams)),
			slog.Int("audio_streams", len(cfg.AudioStreams)))
	}

	duration := FormatDuration(cfg.Duration)

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&b, "<MPD xmlns=\"urn:mpeg:dash:schema:mpd:2011\" type=\"static\" mediaPresentationDuration=\"%s\" minBufferTime=\"PT2S\" profiles=\"urn:mpeg:dash:profile:isoff-on-demand:2011\">\n", duration)
	fmt.Fprintf(&b, "  <Period duration=\"%s\">\n", duration)

	if len(cfg.VideoStreams) > 0 {
		g.writeVideoAdaptationSet(&b, cfg.VideoStreams)
	}
	g.writeAudioAdaptationSets(&b, cfg.AudioStreams)

	b.WriteString("  </Period>\n")
	b.WriteString("</MPD>\n")

	return b.String(), nil
}

// writeVideoAdaptationSet emits the single video AdaptationSet (id 0) with
// one Representation per stream. The set-level mime type is inferred from
// the first stream.
func (g *Generator) writeVideoAdaptationSet(b *strings.Builder, streams []StreamDescriptor) {
	first := streams[0]
	mime := InferMimeType(first.Container, first.Codec, true)

	fmt.Fprintf(b, "    <AdaptationSet id=\"0\" contentType=\"video\" mimeType=\"%s\" subsegmentAlignment=\"true\" startWithSAP=\"1\">\n", mime)
	for i, s := range streams {
		bandwidth := s.Bitrate
		if bandwidth <= 0 {
			bandwidth = defaultVideoBandwidth
		}
		width, height := s.Width, s.Height
		if width <= 0 {
			width = defaultWidth
		}
		if height <= 0 {
			height = defaultHeight
		}
		frameRate := s.FPS
		if frameRate <= 0 {
			frameRate = defaultFrameRate
		}

		fmt.Fprintf(b, "      <Representation id=\"video-%d\" bandwidth=\"%d\" codecs=\"%s\" width=\"%d\" height=\"%d\" frameRate=\"%d\">\n",
			i+1, bandwidth, escapeXML(NormalizeCodec(s.Codec)), width, height, frameRate)
		fmt.Fprintf(b, "        <BaseURL>%s</BaseURL>\n", escapeXML(s.URL))
		writeSegmentBase(b, s.ByteRanges)
		b.WriteString("      </Representation>\n")
	}
	b.WriteString("    </AdaptationSet>\n")
}

// writeAudioAdaptationSets groups the input audio streams by normalized
// language in first-seen order and emits one AdaptationSet per language,
// ids starting at 1. Grouping is independent of any prior selection so the
// generator also serves multi-quality-per-language configs.
func (g *Generator) writeAudioAdaptationSets(b *strings.Builder, streams []StreamDescriptor) {
	// The generator advertises every audio stream it is given, whatever
	// the role field says; grouping only needs the language key.
	groups := groupAudioStreams(streams)

	for setIndex, group := range groups {
		setID := setIndex + 1
		first := group.streams[0]
		mime := InferMimeType(first.Container, first.Codec, false)
		label := first.TrackName
		if label == "" {
			label = first.languageKey()
		}

		fmt.Fprintf(b, "    <AdaptationSet id=\"%d\" contentType=\"audio\" mimeType=\"%s\" lang=\"%s\" label=\"%s\">\n",
			setID, mime, escapeXML(first.languageKey()), escapeXML(label))

		for i, s := range group.streams {
			bandwidth := s.Bitrate
			if bandwidth <= 0 {
				bandwidth = defaultAudioBandwidth
			}
			samplingRate := s.AudioSampleRate
			if samplingRate <= 0 {
				samplingRate = defaultSampleRate
			}
			channels := s.AudioChannels
			if channels <= 0 {
				channels = defaultChannels
			}

			fmt.Fprintf(b, "      <Representation id=\"audio-%d-%d\" bandwidth=\"%d\" codecs=\"%s\" audioSamplingRate=\"%d\">\n",
				setID, i+1, bandwidth, escapeXML(NormalizeCodec(s.Codec)), samplingRate)
			fmt.Fprintf(b, "        <AudioChannelConfiguration schemeIdUri=\"%s\" value=\"%d\"/>\n", audioChannelScheme, channels)
			fmt.Fprintf(b, "        <BaseURL>%s</BaseURL>\n", escapeXML(s.URL))
			writeSegmentBase(b, s.ByteRanges)
			b.WriteString("      </Representation>\n")
		}
		b.WriteString("    </AdaptationSet>\n")
	}
}

// groupAudioStreams buckets streams by normalized language in first-seen
// order, without filtering on role. The selector's role filter does not
// apply here: callers may hand the generator any audio list.
func groupAudioStreams(streams []StreamDescriptor) []audioLanguageGroup {
	var groups []audioLanguageGroup
	index := make(map[string]int)

	for _, s := range streams {
		key := normalizeLanguage(s.languageKey())
		if i, ok := index[key]; ok {
			groups[i].streams = append(groups[i].streams, s)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, audioLanguageGroup{key: key, streams: []StreamDescriptor{s}})
	}

	return groups
}

// writeSegmentBase emits the SegmentBase/Initialization pair addressing the
// index and init segments, or nothing when the byte ranges are incomplete.
func writeSegmentBase(b *strings.Builder, r *ByteRanges) {
	if !r.Complete() {
		return
	}
	fmt.Fprintf(b, "        <SegmentBase indexRange=\"%d-%d\">\n", *r.IndexStart, *r.IndexEnd)
	fmt.Fprintf(b, "          <Initialization range=\"%d-%d\"/>\n", *r.InitStart, *r.InitEnd)
	b.WriteString("        </SegmentBase>\n")
}

// FormatDuration renders a duration in seconds as an ISO-8601 duration
// string: 3665 -> "PT1H1M5S", 10.5 -> "PT10.500S". Zero and negative
// inputs produce "PT0S". Fractional seconds are always padded to three
// decimal digits.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "PT0S"
	}

	hours := int(seconds / 3600)
	remainder := seconds - float64(hours)*3600
	minutes := int(remainder / 60)
	secs := remainder - float64(minutes)*60

	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if secs > 0 {
		if secs == math.Trunc(secs) {
			fmt.Fprintf(&b, "%dS", int(secs))
		} else {
			fmt.Fprintf(&b, "%.3fS", secs)
		}
	}
	return b.String()
}
