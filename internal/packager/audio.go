package packager

import (
	"sort"
	"strings"
)

// preferredAudioItags ranks known audio encodings best-first. The audio
// selector and the video top-up pass deliberately use separate lists.
var preferredAudioItags = []string{"141", "140", "251", "250", "249", "139"}

// audioLanguageGroup is one language bucket built during selection or
// manifest generation. Groups are ephemeral and rebuilt per call.
type audioLanguageGroup struct {
	key     string // normalized language code
	streams []StreamDescriptor
}

// SelectBestAudioStreams returns at most one audio stream per language.
// Streams are grouped by locale (else track id, else "und"), the best
// representative is chosen per group, and the result is ordered by language
// priority: undetermined/original first, then English, then the remaining
// languages alphabetically.
func SelectBestAudioStreams(streams []StreamDescriptor) []StreamDescriptor {
	groups := groupAudioByLanguage(streams)
	if len(groups) == 0 {
		return nil
	}

	chosen := make([]StreamDescriptor, 0, len(groups))
	for _, g := range groups {
		chosen = append(chosen, bestAudioInGroup(g.streams))
	}

	sort.SliceStable(chosen, func(i, j int) bool {
		return compareLanguagePriority(
			normalizeLanguage(chosen[i].languageKey()),
			normalizeLanguage(chosen[j].languageKey()),
		) < 0
	})

	return chosen
}

// groupAudioByLanguage buckets the audio-role streams by normalized language
// code, preserving first-seen group order so downstream output stays
// deterministic.
func groupAudioByLanguage(streams []StreamDescriptor) []audioLanguageGroup {
	audio := make([]StreamDescriptor, 0, len(streams))
	for _, s := range streams {
		if s.Role == RoleAudio {
			audio = append(audio, s)
		}
	}
	return groupAudioStreams(audio)
}

// bestAudioInGroup picks the representative stream for one language group:
// first match on the preferred itag list wins; else the highest-bitrate
// M4A/AAC stream; else the highest-bitrate stream overall. Bitrate ties go
// to the first-encountered stream.
func bestAudioInGroup(group []StreamDescriptor) StreamDescriptor {
	for _, itag := range preferredAudioItags {
		for _, s := range group {
			if s.BaseID() == itag {
				return s
			}
		}
	}

	best := -1
	for i, s := range group {
		if !isM4AStream(s) {
			continue
		}
		if best < 0 || s.Bitrate > group[best].Bitrate {
			best = i
		}
	}
	if best >= 0 {
		return group[best]
	}

	best = 0
	for i, s := range group {
		if s.Bitrate > group[best].Bitrate {
			best = i
		}
	}
	return group[best]
}

// isM4AStream reports whether a stream's container or codec indicates
// M4A/AAC audio.
func isM4AStream(s StreamDescriptor) bool {
	switch strings.ToUpper(s.Container) {
	case "M4A", "MP4A":
		return true
	}
	lower := strings.ToLower(s.Codec)
	return strings.Contains(lower, "mp4a") || strings.Contains(lower, "aac")
}

// normalizeLanguage canonicalizes a language code: underscores become
// hyphens and the primary subtag is lower-cased ("en_US" -> "en-US",
// "EN" -> "en"). Subtags after the first are left as supplied.
func normalizeLanguage(code string) string {
	code = strings.ReplaceAll(code, "_", "-")
	if i := strings.Index(code, "-"); i >= 0 {
		return strings.ToLower(code[:i]) + code[i:]
	}
	return strings.ToLower(code)
}

// languageClass buckets a normalized language code for ordering:
// class 0 for undetermined/original tracks, class 1 for English,
// class 2 for everything else.
func languageClass(normalized string) int {
	primary := normalized
	if i := strings.Index(primary, "-"); i >= 0 {
		primary = primary[:i]
	}
	switch primary {
	case undeterminedLanguage, "original":
		return 0
	case "en":
		return 1
	default:
		return 2
	}
}

// compareLanguagePriority orders two normalized language codes by class,
// then alphabetically within a class.
func compareLanguagePriority(a, b string) int {
	ca, cb := languageClass(a), languageClass(b)
	if ca != cb {
		return ca - cb
	}
	return strings.Compare(a, b)
}
