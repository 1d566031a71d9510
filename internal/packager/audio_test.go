package packager

import "testing"

func audioStream(id, locale string, bitrate int) StreamDescriptor {
	return StreamDescriptor{
		ID:      id,
		Role:    RoleAudio,
		Locale:  locale,
		Bitrate: bitrate,
		URL:     "https://origin.example/audio/" + id,
	}
}

func TestSelectBestAudioStreams_preferred_itag_wins(t *testing.T) {
	streams := []StreamDescriptor{
		audioStream("141", "en", 256000),
		audioStream("140", "en", 128000),
		audioStream("141-1", "es", 256000),
	}
	got := SelectBestAudioStreams(streams)

	if len(got) != 2 {
		t.Fatalf("expected 2 streams (one per language), got %d", len(got))
	}
	if got[0].Locale != "en" || got[0].Bitrate != 256000 {
		t.Errorf("first should be en@256000 (itag 141 preferred), got %s@%d", got[0].Locale, got[0].Bitrate)
	}
	if got[1].Locale != "es" || got[1].Bitrate != 256000 {
		t.Errorf("second should be es@256000, got %s@%d", got[1].Locale, got[1].Bitrate)
	}
}

func TestSelectBestAudioStreams_itag_priority_order(t *testing.T) {
	// 140 outranks 251 in the preference list even at a lower bitrate.
	streams := []StreamDescriptor{
		audioStream("251", "en", 160000),
		audioStream("140", "en", 128000),
	}
	got := SelectBestAudioStreams(streams)

	if len(got) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(got))
	}
	if got[0].ID != "140" {
		t.Errorf("expected itag 140 to win, got %s", got[0].ID)
	}
}

func TestSelectBestAudioStreams_m4a_fallback(t *testing.T) {
	// No preferred itags; the best M4A/AAC stream beats a higher-bitrate
	// non-AAC stream.
	streams := []StreamDescriptor{
		{ID: "900", Role: RoleAudio, Locale: "en", Bitrate: 192000, Container: "WEBMA", Codec: "opus"},
		{ID: "901", Role: RoleAudio, Locale: "en", Bitrate: 96000, Container: "M4A", Codec: "aac"},
		{ID: "902", Role: RoleAudio, Locale: "en", Bitrate: 64000, Container: "M4A", Codec: "aac"},
	}
	got := SelectBestAudioStreams(streams)

	if len(got) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(got))
	}
	if got[0].ID != "901" {
		t.Errorf("expected highest-bitrate M4A stream 901, got %s", got[0].ID)
	}
}

func TestSelectBestAudioStreams_bitrate_fallback(t *testing.T) {
	streams := []StreamDescriptor{
		{ID: "910", Role: RoleAudio, Locale: "fr", Bitrate: 96000, Container: "WEBMA", Codec: "flac"},
		{ID: "911", Role: RoleAudio, Locale: "fr", Bitrate: 160000, Container: "WEBMA", Codec: "flac"},
		{ID: "912", Role: RoleAudio, Locale: "fr", Bitrate: 160000, Container: "WEBMA", Codec: "flac"},
	}
	got := SelectBestAudioStreams(streams)

	if len(got) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(got))
	}
	// Ties break to the first-encountered stream.
	if got[0].ID != "911" {
		t.Errorf("expected first 160k stream 911, got %s", got[0].ID)
	}
}

func TestSelectBestAudioStreams_language_priority(t *testing.T) {
	streams := []StreamDescriptor{
		audioStream("140", "fr", 128000),
		audioStream("140-1", "de", 128000),
		audioStream("140-2", "en", 128000),
		audioStream("140-3", "", 128000), // no locale or track id -> "und"
	}
	got := SelectBestAudioStreams(streams)

	if len(got) != 4 {
		t.Fatalf("expected 4 streams, got %d", len(got))
	}
	wantLocales := []string{"", "en", "de", "fr"}
	for i, locale := range wantLocales {
		if got[i].Locale != locale {
			t.Errorf("position %d: got locale %q, want %q", i, got[i].Locale, locale)
		}
	}
}

func TestSelectBestAudioStreams_original_track_first(t *testing.T) {
	streams := []StreamDescriptor{
		audioStream("140", "en", 128000),
		{ID: "140-1", Role: RoleAudio, TrackID: "original", Bitrate: 128000},
	}
	got := SelectBestAudioStreams(streams)

	if len(got) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(got))
	}
	if got[0].TrackID != "original" {
		t.Errorf("original track should sort before English, got %q first", got[0].TrackID)
	}
}

func TestSelectBestAudioStreams_groups_by_track_id_without_locale(t *testing.T) {
	streams := []StreamDescriptor{
		{ID: "920", Role: RoleAudio, TrackID: "audio-a", Bitrate: 96000},
		{ID: "921", Role: RoleAudio, TrackID: "audio-a", Bitrate: 128000},
		{ID: "922", Role: RoleAudio, TrackID: "audio-b", Bitrate: 64000},
	}
	got := SelectBestAudioStreams(streams)

	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
}

func TestSelectBestAudioStreams_locale_normalization_merges_groups(t *testing.T) {
	// "EN" and "en" are the same language; underscore locales fold too.
	streams := []StreamDescriptor{
		audioStream("930", "EN", 128000),
		audioStream("931", "en", 96000),
		audioStream("932", "pt_BR", 128000),
		audioStream("933", "pt-BR", 96000),
	}
	got := SelectBestAudioStreams(streams)

	if len(got) != 2 {
		t.Fatalf("expected 2 groups after normalization, got %d", len(got))
	}
}

func TestSelectBestAudioStreams_ignores_non_audio(t *testing.T) {
	streams := []StreamDescriptor{
		{ID: "137", Role: RoleVideoOnly, Resolution: "1080p"},
		audioStream("140", "en", 128000),
	}
	got := SelectBestAudioStreams(streams)

	if len(got) != 1 || got[0].ID != "140" {
		t.Errorf("expected only the audio stream, got %v", got)
	}
}

func TestSelectBestAudioStreams_empty(t *testing.T) {
	if got := SelectBestAudioStreams(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en_US", "en-US"},
		{"EN-US", "en-US"},
		{"es-419", "es-419"},
		{"und", "und"},
	}
	for _, c := range cases {
		if got := normalizeLanguage(c.in); got != c.want {
			t.Errorf("normalizeLanguage(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLanguageClass(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"und", 0},
		{"original", 0},
		{"en", 1},
		{"en-US", 1},
		{"de", 2},
		{"es-419", 2},
	}
	for _, c := range cases {
		if got := languageClass(c.in); got != c.want {
			t.Errorf("languageClass(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
