package packager

import "sort"

// QualityLadder lists the standard resolution tiers in selection priority
// order, best first. It must never be mutated.
var QualityLadder = [...]string{"2160p", "1440p", "1080p", "720p", "480p", "360p", "240p", "144p"}

// minVideoQualities is the minimum number of video streams the selector
// tries to return before giving up on the itag top-up pass.
const minVideoQualities = 3

// preferredVideoItags ranks fallback video encodings best-first, used to top
// up the selection when the ladder walk yields fewer than minVideoQualities
// streams (typically because streams lack resolution labels).
var preferredVideoItags = []string{"315", "313", "308", "271", "248", "137", "247", "136", "244", "135", "243", "134"}

// SelectVideoStreams picks a deduplicated, quality-ordered subset of the
// video-only streams in streams. Each ladder tier contributes at most one
// stream, and no two results share a base id. Streams without a resolution
// label can only surface through the itag top-up pass.
func SelectVideoStreams(streams []StreamDescriptor) []StreamDescriptor {
	var candidates []StreamDescriptor
	for _, s := range streams {
		if s.Role == RoleVideoOnly {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	var selected []StreamDescriptor
	usedResolution := make(map[string]bool)
	usedBase := make(map[string]bool)

	// Walk the ladder top-down, one stream per tier.
	for _, tier := range QualityLadder {
		if usedResolution[tier] {
			continue
		}
		for _, s := range candidates {
			if s.Resolution != tier || usedBase[s.BaseID()] {
				continue
			}
			selected = append(selected, s)
			usedResolution[tier] = true
			usedBase[s.BaseID()] = true
			break
		}
	}

	// Top up thin selections from the itag preference list, skipping base
	// ids and resolutions already represented.
	if len(selected) < minVideoQualities {
		for _, itag := range preferredVideoItags {
			if len(selected) >= minVideoQualities {
				break
			}
			for _, s := range candidates {
				if s.BaseID() != itag || usedBase[itag] {
					continue
				}
				if s.Resolution != "" && usedResolution[s.Resolution] {
					continue
				}
				selected = append(selected, s)
				usedBase[itag] = true
				if s.Resolution != "" {
					usedResolution[s.Resolution] = true
				}
				break
			}
		}
	}

	// Keep the result in ladder order; unlabeled streams sort last.
	sort.SliceStable(selected, func(i, j int) bool {
		return ladderRank(selected[i].Resolution) < ladderRank(selected[j].Resolution)
	})

	return selected
}

// ladderRank returns the index of a resolution label in the quality ladder,
// or len(QualityLadder) for labels not on the ladder.
func ladderRank(resolution string) int {
	for i, tier := range QualityLadder {
		if tier == resolution {
			return i
		}
	}
	return len(QualityLadder)
}
