package domain

// Audience tracks. A user's track is derived from their free-text study
// direction; an event's tags name the tracks it is meant for.
const (
	TrackBachelor     = "bachelor"
	TrackMaster       = "master"
	TrackPostgraduate = "postgraduate"
)

// TagAll is a legacy sentinel: an event tagged "all" (or with no tags at
// all) is visible to every audience segment.
const TagAll = "all"

// TagOrder is the fixed tag vocabulary in display order.
var TagOrder = []string{TrackBachelor, TrackMaster, TrackPostgraduate}

var knownTags = map[string]struct{}{
	TrackBachelor:     {},
	TrackMaster:       {},
	TrackPostgraduate: {},
}

// IsKnownTag reports whether slug belongs to the tag vocabulary.
// The "all" sentinel is not a selectable tag.
func IsKnownTag(slug string) bool {
	_, ok := knownTags[slug]
	return ok
}

// NormalizeTags reduces a tag selection to known tags in vocabulary order.
// Used when committing a tag-selection session; the "all" sentinel is dropped
// together with anything else outside the vocabulary.
func NormalizeTags(tags []string) []string {
	selected := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		selected[tag] = struct{}{}
	}
	out := make([]string, 0, len(TagOrder))
	for _, slug := range TagOrder {
		if _, ok := selected[slug]; ok {
			out = append(out, slug)
		}
	}
	return out
}

// SanitizeTags drops unknown tags on the persistence write path while
// keeping the legacy "all" sentinel intact. Duplicates are removed,
// first occurrence wins.
func SanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag != TagAll && !IsKnownTag(tag) {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// AllTags returns a fresh copy of the full vocabulary, the default
// selection for a new event.
func AllTags() []string {
	out := make([]string, len(TagOrder))
	copy(out, TagOrder)
	return out
}
