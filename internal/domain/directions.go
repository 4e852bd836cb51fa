package domain

import "strings"

// Study directions offered during onboarding. Free text is accepted too as
// long as it matches one of these after trimming.
var (
	BachelorDirections = []string{
		"Прикладная математика и информатика",
		"Программная инженерия",
		"Бизнес-информатика",
	}
	MasterDirections = []string{
		"Науки о данных",
		"Системная и программная инженерия",
	}
	PostgraduateDirection = "Аспирантура"
)

// DirectionOptions lists every direction in onboarding display order.
func DirectionOptions() []string {
	out := make([]string, 0, len(BachelorDirections)+len(MasterDirections)+1)
	out = append(out, BachelorDirections...)
	out = append(out, MasterDirections...)
	out = append(out, PostgraduateDirection)
	return out
}

// TrackForDirection maps a free-text study direction onto a track via the
// fixed lookup. Returns "" when the direction is not recognized.
func TrackForDirection(direction string) string {
	normalized := strings.TrimSpace(direction)
	if normalized == "" {
		return ""
	}
	for _, d := range BachelorDirections {
		if normalized == d {
			return TrackBachelor
		}
	}
	for _, d := range MasterDirections {
		if normalized == d {
			return TrackMaster
		}
	}
	if normalized == PostgraduateDirection {
		return TrackPostgraduate
	}
	return ""
}

// Course options per track, shown on the graduation step.
var (
	GraduationBachelorOptions = []string{"1 курс", "2 курс", "3 курс", "4 курс"}
	GraduationMasterOptions   = []string{"1 курс", "2 курс"}
)

// GraduationOptions returns the fixed course choices for a track; an empty
// slice means the step expects free-text input (postgraduate year).
func GraduationOptions(track string) []string {
	switch track {
	case TrackBachelor:
		return GraduationBachelorOptions
	case TrackMaster:
		return GraduationMasterOptions
	default:
		return nil
	}
}
