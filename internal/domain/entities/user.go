package entities

import "campusbot/internal/domain"

// Thermometer check-in defaults: Sundays at noon. Weekdays are
// Monday-based (0 = Monday … 6 = Sunday).
const (
	DefaultThermometerWeekday = 6
	DefaultThermometerTime    = "12:00"
)

// ThermometerSettings is the per-user wellbeing check-in schedule,
// nested inside the profile document.
type ThermometerSettings struct {
	Enabled    bool   `json:"enabled"`
	Weekday    int    `json:"weekday"`
	Time       string `json:"time"`
	LastSentAt string `json:"last_sent_at,omitempty"`
}

// DefaultThermometerSettings returns the settings a user starts with.
func DefaultThermometerSettings() ThermometerSettings {
	return ThermometerSettings{
		Enabled: true,
		Weekday: DefaultThermometerWeekday,
		Time:    DefaultThermometerTime,
	}
}

// Normalize clamps out-of-range values back to the defaults.
func (s ThermometerSettings) Normalize() ThermometerSettings {
	if s.Weekday < 0 || s.Weekday > 6 {
		s.Weekday = DefaultThermometerWeekday
	}
	if s.Time == "" {
		s.Time = DefaultThermometerTime
	}
	return s
}

// Profile is the user document as stored: identity snapshot plus the
// onboarding answers the visibility rules depend on.
type Profile struct {
	UserID                  string               `json:"user_id"`
	Name                    string               `json:"name"`
	Direction               string               `json:"direction"`
	DirectionTrack          string               `json:"direction_track,omitempty"`
	GraduationYear          string               `json:"graduation_year,omitempty"`
	Username                string               `json:"username,omitempty"`
	RegistrationCompletedAt string               `json:"registration_completed_at,omitempty"`
	Thermometer             *ThermometerSettings `json:"thermometer,omitempty"`
}

// Track resolves the profile's audience track: the stored value when
// present, otherwise the fixed direction lookup.
func (p *Profile) Track() string {
	if p == nil {
		return ""
	}
	if p.DirectionTrack != "" {
		return p.DirectionTrack
	}
	return domain.TrackForDirection(p.Direction)
}

// IsComplete reports whether onboarding finished: name, direction and
// graduation answer are all present.
func (p *Profile) IsComplete() bool {
	return p != nil && p.Name != "" && p.Direction != "" && p.GraduationYear != ""
}

// ThermometerOrDefault returns the stored settings merged over the
// defaults.
func (p *Profile) ThermometerOrDefault() ThermometerSettings {
	if p == nil || p.Thermometer == nil {
		return DefaultThermometerSettings()
	}
	return p.Thermometer.Normalize()
}
