package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campusbot/internal/domain"
)

func TestTrackForDirection(t *testing.T) {
	tests := []struct {
		name      string
		direction string
		expected  string
	}{
		{"bachelor direction", "Программная инженерия", domain.TrackBachelor},
		{"master direction", "Науки о данных", domain.TrackMaster},
		{"postgraduate", "Аспирантура", domain.TrackPostgraduate},
		{"surrounding spaces trimmed", "  Бизнес-информатика  ", domain.TrackBachelor},
		{"unknown direction", "Филология", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.TrackForDirection(tt.direction))
		})
	}
}

func TestGraduationOptions(t *testing.T) {
	assert.Len(t, domain.GraduationOptions(domain.TrackBachelor), 4)
	assert.Len(t, domain.GraduationOptions(domain.TrackMaster), 2)
	assert.Empty(t, domain.GraduationOptions(domain.TrackPostgraduate), "postgraduates answer in free text")
}

func TestDirectionOptionsCoverEveryTrack(t *testing.T) {
	tracks := make(map[string]bool)
	for _, direction := range domain.DirectionOptions() {
		tracks[domain.TrackForDirection(direction)] = true
	}
	assert.True(t, tracks[domain.TrackBachelor])
	assert.True(t, tracks[domain.TrackMaster])
	assert.True(t, tracks[domain.TrackPostgraduate])
	assert.False(t, tracks[""], "every offered direction must resolve to a track")
}
