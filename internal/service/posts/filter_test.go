package posts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/liftlink/internal/db"
)

func strPtr(s string) *string { return &s }

func TestFilter_Match(t *testing.T) {
	post := &db.Post{
		WorkoutType:      "Strength",
		Location:         "McComas Hall",
		ExperienceLevel:  "Intermediate",
		GenderPreference: strPtr("female"),
		PartySize:        "2",
	}
	open := &db.Post{WorkoutType: "strength", Location: "Drillfield", PartySize: "4"}

	cases := []struct {
		name   string
		filter Filter
		post   *db.Post
		want   bool
	}{
		{"empty filter", Filter{}, post, true},
		{"workout case-insensitive", Filter{WorkoutType: "strength"}, post, true},
		{"workout mismatch", Filter{WorkoutType: "cardio"}, post, false},
		{"location substring", Filter{Location: "comas"}, post, true},
		{"location mismatch", Filter{Location: "war memorial"}, post, false},
		{"experience", Filter{ExperienceLevel: "INTERMEDIATE"}, post, true},
		{"gender pref match", Filter{GenderPreference: "Female"}, post, true},
		{"gender pref mismatch", Filter{GenderPreference: "male"}, post, false},
		{"no preference passes", Filter{GenderPreference: "male"}, open, true},
		{"party size", Filter{PartySize: "2"}, post, true},
		{"party size mismatch", Filter{PartySize: "3"}, post, false},
		{"conjunction", Filter{WorkoutType: "strength", PartySize: "4"}, post, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Match(tc.post))
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		dateTime string
		want     bool
	}{
		{"2026-05-01T11:00:00Z", true},
		{"2026-05-01T12:00:00Z", true},
		{"2026-05-01T13:00:00Z", false},
		{"2026-05-01T14:00:00+02:00", true},
		{"2026-05-01T12:30:00.123Z", false},
		{"1999-01-01T08:00", true},
		{"2999-01-01T08:00", false},
		{"2999-01-01", false},
		{"next tuesday", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Expired(&db.Post{DateTime: tc.dateTime}, now), tc.dateTime)
	}
}
