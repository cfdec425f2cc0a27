package posts

import (
	"strings"
	"time"

	"github.com/oggyb/liftlink/internal/db"
)

// Filter is a conjunction of optional predicates. Empty fields match everything.
type Filter struct {
	WorkoutType      string
	Location         string
	ExperienceLevel  string
	GenderPreference string
	PartySize        string
}

// Match reports whether p satisfies every set predicate.
// Categorical fields compare case-insensitively, location is a substring
// match, and posts without a gender preference pass that filter.
func (f Filter) Match(p *db.Post) bool {
	if f.WorkoutType != "" && !strings.EqualFold(p.WorkoutType, f.WorkoutType) {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.ExperienceLevel != "" && !strings.EqualFold(p.ExperienceLevel, f.ExperienceLevel) {
		return false
	}
	if f.GenderPreference != "" && p.GenderPreference != nil && *p.GenderPreference != "" &&
		!strings.EqualFold(*p.GenderPreference, f.GenderPreference) {
		return false
	}
	if f.PartySize != "" && !strings.EqualFold(p.PartySize, f.PartySize) {
		return false
	}
	return true
}

// naive layouts carry no zone and are read in the server's local time
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime accepts RFC 3339 (including a trailing Z) and the naive
// ISO-8601 forms a datetime-local input produces.
func ParseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Expired reports whether the session already started at now.
// Unparseable date_time values never expire.
func Expired(p *db.Post, now time.Time) bool {
	t, ok := ParseDateTime(p.DateTime)
	if !ok {
		return false
	}
	return !t.After(now)
}
