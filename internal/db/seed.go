package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the plaintext password of every seeded account.
const DemoPassword = "password123"

// SeedSummary reports what SeedDemoData inserted.
type SeedSummary struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Requests int `json:"requests"`
}

type demoUser struct {
	first, last, gender, age, focus, experience, bio string
}

var demoUsers = []demoUser{
	{"Avery", "Nguyen", "female", "20", "strength", "intermediate", "Squat PR chaser, always down for a spot."},
	{"Jordan", "Lee", "male", "21", "cardio", "beginner", "Training for my first 10k."},
	{"Sam", "Patel", "female", "22", "powerlifting", "advanced", "Meet prep season. Early mornings only."},
	{"Riley", "Garcia", "male", "19", "bodybuilding", "intermediate", "Push/pull/legs, looking for a consistent partner."},
	{"Casey", "Kim", "non-binary", "23", "mobility", "beginner", "Yoga and mobility, learning to lift."},
	{"Morgan", "Brown", "female", "24", "strength", "advanced", "Grad student, lifts after lab."},
}

type demoPost struct {
	owner                                          int
	title, workoutType, location, partySize, level string
	genderPreference                               string
	hoursAhead                                     int
}

var demoPosts = []demoPost{
	{0, "Heavy squat day", "strength", "McComas Hall", "2", "intermediate", "", 20},
	{1, "Easy campus loop", "cardio", "Drillfield", "4", "beginner", "", 26},
	{2, "Bench + accessories", "powerlifting", "War Memorial Gym", "2", "advanced", "female", 44},
	{3, "Leg day crew", "bodybuilding", "McComas Hall", "3", "intermediate", "male", 50},
	{4, "Sunday mobility flow", "mobility", "Rec Center Studio B", "6", "beginner", "", 70},
}

// Reset clears every table. Compatible with both MySQL and SQLite.
func Reset(db *gorm.DB) error {
	tables := []string{"interest_requests", "verification_tokens", "posts", "gym_profiles", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range tables {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		for _, table := range tables {
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}
	return nil
}

// SeedDemoData resets the store and populates it with demo accounts.
//
// Behavior:
//  1. Clears all tables.
//  2. Creates verified demo users (demo1@liftlink.edu ...) sharing DemoPassword,
//     each with a gym profile.
//  3. Creates upcoming posts relative to now.
//  4. Creates a few pending profile interests and join requests so the
//     requests inbox has content.
func SeedDemoData(db *gorm.DB, now time.Time) (SeedSummary, error) {
	var summary SeedSummary

	if err := Reset(db); err != nil {
		return summary, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return summary, fmt.Errorf("failed to hash password: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		users := make([]User, 0, len(demoUsers))
		for i, d := range demoUsers {
			gender, age := d.gender, d.age
			u := User{
				ID:           uuid.NewString(),
				Email:        fmt.Sprintf("demo%d@liftlink.edu", i+1),
				PasswordHash: string(hash),
				FirstName:    d.first,
				LastName:     d.last,
				Gender:       &gender,
				Age:          &age,
				Verified:     true,
				CreatedAt:    now,
			}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("failed to seed user: %w", err)
			}

			focus, experience, bio := d.focus, d.experience, d.bio
			profile := GymProfile{UserID: u.ID, Focus: &focus, Experience: &experience, Bio: &bio}
			if err := tx.Create(&profile).Error; err != nil {
				return fmt.Errorf("failed to seed gym profile: %w", err)
			}
			users = append(users, u)
		}
		summary.Users = len(users)

		posts := make([]Post, 0, len(demoPosts))
		for _, d := range demoPosts {
			owner := users[d.owner]
			p := Post{
				ID:              uuid.NewString(),
				UserID:          owner.ID,
				Username:        owner.Email,
				Title:           d.title,
				WorkoutType:     d.workoutType,
				DateTime:        now.Add(time.Duration(d.hoursAhead) * time.Hour).UTC().Format(time.RFC3339),
				Location:        d.location,
				PartySize:       d.partySize,
				ExperienceLevel: d.level,
				CreatedAt:       now,
			}
			if d.genderPreference != "" {
				pref := d.genderPreference
				p.GenderPreference = &pref
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to seed post: %w", err)
			}
			posts = append(posts, p)
		}
		summary.Posts = len(posts)

		requests := []InterestRequest{
			{SenderID: users[1].ID, ReceiverID: users[0].ID, Kind: KindProfile},
			{SenderID: users[5].ID, ReceiverID: users[0].ID, Kind: KindProfile},
			{SenderID: users[0].ID, ReceiverID: users[2].ID, Kind: KindProfile},
			{SenderID: users[3].ID, ReceiverID: posts[0].UserID, Kind: KindPost, PostID: posts[0].ID},
			{SenderID: users[4].ID, ReceiverID: posts[1].UserID, Kind: KindPost, PostID: posts[1].ID},
		}
		for i := range requests {
			requests[i].ID = uuid.NewString()
			requests[i].Status = StatusPending
			requests[i].CreatedAt = now
			if err := tx.Create(&requests[i]).Error; err != nil {
				return fmt.Errorf("failed to seed request: %w", err)
			}
		}
		summary.Requests = len(requests)
		return nil
	})
	if err != nil {
		return SeedSummary{}, err
	}
	return summary, nil
}
