package database

import (
	"fmt"
	"time"

	"github.com/gdg-garage/campus-events/internal/models"
	"gorm.io/gorm"
)

// SeedSummary counts the rows written by Seed.
type SeedSummary struct {
	Colleges      int
	Students      int
	Events        int
	Registrations int
	Attendance    int
	Feedback      int
}

func (s SeedSummary) String() string {
	return fmt.Sprintf("%d colleges, %d students, %d events, %d registrations, %d attendance, %d feedback",
		s.Colleges, s.Students, s.Events, s.Registrations, s.Attendance, s.Feedback)
}

// Reset hard-deletes all campus data, children first. Admins and API keys
// are kept.
func Reset(tx *gorm.DB) error {
	for _, m := range []any{
		&models.Feedback{},
		&models.Attendance{},
		&models.Registration{},
		&models.Event{},
		&models.Student{},
		&models.College{},
	} {
		if err := tx.Unscoped().Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("reset %T: %w", m, err)
		}
	}
	return nil
}

// Seed replaces the campus data with a small demo dataset. Event dates are
// relative to now.
func Seed(db *gorm.DB, now time.Time) (SeedSummary, error) {
	now = now.UTC()
	var sum SeedSummary
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := Reset(tx); err != nil {
			return err
		}

		eng := models.College{Name: "College of Engineering"}
		arts := models.College{Name: "School of Arts"}
		bus := models.College{Name: "Business School"}
		colleges := []*models.College{&eng, &arts, &bus}
		for _, c := range colleges {
			if err := tx.Create(c).Error; err != nil {
				return fmt.Errorf("create college %q: %w", c.Name, err)
			}
		}

		alice := models.Student{Name: "Alice Johnson", Email: "alice@example.com", StudentNumber: "S1001", CollegeID: eng.ID}
		bob := models.Student{Name: "Bob Smith", Email: "bob@example.com", StudentNumber: "S1002", CollegeID: eng.ID}
		carol := models.Student{Name: "Carol Lee", Email: "carol@example.com", StudentNumber: "S2001", CollegeID: arts.ID}
		david := models.Student{Name: "David Kim", Email: "david@example.com", StudentNumber: "S3001", CollegeID: bus.ID}
		students := []*models.Student{&alice, &bob, &carol, &david}
		for _, s := range students {
			if err := tx.Create(s).Error; err != nil {
				return fmt.Errorf("create student %q: %w", s.StudentNumber, err)
			}
		}

		day := 24 * time.Hour
		workshop := models.Event{
			Title:       "Intro to React Workshop",
			Description: "Hands-on session for beginners",
			Type:        models.EventTypeWorkshop,
			Date:        now.Add(7 * day),
			CollegeID:   eng.ID,
		}
		fest := models.Event{
			Title:       "Annual Cultural Fest",
			Description: "Music, dance, and more",
			Type:        models.EventTypeFest,
			Date:        now.Add(14 * day),
			CollegeID:   arts.ID,
		}
		seminar := models.Event{
			Title:       "Leadership Seminar",
			Description: "Industry leaders share insights",
			Type:        models.EventTypeSeminar,
			Date:        now.Add(3 * day),
			CollegeID:   bus.ID,
		}
		events := []*models.Event{&workshop, &fest, &seminar}
		for _, e := range events {
			if err := tx.Create(e).Error; err != nil {
				return fmt.Errorf("create event %q: %w", e.Title, err)
			}
		}

		registrations := []models.Registration{
			{StudentID: alice.ID, EventID: workshop.ID},
			{StudentID: bob.ID, EventID: workshop.ID},
			{StudentID: carol.ID, EventID: fest.ID},
			{StudentID: david.ID, EventID: seminar.ID},
		}
		if err := tx.Create(&registrations).Error; err != nil {
			return fmt.Errorf("create registrations: %w", err)
		}

		attendance := []models.Attendance{
			{StudentID: alice.ID, EventID: workshop.ID, AttendedAt: now},
			{StudentID: bob.ID, EventID: workshop.ID, AttendedAt: now},
		}
		if err := tx.Create(&attendance).Error; err != nil {
			return fmt.Errorf("create attendance: %w", err)
		}

		great, helpful := "Great workshop!", "Very helpful"
		feedback := []models.Feedback{
			{StudentID: alice.ID, EventID: workshop.ID, Rating: 5, Comment: &great},
			{StudentID: bob.ID, EventID: workshop.ID, Rating: 4, Comment: &helpful},
		}
		if err := tx.Create(&feedback).Error; err != nil {
			return fmt.Errorf("create feedback: %w", err)
		}

		sum = SeedSummary{
			Colleges:      len(colleges),
			Students:      len(students),
			Events:        len(events),
			Registrations: len(registrations),
			Attendance:    len(attendance),
			Feedback:      len(feedback),
		}
		return nil
	})
	return sum, err
}
