package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdg-garage/campus-events/internal/database"
	"github.com/gdg-garage/campus-events/internal/database/databasetest"
	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seededService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := databasetest.Open(t)
	if _, err := database.Seed(db, time.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewService(db), db
}

func eventByTitle(t *testing.T, db *gorm.DB, title string) models.Event {
	t.Helper()
	var e models.Event
	require.NoError(t, db.Where("title = ?", title).First(&e).Error)
	return e
}

func studentByNumber(t *testing.T, db *gorm.DB, number string) models.Student {
	t.Helper()
	var s models.Student
	require.NoError(t, db.Where("student_number = ?", number).First(&s).Error)
	return s
}

func TestEventPopularity(t *testing.T) {
	svc, _ := seededService(t)

	rows, err := svc.EventPopularity(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Intro to React Workshop", rows[0].Event.Title)
	assert.EqualValues(t, 2, rows[0].RegistrationCount)
	assert.Equal(t, "College of Engineering", rows[0].Event.College.Name)

	// Fest and seminar tie on one registration each; id order breaks it.
	assert.Equal(t, "Annual Cultural Fest", rows[1].Event.Title)
	assert.Equal(t, "Leadership Seminar", rows[2].Event.Title)
	assert.EqualValues(t, 1, rows[1].RegistrationCount)
	assert.EqualValues(t, 1, rows[2].RegistrationCount)
}

func TestRegistrationCounts(t *testing.T) {
	svc, db := seededService(t)
	workshop := eventByTitle(t, db, "Intro to React Workshop")

	counts, err := svc.RegistrationCounts(context.Background(), []uint{workshop.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{workshop.ID: 2}, counts)

	counts, err = svc.RegistrationCounts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestStudentParticipation(t *testing.T) {
	svc, db := seededService(t)
	ctx := context.Background()

	alice := studentByNumber(t, db, "S1001")
	rows, err := svc.StudentParticipation(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Intro to React Workshop", rows[0].Event.Title)
	assert.Equal(t, "College of Engineering", rows[0].Event.College.Name)

	// Newest attendance first.
	seminar := eventByTitle(t, db, "Leadership Seminar")
	later := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.Attendance{StudentID: alice.ID, EventID: seminar.ID, AttendedAt: later}).Error)
	rows, err = svc.StudentParticipation(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, seminar.ID, rows[0].Event.ID)

	carol := studentByNumber(t, db, "S2001")
	rows, err = svc.StudentParticipation(ctx, carol.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.StudentParticipation(ctx, 9999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestTopStudents(t *testing.T) {
	svc, _ := seededService(t)

	top, err := svc.TopStudents(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	// Alice and Bob attended and registered (score 3), Carol only registered
	// (score 1) and beats David on id order.
	assert.Equal(t, "S1001", top[0].StudentNumber)
	assert.Equal(t, "S1002", top[1].StudentNumber)
	assert.Equal(t, "S2001", top[2].StudentNumber)
	assert.EqualValues(t, 3, top[0].Score)
	assert.EqualValues(t, 1, top[0].AttendanceCount)
	assert.EqualValues(t, 1, top[0].RegistrationCount)
	assert.EqualValues(t, 1, top[2].Score)
}

func TestFeedbackSummary(t *testing.T) {
	svc, db := seededService(t)
	ctx := context.Background()

	workshop := eventByTitle(t, db, "Intro to React Workshop")
	sum, err := svc.FeedbackSummary(ctx, workshop.ID)
	require.NoError(t, err)
	assert.Equal(t, workshop.ID, sum.EventID)
	assert.EqualValues(t, 2, sum.Count)
	require.NotNil(t, sum.AverageRating)
	assert.InDelta(t, 4.5, *sum.AverageRating, 1e-9)

	fest := eventByTitle(t, db, "Annual Cultural Fest")
	sum, err = svc.FeedbackSummary(ctx, fest.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, sum.Count)
	assert.Nil(t, sum.AverageRating)
}

func TestAttendanceByEvent(t *testing.T) {
	svc, db := seededService(t)
	ctx := context.Background()

	rows, err := svc.AttendanceByEvent(ctx, EventFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Date order: seminar (+3d), workshop (+7d), fest (+14d).
	assert.Equal(t, models.EventTypeSeminar, rows[0].Event.Type)
	assert.Equal(t, models.EventTypeWorkshop, rows[1].Event.Type)
	assert.Equal(t, models.EventTypeFest, rows[2].Event.Type)

	assert.EqualValues(t, 2, rows[1].Registrations)
	assert.EqualValues(t, 2, rows[1].Attended)
	assert.Equal(t, 100.0, rows[1].AttendancePercentage)
	assert.Equal(t, 0.0, rows[0].AttendancePercentage)

	eng := eventByTitle(t, db, "Intro to React Workshop").CollegeID
	rows, err = svc.AttendanceByEvent(ctx, EventFilter{CollegeID: eng})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "College of Engineering", rows[0].Event.College.Name)

	rows, err = svc.AttendanceByEvent(ctx, EventFilter{Type: models.EventTypeFest})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Annual Cultural Fest", rows[0].Event.Title)

	rows, err = svc.AttendanceByEvent(ctx, EventFilter{CollegeID: eng, Type: models.EventTypeFest})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
