package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestHandleRegister(t *testing.T) {
	env := newTestEnv(t)
	eng := env.college(t, "Engineering")
	event := env.event(t, "Intro to Go", models.EventTypeWorkshop, eng.ID)
	student := env.student(t, "S1001", eng.ID)
	path := "/events/" + itoa(event.ID) + "/register"

	t.Run("ByStudentID", func(t *testing.T) {
		rr := env.api.Post(path, map[string]any{"student_id": "S1001"})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		out := decode[struct {
			Message      string               `json:"message"`
			Registration RegistrationResponse `json:"registration"`
		}](t, rr)
		assert.Equal(t, "Registered", out.Message)
		assert.Equal(t, student.ID, out.Registration.StudentID)
		assert.Equal(t, event.ID, out.Registration.EventID)
	})

	t.Run("RepeatByEmailIsIdempotent", func(t *testing.T) {
		rr := env.api.Post(path, map[string]any{"email": "S1001@example.com"})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var count int64
		env.db.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&count)
		assert.EqualValues(t, 1, count)
		assert.Len(t, env.notifier.registrations, 1, "only the first registration is announced")
		assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.Registrations))
	})

	t.Run("MissingIdentifier", func(t *testing.T) {
		rr := env.api.Post(path, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("UnknownStudent", func(t *testing.T) {
		rr := env.api.Post(path, map[string]any{"student_id": "nobody"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("UnknownEvent", func(t *testing.T) {
		rr := env.api.Post("/events/999/register", map[string]any{"student_id": "S1001"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleMarkAttendance(t *testing.T) {
	env := newTestEnv(t)
	eng := env.college(t, "Engineering")
	event := env.event(t, "Intro to Go", models.EventTypeWorkshop, eng.ID)
	student := env.student(t, "S1001", eng.ID)
	path := "/events/" + itoa(event.ID) + "/attendance"

	t.Run("RequiresAdmin", func(t *testing.T) {
		rr := env.api.Post(path, map[string]any{"student_id": "S1001"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("RegistersOnTheWay", func(t *testing.T) {
		rr := env.api.Post(path, adminHeader, map[string]any{"student_id": "S1001"})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var registrations int64
		env.db.Model(&models.Registration{}).Where("student_id = ? AND event_id = ?", student.ID, event.ID).Count(&registrations)
		assert.EqualValues(t, 1, registrations)
	})

	t.Run("RepeatRefreshesTime", func(t *testing.T) {
		later := time.Date(2031, 5, 1, 9, 0, 0, 0, time.UTC)
		handler := NewRegistrationHandler(env.db, nil, nil)
		handler.now = func() time.Time { return later }

		input := &AttendanceInput{ID: event.ID, Body: StudentRef{StudentNumber: "S1001"}}
		out, err := handler.HandleMarkAttendance(context.Background(), input)
		require.NoError(t, err)
		assert.True(t, later.Equal(out.Body.Attendance.AttendedAt))

		var rows []models.Attendance
		require.NoError(t, env.db.Where("event_id = ?", event.ID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.True(t, later.Equal(rows[0].AttendedAt.UTC()))
	})
}

func TestHandleSubmitFeedback(t *testing.T) {
	env := newTestEnv(t)
	eng := env.college(t, "Engineering")
	event := env.event(t, "Intro to Go", models.EventTypeWorkshop, eng.ID)
	env.student(t, "S1001", eng.ID)
	path := "/events/" + itoa(event.ID) + "/feedback"

	t.Run("Submit", func(t *testing.T) {
		rr := env.api.Post(path, map[string]any{"student_id": "S1001", "rating": 4, "comment": "  Nice  "})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		out := decode[struct {
			Message  string           `json:"message"`
			Feedback FeedbackResponse `json:"feedback"`
		}](t, rr)
		assert.Equal(t, "Feedback submitted", out.Message)
		assert.Equal(t, 4, out.Feedback.Rating)
		require.NotNil(t, out.Feedback.Comment)
		assert.Equal(t, "Nice", *out.Feedback.Comment)
	})

	t.Run("ResubmitReplaces", func(t *testing.T) {
		rr := env.api.Post(path, map[string]any{"student_id": "S1001", "rating": 2})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var rows []models.Feedback
		require.NoError(t, env.db.Where("event_id = ?", event.ID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, 2, rows[0].Rating)
		assert.Nil(t, rows[0].Comment)
	})

	t.Run("RatingOutOfRange", func(t *testing.T) {
		for _, rating := range []int{0, 6} {
			rr := env.api.Post(path, map[string]any{"student_id": "S1001", "rating": rating})
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, "rating %d", rating)
		}
	})

	t.Run("RatingCheckedBeforeLookup", func(t *testing.T) {
		handler := NewRegistrationHandler(env.db, nil, nil)
		input := &FeedbackInput{ID: 999}
		input.Body.Rating = 9

		_, err := handler.HandleSubmitFeedback(context.Background(), input)
		var se huma.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadRequest, se.GetStatus())
	})

	t.Run("UnknownStudent", func(t *testing.T) {
		rr := env.api.Post(path, map[string]any{"student_id": "nobody", "rating": 3})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleRegisterLosesInsertRace(t *testing.T) {
	env := newTestEnv(t)
	eng := env.college(t, "Engineering")
	event := env.event(t, "Intro to Go", models.EventTypeWorkshop, eng.ID)
	student := env.student(t, "S1001", eng.ID)

	// Another request registers the same pair just before this one inserts.
	var once sync.Once
	err := env.db.Callback().Create().Before("gorm:create").Register("test:competing_registration", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.Registration); !ok {
			return
		}
		once.Do(func() {
			now := time.Now().UTC()
			tx.AddError(tx.Session(&gorm.Session{NewDB: true}).Exec(
				"INSERT INTO registrations (student_id, event_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
				student.ID, event.ID, now, now,
			).Error)
		})
	})
	require.NoError(t, err)

	rr := env.api.Post("/events/"+itoa(event.ID)+"/register", map[string]any{"student_id": "S1001"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	out := decode[struct {
		Registration RegistrationResponse `json:"registration"`
	}](t, rr)
	assert.NotZero(t, out.Registration.ID)
	assert.Equal(t, student.ID, out.Registration.StudentID)

	var count int64
	env.db.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Empty(t, env.notifier.registrations, "the competing request owns the announcement")
}
