package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/campus-events/internal/database"
	"github.com/gdg-garage/campus-events/internal/metrics"
	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/gdg-garage/campus-events/internal/notifier"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegistrationHandler records what students do around an event:
// registering, being marked present and leaving feedback.
type RegistrationHandler struct {
	db       *gorm.DB
	notifier notifier.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewRegistrationHandler(db *gorm.DB, notifier notifier.Notifier, metrics *metrics.Metrics) *RegistrationHandler {
	return &RegistrationHandler{db: db, notifier: notifier, metrics: metrics, now: database.NowUTC}
}

// participants resolves the student and event of a request.
func (h *RegistrationHandler) participants(ctx context.Context, eventID uint, ref StudentRef) (models.Student, models.Event, error) {
	var event models.Event
	student, err := findStudent(ctx, h.db, ref)
	if err != nil {
		return student, event, err
	}
	if err := h.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		return student, event, notFound(ctx, "Event", err)
	}
	return student, event, nil
}

// ensureRegistration returns the registration of student for event,
// creating it when missing. A concurrent insert of the same pair is treated
// as already registered.
func ensureRegistration(tx *gorm.DB, studentID, eventID uint) (models.Registration, bool, error) {
	registration := models.Registration{StudentID: studentID, EventID: eventID}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&registration)
	if res.Error != nil {
		return registration, false, res.Error
	}
	if res.RowsAffected > 0 {
		return registration, true, nil
	}

	registration = models.Registration{}
	if err := tx.Where("student_id = ? AND event_id = ?", studentID, eventID).First(&registration).Error; err != nil {
		return registration, false, err
	}
	return registration, false, nil
}

type RegisterInput struct {
	ID   uint `path:"id" doc:"Event id"`
	Body StudentRef
}

type RegisterOutput struct {
	Body struct {
		Message      string               `json:"message"`
		Registration RegistrationResponse `json:"registration"`
	}
}

// HandleRegister registers a student for an event. Registering twice is a
// no-op that returns the existing registration.
func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	student, event, err := h.participants(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	var registration models.Registration
	var created bool
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		registration, created, err = ensureRegistration(tx, student.ID, event.ID)
		return err
	})
	if err != nil {
		return nil, internalError(ctx, "Failed to register", err)
	}

	if h.metrics != nil {
		h.metrics.Registrations.Inc()
	}
	if created && h.notifier != nil {
		if err := h.notifier.NotifyRegistration(student, event); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Uint("event_id", event.ID).Msg("failed to send registration notification")
		}
	}

	res := &RegisterOutput{}
	res.Body.Message = "Registered"
	res.Body.Registration = newRegistrationResponse(registration)
	return res, nil
}

type AttendanceInput struct {
	ID   uint `path:"id" doc:"Event id"`
	Body StudentRef
}

type AttendanceOutput struct {
	Body struct {
		Message    string             `json:"message"`
		Attendance AttendanceResponse `json:"attendance"`
	}
}

// HandleMarkAttendance marks a student present. Students who never
// registered are registered on the way; marking again refreshes the time.
func (h *RegistrationHandler) HandleMarkAttendance(ctx context.Context, input *AttendanceInput) (*AttendanceOutput, error) {
	student, event, err := h.participants(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	var attendance models.Attendance
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := ensureRegistration(tx, student.ID, event.ID); err != nil {
			return err
		}

		if err := tx.FirstOrInit(&attendance, models.Attendance{StudentID: student.ID, EventID: event.ID}).Error; err != nil {
			return err
		}
		attendance.AttendedAt = h.now()
		return tx.Save(&attendance).Error
	})
	if err != nil {
		return nil, internalError(ctx, "Failed to mark attendance", err)
	}

	if h.metrics != nil {
		h.metrics.AttendanceMarked.Inc()
	}

	res := &AttendanceOutput{}
	res.Body.Message = "Attendance marked"
	res.Body.Attendance = newAttendanceResponse(attendance)
	return res, nil
}

type FeedbackInput struct {
	ID   uint `path:"id" doc:"Event id"`
	Body struct {
		StudentRef
		Rating  int    `json:"rating" doc:"Rating from 1 to 5" minimum:"1" maximum:"5"`
		Comment string `json:"comment,omitempty" doc:"Optional comment" maxLength:"2000"`
	}
}

type FeedbackOutput struct {
	Body struct {
		Message  string           `json:"message"`
		Feedback FeedbackResponse `json:"feedback"`
	}
}

// HandleSubmitFeedback stores a student's rating of an event. A second
// submission replaces the first.
func (h *RegistrationHandler) HandleSubmitFeedback(ctx context.Context, input *FeedbackInput) (*FeedbackOutput, error) {
	if input.Body.Rating < 1 || input.Body.Rating > 5 {
		return nil, huma.Error400BadRequest("rating must be an integer 1-5")
	}

	student, event, err := h.participants(ctx, input.ID, input.Body.StudentRef)
	if err != nil {
		return nil, err
	}

	var comment *string
	if c := strings.TrimSpace(input.Body.Comment); c != "" {
		comment = &c
	}

	var feedback models.Feedback
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.FirstOrInit(&feedback, models.Feedback{StudentID: student.ID, EventID: event.ID}).Error; err != nil {
			return err
		}
		feedback.Rating = input.Body.Rating
		feedback.Comment = comment
		return tx.Save(&feedback).Error
	})
	if err != nil {
		return nil, saveError(ctx, "Failed to submit feedback", err)
	}

	if h.metrics != nil {
		h.metrics.FeedbackSubmitted.Inc()
	}

	res := &FeedbackOutput{}
	res.Body.Message = "Feedback submitted"
	res.Body.Feedback = newFeedbackResponse(feedback)
	return res, nil
}
