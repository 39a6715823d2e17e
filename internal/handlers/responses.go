package handlers

import (
	"time"

	"github.com/gdg-garage/campus-events/internal/models"
)

type CollegeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newCollegeResponse(c models.College) CollegeResponse {
	return CollegeResponse{ID: c.ID, Name: c.Name}
}

type StudentResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	StudentNumber string    `json:"student_id"`
	CollegeID     uint      `json:"college_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func newStudentResponse(s models.Student) StudentResponse {
	return StudentResponse{
		ID:            s.ID,
		Name:          s.Name,
		Email:         s.Email,
		StudentNumber: s.StudentNumber,
		CollegeID:     s.CollegeID,
		CreatedAt:     s.CreatedAt,
	}
}

type EventResponse struct {
	ID                uint             `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Type              models.EventType `json:"type" enum:"workshop,fest,seminar"`
	Date              time.Time        `json:"date"`
	CollegeID         uint             `json:"college_id"`
	College           *CollegeResponse `json:"college,omitempty"`
	RegistrationCount int64            `json:"registration_count"`
	CreatedAt         time.Time        `json:"created_at"`
}

func newEventResponse(e models.Event, registrations int64) EventResponse {
	resp := EventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		Type:              e.Type,
		Date:              e.Date,
		CollegeID:         e.CollegeID,
		RegistrationCount: registrations,
		CreatedAt:         e.CreatedAt,
	}
	if e.College.ID != 0 {
		c := newCollegeResponse(e.College)
		resp.College = &c
	}
	return resp
}

type RegistrationResponse struct {
	ID           uint      `json:"id"`
	StudentID    uint      `json:"student_id"`
	EventID      uint      `json:"event_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

func newRegistrationResponse(r models.Registration) RegistrationResponse {
	return RegistrationResponse{ID: r.ID, StudentID: r.StudentID, EventID: r.EventID, RegisteredAt: r.CreatedAt}
}

type AttendanceResponse struct {
	ID         uint      `json:"id"`
	StudentID  uint      `json:"student_id"`
	EventID    uint      `json:"event_id"`
	AttendedAt time.Time `json:"attended_at"`
}

func newAttendanceResponse(a models.Attendance) AttendanceResponse {
	return AttendanceResponse{ID: a.ID, StudentID: a.StudentID, EventID: a.EventID, AttendedAt: a.AttendedAt}
}

type FeedbackResponse struct {
	ID        uint    `json:"id"`
	StudentID uint    `json:"student_id"`
	EventID   uint    `json:"event_id"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

func newFeedbackResponse(f models.Feedback) FeedbackResponse {
	return FeedbackResponse{ID: f.ID, StudentID: f.StudentID, EventID: f.EventID, Rating: f.Rating, Comment: f.Comment}
}
