package handlers

import (
	"context"
	"time"

	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/gdg-garage/campus-events/internal/reports"
)

type ReportHandler struct {
	reports          *reports.Service
	topStudentsLimit int
}

func NewReportHandler(reports *reports.Service, topStudentsLimit int) *ReportHandler {
	return &ReportHandler{reports: reports, topStudentsLimit: topStudentsLimit}
}

type EventPopularityOutput struct {
	Body []EventResponse
}

func (h *ReportHandler) HandleEventPopularity(ctx context.Context, _ *struct{}) (*EventPopularityOutput, error) {
	rows, err := h.reports.EventPopularity(ctx)
	if err != nil {
		return nil, internalError(ctx, "Failed to get event popularity", err)
	}

	out := &EventPopularityOutput{Body: make([]EventResponse, 0, len(rows))}
	for _, r := range rows {
		out.Body = append(out.Body, newEventResponse(r.Event, r.RegistrationCount))
	}
	return out, nil
}

type StudentParticipationInput struct {
	StudentID uint `path:"studentId" doc:"Student database id"`
}

type ParticipationResponse struct {
	EventID    uint             `json:"event_id"`
	Title      string           `json:"title"`
	Type       models.EventType `json:"type"`
	Date       time.Time        `json:"date"`
	College    *CollegeResponse `json:"college,omitempty"`
	AttendedAt time.Time        `json:"attended_at"`
}

type StudentParticipationOutput struct {
	Body []ParticipationResponse
}

func (h *ReportHandler) HandleStudentParticipation(ctx context.Context, input *StudentParticipationInput) (*StudentParticipationOutput, error) {
	rows, err := h.reports.StudentParticipation(ctx, input.StudentID)
	if err != nil {
		return nil, notFound(ctx, "Student", err)
	}

	out := &StudentParticipationOutput{Body: make([]ParticipationResponse, 0, len(rows))}
	for _, r := range rows {
		p := ParticipationResponse{
			EventID:    r.Event.ID,
			Title:      r.Event.Title,
			Type:       r.Event.Type,
			Date:       r.Event.Date,
			AttendedAt: r.AttendedAt,
		}
		if r.Event.College.ID != 0 {
			c := newCollegeResponse(r.Event.College)
			p.College = &c
		}
		out.Body = append(out.Body, p)
	}
	return out, nil
}

type TopStudentsInput struct {
	Limit int `query:"limit" doc:"How many students to return (defaults to the configured limit)" minimum:"0" maximum:"100"`
}

type TopStudentsOutput struct {
	Body []reports.StudentActivity
}

func (h *ReportHandler) HandleTopStudents(ctx context.Context, input *TopStudentsInput) (*TopStudentsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = h.topStudentsLimit
	}

	top, err := h.reports.TopStudents(ctx, limit)
	if err != nil {
		return nil, internalError(ctx, "Failed to get top students", err)
	}
	if top == nil {
		top = []reports.StudentActivity{}
	}
	return &TopStudentsOutput{Body: top}, nil
}

type FeedbackSummaryInput struct {
	EventID uint `path:"eventId" doc:"Event id"`
}

type FeedbackSummaryOutput struct {
	Body reports.FeedbackSummary
}

func (h *ReportHandler) HandleFeedbackSummary(ctx context.Context, input *FeedbackSummaryInput) (*FeedbackSummaryOutput, error) {
	sum, err := h.reports.FeedbackSummary(ctx, input.EventID)
	if err != nil {
		return nil, internalError(ctx, "Failed to get feedback summary", err)
	}
	return &FeedbackSummaryOutput{Body: sum}, nil
}

type AttendancePercentageInput struct {
	CollegeID uint   `query:"college_id" doc:"Only events hosted by this college"`
	Type      string `query:"type" doc:"Only events of this type (workshop, fest, seminar)"`
}

type AttendancePercentageResponse struct {
	ID                   uint             `json:"id"`
	Title                string           `json:"title"`
	Type                 models.EventType `json:"type"`
	Date                 time.Time        `json:"date"`
	College              *CollegeResponse `json:"college"`
	Registrations        int64            `json:"registrations"`
	Attended             int64            `json:"attended"`
	AttendancePercentage float64          `json:"attendance_percentage"`
}

type AttendancePercentageOutput struct {
	Body []AttendancePercentageResponse
}

func (h *ReportHandler) HandleAttendancePercentage(ctx context.Context, input *AttendancePercentageInput) (*AttendancePercentageOutput, error) {
	filter := reports.EventFilter{CollegeID: input.CollegeID}
	if input.Type != "" {
		eventType, err := parseEventType(input.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = eventType
	}

	rows, err := h.reports.AttendanceByEvent(ctx, filter)
	if err != nil {
		return nil, internalError(ctx, "Failed to compute attendance percentage", err)
	}

	out := &AttendancePercentageOutput{Body: make([]AttendancePercentageResponse, 0, len(rows))}
	for _, r := range rows {
		row := AttendancePercentageResponse{
			ID:                   r.Event.ID,
			Title:                r.Event.Title,
			Type:                 r.Event.Type,
			Date:                 r.Event.Date,
			Registrations:        r.Registrations,
			Attended:             r.Attended,
			AttendancePercentage: r.AttendancePercentage,
		}
		if r.Event.College.ID != 0 {
			c := newCollegeResponse(r.Event.College)
			row.College = &c
		}
		out.Body = append(out.Body, row)
	}
	return out, nil
}
