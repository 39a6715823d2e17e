package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/campus-events/internal/metrics"
	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/gdg-garage/campus-events/internal/notifier"
	"github.com/gdg-garage/campus-events/internal/reports"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type EventHandler struct {
	db       *gorm.DB
	reports  *reports.Service
	notifier notifier.Notifier
	metrics  *metrics.Metrics
}

func NewEventHandler(db *gorm.DB, reports *reports.Service, notifier notifier.Notifier, metrics *metrics.Metrics) *EventHandler {
	return &EventHandler{db: db, reports: reports, notifier: notifier, metrics: metrics}
}

type CreateEventInput struct {
	Body struct {
		Title       string `json:"title" doc:"Event title" minLength:"1" maxLength:"200"`
		Description string `json:"description,omitempty" doc:"Free-form description"`
		Type        string `json:"type" doc:"One of workshop, fest, seminar" example:"workshop"`
		Date        string `json:"date" doc:"RFC 3339 timestamp or datetime-local value (read as UTC)" example:"2025-09-07T10:00"`
		CollegeID   uint   `json:"college_id" doc:"Hosting college" minimum:"1"`
	}
}

type EventOutput struct {
	Body EventResponse
}

func parseEventType(raw string) (models.EventType, error) {
	t := models.EventType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", huma.Error400BadRequest("type must be one of " + models.EventTypeList())
	}
	return t, nil
}

func (h *EventHandler) HandleCreate(ctx context.Context, input *CreateEventInput) (*EventOutput, error) {
	eventType, err := parseEventType(input.Body.Type)
	if err != nil {
		return nil, err
	}
	date, err := models.ParseEventDate(input.Body.Date)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	db := h.db.WithContext(ctx)

	var college models.College
	if err := db.First(&college, input.Body.CollegeID).Error; err != nil {
		return nil, notFound(ctx, "College", err)
	}

	event := models.Event{
		Title:       strings.TrimSpace(input.Body.Title),
		Description: input.Body.Description,
		Type:        eventType,
		Date:        date,
		CollegeID:   college.ID,
	}
	if err := db.Create(&event).Error; err != nil {
		return nil, saveError(ctx, "Failed to create event", err)
	}
	event.College = college

	if h.metrics != nil {
		h.metrics.EventsCreated.Inc()
	}
	if h.notifier != nil {
		if err := h.notifier.NotifyEventCreated(event, college); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Uint("event_id", event.ID).Msg("failed to send event notification")
		}
	}

	return &EventOutput{Body: newEventResponse(event, 0)}, nil
}

type ListEventsInput struct {
	Type      string `query:"type" doc:"Only events of this type (workshop, fest, seminar)"`
	CollegeID uint   `query:"college_id" doc:"Only events hosted by this college"`
}

type ListEventsOutput struct {
	Body []EventResponse
}

func (h *EventHandler) HandleList(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	q := h.db.WithContext(ctx).Preload("College")
	if input.Type != "" {
		eventType, err := parseEventType(input.Type)
		if err != nil {
			return nil, err
		}
		q = q.Where("type = ?", eventType)
	}
	if input.CollegeID != 0 {
		q = q.Where("college_id = ?", input.CollegeID)
	}

	var events []models.Event
	if err := q.Order("date ASC").Order("id ASC").Find(&events).Error; err != nil {
		return nil, internalError(ctx, "Failed to fetch events", err)
	}

	ids := make([]uint, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	counts, err := h.reports.RegistrationCounts(ctx, ids)
	if err != nil {
		return nil, internalError(ctx, "Failed to count registrations", err)
	}

	out := &ListEventsOutput{Body: make([]EventResponse, 0, len(events))}
	for _, e := range events {
		out.Body = append(out.Body, newEventResponse(e, counts[e.ID]))
	}
	return out, nil
}

type GetEventInput struct {
	ID uint `path:"id"`
}

func (h *EventHandler) HandleGet(ctx context.Context, input *GetEventInput) (*EventOutput, error) {
	var event models.Event
	if err := h.db.WithContext(ctx).Preload("College").First(&event, input.ID).Error; err != nil {
		return nil, notFound(ctx, "Event", err)
	}

	counts, err := h.reports.RegistrationCounts(ctx, []uint{event.ID})
	if err != nil {
		return nil, internalError(ctx, "Failed to count registrations", err)
	}
	return &EventOutput{Body: newEventResponse(event, counts[event.ID])}, nil
}
