package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gdg-garage/campus-events/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EventFilter narrows event reports. Zero values match everything.
type EventFilter struct {
	CollegeID uint
	Type      models.EventType
}

func (f EventFilter) apply(q *gorm.DB) *gorm.DB {
	if f.CollegeID != 0 {
		q = q.Where("college_id = ?", f.CollegeID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	return q
}

type countRow struct {
	RefID uint
	Count int64
}

// countBy returns the number of live rows of model per value of column.
func (s *Service) countBy(ctx context.Context, model any, column string, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	q := s.db.WithContext(ctx).Model(model).
		Select(column + " AS ref_id, COUNT(*) AS count").
		Group(column)
	if ids != nil {
		if len(ids) == 0 {
			return counts, nil
		}
		q = q.Where(column+" IN ?", ids)
	}

	var rows []countRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count %T by %s: %w", model, column, err)
	}
	for _, r := range rows {
		counts[r.RefID] = r.Count
	}
	return counts, nil
}

// RegistrationCounts returns registrations per event for the given events.
func (s *Service) RegistrationCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	if eventIDs == nil {
		eventIDs = []uint{}
	}
	return s.countBy(ctx, &models.Registration{}, "event_id", eventIDs)
}

// EventPopularity is one row of the popularity ranking.
type EventPopularity struct {
	Event             models.Event
	RegistrationCount int64
}

// EventPopularity ranks every event by registration count, most popular
// first. Ties are ordered by event id.
func (s *Service) EventPopularity(ctx context.Context) ([]EventPopularity, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Preload("College").Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	counts, err := s.countBy(ctx, &models.Registration{}, "event_id", nil)
	if err != nil {
		return nil, err
	}

	out := make([]EventPopularity, len(events))
	for i, e := range events {
		out[i] = EventPopularity{Event: e, RegistrationCount: counts[e.ID]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegistrationCount > out[j].RegistrationCount
	})
	return out, nil
}

// Participation is one event a student attended.
type Participation struct {
	Event      models.Event
	AttendedAt time.Time
}

// StudentParticipation lists the events a student attended, latest first.
// It returns gorm.ErrRecordNotFound when the student does not exist.
func (s *Service) StudentParticipation(ctx context.Context, studentID uint) ([]Participation, error) {
	db := s.db.WithContext(ctx)

	var student models.Student
	if err := db.Select("id").First(&student, studentID).Error; err != nil {
		return nil, err
	}

	var rows []models.Attendance
	if err := db.Where("student_id = ?", studentID).
		Preload("Event.College").
		Order("attended_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list attendance of student %d: %w", studentID, err)
	}

	out := make([]Participation, len(rows))
	for i, a := range rows {
		out[i] = Participation{Event: a.Event, AttendedAt: a.AttendedAt}
	}
	return out, nil
}

// TopStudents ranks students by activity score and returns the best limit.
func (s *Service) TopStudents(ctx context.Context, limit int) ([]StudentActivity, error) {
	var students []models.Student
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	attendance, err := s.countBy(ctx, &models.Attendance{}, "student_id", nil)
	if err != nil {
		return nil, err
	}
	registrations, err := s.countBy(ctx, &models.Registration{}, "student_id", nil)
	if err != nil {
		return nil, err
	}

	activity := make([]StudentActivity, len(students))
	for i, st := range students {
		activity[i] = StudentActivity{
			ID:                st.ID,
			Name:              st.Name,
			Email:             st.Email,
			StudentNumber:     st.StudentNumber,
			CollegeID:         st.CollegeID,
			AttendanceCount:   attendance[st.ID],
			RegistrationCount: registrations[st.ID],
		}
	}
	return RankStudents(activity, limit), nil
}

// FeedbackSummary aggregates the ratings left for one event.
type FeedbackSummary struct {
	EventID       uint     `json:"event_id"`
	AverageRating *float64 `json:"average_rating"`
	Count         int64    `json:"count"`
}

func (s *Service) FeedbackSummary(ctx context.Context, eventID uint) (FeedbackSummary, error) {
	var row struct {
		Count   int64
		Average *float64
	}
	err := s.db.WithContext(ctx).Model(&models.Feedback{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Where("event_id = ?", eventID).
		Scan(&row).Error
	if err != nil {
		return FeedbackSummary{}, fmt.Errorf("summarise feedback of event %d: %w", eventID, err)
	}

	sum := FeedbackSummary{EventID: eventID, Count: row.Count}
	if row.Count > 0 {
		sum.AverageRating = row.Average
	}
	return sum, nil
}

// EventAttendance is one row of the attendance-percentage report.
type EventAttendance struct {
	Event                models.Event
	Registrations        int64
	Attended             int64
	AttendancePercentage float64
}

// AttendanceByEvent reports registrations against attendance for each
// matching event, in date order.
func (s *Service) AttendanceByEvent(ctx context.Context, filter EventFilter) ([]EventAttendance, error) {
	var events []models.Event
	q := filter.apply(s.db.WithContext(ctx).Preload("College"))
	if err := q.Order("date ASC").Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	ids := make([]uint, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	registrations, err := s.countBy(ctx, &models.Registration{}, "event_id", ids)
	if err != nil {
		return nil, err
	}
	attended, err := s.countBy(ctx, &models.Attendance{}, "event_id", ids)
	if err != nil {
		return nil, err
	}

	out := make([]EventAttendance, len(events))
	for i, e := range events {
		reg, att := registrations[e.ID], attended[e.ID]
		out[i] = EventAttendance{
			Event:                e,
			Registrations:        reg,
			Attended:             att,
			AttendancePercentage: AttendancePercentage(reg, att),
		}
	}
	return out, nil
}
