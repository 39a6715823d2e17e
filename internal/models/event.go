package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type EventType string

const (
	EventTypeWorkshop EventType = "workshop"
	EventTypeFest     EventType = "fest"
	EventTypeSeminar  EventType = "seminar"
)

var EventTypes = []EventType{EventTypeWorkshop, EventTypeFest, EventTypeSeminar}

func (t EventType) Valid() bool {
	for _, et := range EventTypes {
		if t == et {
			return true
		}
	}
	return false
}

// EventTypeList renders the accepted types for error messages.
func EventTypeList() string {
	names := make([]string, len(EventTypes))
	for i, et := range EventTypes {
		names[i] = string(et)
	}
	return strings.Join(names, ", ")
}

type Event struct {
	gorm.Model
	Title       string    `gorm:"not null" json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	Type        EventType `gorm:"index;not null" json:"type" validate:"required,oneof=workshop fest seminar"`
	Date        time.Time `gorm:"index;not null" json:"date" validate:"required"`
	CollegeID   uint      `gorm:"index;not null" json:"college_id" validate:"required"`
	College     College   `gorm:"foreignKey:CollegeID" json:"college" validate:"-"`
}

func (e *Event) BeforeSave(tx *gorm.DB) error {
	return Validate(e)
}

var eventDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseEventDate accepts RFC 3339 timestamps as well as the zone-less
// shapes produced by HTML date and datetime-local inputs, read as UTC.
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
