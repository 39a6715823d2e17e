package models

import (
	"time"

	"gorm.io/gorm"
)

type Attendance struct {
	gorm.Model
	StudentID  uint      `json:"student_id" gorm:"uniqueIndex:idx_attendance_student_event;not null"`
	EventID    uint      `json:"event_id" gorm:"uniqueIndex:idx_attendance_student_event;index;not null"`
	AttendedAt time.Time `json:"attended_at" gorm:"not null"`
	Student    Student   `gorm:"foreignKey:StudentID" json:"-"`
	Event      Event     `gorm:"foreignKey:EventID" json:"-"`
}

// TableName keeps the table singular; attendance has no useful plural.
func (Attendance) TableName() string {
	return "attendance"
}
