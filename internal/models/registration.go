package models

import (
	"gorm.io/gorm"
)

type Registration struct {
	gorm.Model
	StudentID uint    `json:"student_id" gorm:"uniqueIndex:idx_registration_student_event;not null"`
	EventID   uint    `json:"event_id" gorm:"uniqueIndex:idx_registration_student_event;index;not null"`
	Student   Student `gorm:"foreignKey:StudentID" json:"-"`
	Event     Event   `gorm:"foreignKey:EventID" json:"-"`
}
