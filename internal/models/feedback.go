package models

import (
	"gorm.io/gorm"
)

type Feedback struct {
	gorm.Model
	StudentID uint    `json:"student_id" gorm:"uniqueIndex:idx_feedback_student_event;not null"`
	EventID   uint    `json:"event_id" gorm:"uniqueIndex:idx_feedback_student_event;index;not null"`
	Rating    int     `json:"rating" gorm:"not null" validate:"min=1,max=5"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
	Student   Student `gorm:"foreignKey:StudentID" json:"-" validate:"-"`
	Event     Event   `gorm:"foreignKey:EventID" json:"-" validate:"-"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeSave(tx *gorm.DB) error {
	return Validate(f)
}
