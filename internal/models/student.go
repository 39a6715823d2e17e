package models

import (
	"gorm.io/gorm"
)

// Student is a person enrolled at a College. StudentNumber is the
// institution-issued identifier students use to sign in ("student_id" on the wire).
type Student struct {
	gorm.Model
	Name          string  `gorm:"not null" json:"name" validate:"required,max=200"`
	Email         string  `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	StudentNumber string  `gorm:"uniqueIndex;not null" json:"student_id" validate:"required,max=64"`
	CollegeID     uint    `gorm:"index;not null" json:"college_id" validate:"required"`
	College       College `gorm:"foreignKey:CollegeID" json:"-" validate:"-"`
}

func (s *Student) BeforeSave(tx *gorm.DB) error {
	return Validate(s)
}
