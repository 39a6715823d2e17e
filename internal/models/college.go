package models

import (
	"gorm.io/gorm"
)

type College struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name" validate:"required,max=200"`
}

func (c *College) BeforeSave(tx *gorm.DB) error {
	return Validate(c)
}
