package handlers

import (
	"context"

	"github.com/gdg-garage/campus-events/internal/models"
	"gorm.io/gorm"
)

type CollegeHandler struct {
	db *gorm.DB
}

func NewCollegeHandler(db *gorm.DB) *CollegeHandler {
	return &CollegeHandler{db: db}
}

type ListCollegesOutput struct {
	Body []CollegeResponse
}

func (h *CollegeHandler) HandleList(ctx context.Context, _ *struct{}) (*ListCollegesOutput, error) {
	var colleges []models.College
	if err := h.db.WithContext(ctx).Order("name ASC").Find(&colleges).Error; err != nil {
		return nil, internalError(ctx, "Failed to fetch colleges", err)
	}

	out := &ListCollegesOutput{Body: make([]CollegeResponse, 0, len(colleges))}
	for _, c := range colleges {
		out.Body = append(out.Body, newCollegeResponse(c))
	}
	return out, nil
}

type CreateCollegeInput struct {
	Body struct {
		Name string `json:"name" doc:"Name of the college" minLength:"1" maxLength:"200"`
	}
}

type CollegeOutput struct {
	Body CollegeResponse
}

func (h *CollegeHandler) HandleCreate(ctx context.Context, input *CreateCollegeInput) (*CollegeOutput, error) {
	college := models.College{Name: input.Body.Name}
	if err := h.db.WithContext(ctx).Create(&college).Error; err != nil {
		return nil, saveError(ctx, "Failed to create college", err)
	}
	return &CollegeOutput{Body: newCollegeResponse(college)}, nil
}
